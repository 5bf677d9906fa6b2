package application

import "context"

type SpeechToText interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Speaker synthesizes speech. Speak returns as soon as playback has
// started; Stop interrupts any utterance still in flight.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
}

// Chatter produces a conversational reply for free-form requests.
type Chatter interface {
	Reply(ctx context.Context, text string) (string, error)
	Reachable(ctx context.Context) bool
}
