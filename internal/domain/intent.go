package domain

type Intent string

const (
	IntentChat      Intent = "chat"
	IntentPlayMusic Intent = "play_music"
	IntentStopMusic Intent = "stop_music"
)

// Request is one recognized user utterance with its routed intent.
type Request struct {
	Intent  Intent
	Query   string // search terms for play_music, empty otherwise
	RawText string
}
