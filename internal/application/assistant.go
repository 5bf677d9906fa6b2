package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

const (
	// rearmDelay keeps the detector from re-triggering on the tail of the
	// assistant's own speech.
	rearmDelay = 500 * time.Millisecond

	fallbackReply = "I'm not sure how to help with that."
	sttApology    = "Sorry, I didn't catch that."
)

// Assistant glues wake-word detection, command recording, transcription,
// intent routing, the LLM and audio output into one loop.
type Assistant struct {
	detector WakeDetector
	recorder CommandRecorder
	stt      SpeechToText
	chatter  Chatter
	speaker  Speaker
	player   MusicPlayer
	stats    Stats
	logger   *slog.Logger
}

func NewAssistant(
	detector WakeDetector,
	recorder CommandRecorder,
	stt SpeechToText,
	chatter Chatter,
	speaker Speaker,
	player MusicPlayer,
	stats Stats,
	logger *slog.Logger,
) *Assistant {
	if stats == nil {
		stats = NoopStats{}
	}
	return &Assistant{
		detector: detector,
		recorder: recorder,
		stt:      stt,
		chatter:  chatter,
		speaker:  speaker,
		player:   player,
		stats:    stats,
		logger:   logger,
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	if !a.chatter.Reachable(ctx) {
		a.logger.Warn("ollama server unreachable, LLM features disabled")
	}

	if err := a.detector.Start(ctx); err != nil {
		return fmt.Errorf("starting wake detector: %w", err)
	}
	defer a.detector.Stop()

	a.logger.Info("assistant ready, listening for wake word")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case det, ok := <-a.detector.Detections():
			if !ok {
				return fmt.Errorf("wake detector closed")
			}
			a.stats.WakeDetected()
			a.logger.Info("wake word detected", "keyword", det.Keyword)

			if err := a.handleInteraction(ctx); err != nil {
				a.logger.Error("handling interaction", "error", err)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rearmDelay):
			}
		}
	}
}

// handleInteraction runs one wake-to-reply exchange. The user may interrupt
// ongoing speech or music simply by saying the wake word again, so both are
// stopped before listening.
func (a *Assistant) handleInteraction(ctx context.Context) error {
	a.speaker.Stop()
	a.player.Stop()

	wav, err := a.recorder.Record(ctx)
	if err != nil {
		a.speak(ctx, sttApology)
		return fmt.Errorf("recording command: %w", err)
	}
	if len(wav) == 0 {
		a.logger.Info("no speech detected after wake word")
		return nil
	}

	text, err := a.stt.Transcribe(ctx, wav)
	if err != nil {
		a.speak(ctx, sttApology)
		return fmt.Errorf("transcribing: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		a.logger.Info("empty transcription, re-arming")
		return nil
	}

	a.logger.Info("user said", "text", text)
	a.stats.CommandProcessed()

	reply := a.execute(ctx, ParseIntent(text))
	if reply == "" {
		reply = fallbackReply
	}
	a.speak(ctx, reply)
	return nil
}

func (a *Assistant) execute(ctx context.Context, req domain.Request) string {
	switch req.Intent {
	case domain.IntentPlayMusic:
		return a.handlePlay(req.Query)
	case domain.IntentStopMusic:
		a.player.Stop()
		return "Stopping music playback."
	default:
		reply, err := a.chatter.Reply(ctx, req.RawText)
		if err != nil {
			a.stats.ChatFailed()
			a.logger.Error("llm request failed", "error", err)
			return fallbackReply
		}
		return reply
	}
}

func (a *Assistant) handlePlay(query string) string {
	if query == "" {
		songs := a.player.Songs()
		if len(songs) == 0 {
			return "No music files found."
		}
		return fmt.Sprintf("I found %d songs. Please specify which one you'd like me to play.", len(songs))
	}

	matches := a.player.Search(query)
	switch {
	case len(matches) == 0:
		return fmt.Sprintf("I couldn't find any songs matching '%s'.", query)
	case len(matches) == 1:
		if err := a.player.Play(matches[0]); err != nil {
			a.logger.Error("playing song", "song", matches[0], "error", err)
			return fmt.Sprintf("Couldn't play %s.", matches[0])
		}
		return fmt.Sprintf("Playing %s.", matches[0])
	default:
		listed := matches
		if len(listed) > 5 {
			listed = listed[:5]
		}
		names := strings.Join(listed, ", ")
		if len(names) > 150 {
			names = names[:150]
		}
		return fmt.Sprintf("I found multiple songs: %s. Please be more specific.", names)
	}
}

func (a *Assistant) speak(ctx context.Context, text string) {
	if err := a.speaker.Speak(ctx, text); err != nil {
		a.logger.Error("speaking reply", "error", err)
	}
}
