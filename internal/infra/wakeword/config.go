// Package wakeword listens on the default input device for a Porcupine
// wake word and announces each hit on a channel.
package wakeword

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"voice-assistant/internal/infra/alsa"
)

type Config struct {
	AccessKey       string
	KeywordPath     string
	Sensitivity     float64
	ActivationSound string
}

// keyword returns a human-readable keyword name derived from the model file,
// e.g. "hey-jarvis_raspberry-pi.ppn" -> "hey-jarvis_raspberry-pi".
func (c Config) keyword() string {
	base := filepath.Base(c.KeywordPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// playActivationSound gives immediate feedback that the wake word was heard.
// Runs in its own goroutine so detection is not blocked while the sound
// plays; failures are logged and ignored.
func playActivationSound(ctx context.Context, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	go func() {
		if err := alsa.PlaySoundFile(ctx, path); err != nil {
			logger.Error("playing activation sound", "error", err)
		}
	}()
}
