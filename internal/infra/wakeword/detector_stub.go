//go:build !portaudio
// +build !portaudio

package wakeword

import (
	"context"
	"fmt"
	"log/slog"

	"voice-assistant/internal/application"
)

// Detector stub when portaudio (and with it porcupine) is not available
type Detector struct {
	logger *slog.Logger
}

func NewDetector(_ Config, logger *slog.Logger) *Detector {
	return &Detector{logger: logger}
}

func (d *Detector) Start(_ context.Context) error {
	return fmt.Errorf("wake word detection not available: rebuild with -tags portaudio")
}

func (d *Detector) Stop() error { return nil }

func (d *Detector) Detections() <-chan application.Detection { return nil }
