//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"log/slog"
)

// Recorder stub when portaudio is not available
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(_ RecorderConfig, logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

func (r *Recorder) Record(_ context.Context) ([]byte, error) {
	return nil, ErrBindingUnavailable
}

func Devices() ([]DeviceInfo, error) {
	return nil, ErrBindingUnavailable
}
