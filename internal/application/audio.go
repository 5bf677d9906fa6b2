package application

import (
	"context"
	"time"
)

// Detection is one wake-word hit.
type Detection struct {
	Keyword string
	At      time.Time
}

// WakeDetector listens continuously and emits a Detection each time the
// wake word is heard.
type WakeDetector interface {
	Start(ctx context.Context) error
	Detections() <-chan Detection
	Stop() error
}

// CommandRecorder captures a single spoken command after a wake-word hit.
// It returns a complete WAV clip, or an empty slice when nothing was heard.
type CommandRecorder interface {
	Record(ctx context.Context) ([]byte, error)
}
