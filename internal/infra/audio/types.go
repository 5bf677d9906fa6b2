package audio

import "errors"

// ErrBindingUnavailable reports that the portaudio binding is not compiled
// into this build.
var ErrBindingUnavailable = errors.New("portaudio binding not available: rebuild with -tags portaudio")

// DeviceInfo describes one device known to the portaudio binding. A device
// with both input and output channels is both a capture and a playback
// device.
type DeviceInfo struct {
	Index             int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
}

// RecorderConfig holds the capture parameters for a command recording.
type RecorderConfig struct {
	SampleRate       int
	Channels         int
	ChunkSize        int
	MaxSeconds       float64
	SilenceSeconds   float64
	SilenceThreshold int
}
