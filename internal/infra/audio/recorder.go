//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// Recorder captures a spoken command from the default input device,
// stopping after a run of silence or the configured maximum duration.
type Recorder struct {
	cfg    RecorderConfig
	logger *slog.Logger
}

func NewRecorder(cfg RecorderConfig, logger *slog.Logger) *Recorder {
	return &Recorder{cfg: cfg, logger: logger}
}

// Record captures until cfg.SilenceSeconds of consecutive sub-threshold
// audio follow the start of the recording, or cfg.MaxSeconds elapse. The
// full take, leading silence included, is returned as a WAV clip.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	// The bound buffer holds one frame per channel.
	chunk := make([]int16, r.cfg.ChunkSize*r.cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(r.cfg.Channels, 0, float64(r.cfg.SampleRate), r.cfg.ChunkSize, chunk)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Stop()

	r.logger.Info("listening", "max_seconds", r.cfg.MaxSeconds)

	var samples []int16
	silentSamples := 0
	silenceNeeded := int(float64(r.cfg.SampleRate)*r.cfg.SilenceSeconds) * r.cfg.Channels
	maxSamples := int(float64(r.cfg.SampleRate)*r.cfg.MaxSeconds) * r.cfg.Channels

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}
		samples = append(samples, chunk...)

		if RMS16(chunk) < r.cfg.SilenceThreshold {
			silentSamples += len(chunk)
		} else {
			silentSamples = 0
		}

		if silentSamples >= silenceNeeded {
			r.logger.Debug("silence detected, stopping recording")
			break
		}
		if len(samples) >= maxSamples {
			r.logger.Debug("max duration reached, stopping recording")
			break
		}
	}

	r.logger.Info("recorded audio", "seconds", float64(len(samples))/float64(r.cfg.SampleRate*r.cfg.Channels))
	return EncodeWAV(samples, r.cfg.SampleRate, r.cfg.Channels), nil
}

// Devices enumerates every device the portaudio binding can see.
func Devices() ([]DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, DeviceInfo{
			Index:             i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices, nil
}
