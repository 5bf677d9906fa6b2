//go:build portaudio
// +build portaudio

package wakeword

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	porcupine "github.com/Picovoice/porcupine/binding/go/v3"
	"github.com/gordonklaus/portaudio"

	"voice-assistant/internal/application"
)

// Detector runs Porcupine over a continuous portaudio capture stream.
type Detector struct {
	cfg    Config
	logger *slog.Logger

	detections chan application.Detection

	mu       sync.Mutex
	engine   *porcupine.Porcupine
	stream   *portaudio.Stream
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewDetector(cfg Config, logger *slog.Logger) *Detector {
	return &Detector{
		cfg:        cfg,
		logger:     logger,
		detections: make(chan application.Detection, 4),
	}
}

func (d *Detector) Detections() <-chan application.Detection {
	return d.detections
}

func (d *Detector) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	engine := porcupine.Porcupine{
		AccessKey:    d.cfg.AccessKey,
		KeywordPaths: []string{d.cfg.KeywordPath},
		Sensitivities: []float32{
			float32(d.cfg.Sensitivity),
		},
	}
	if err := engine.Init(); err != nil {
		return fmt.Errorf("initializing porcupine: %w", err)
	}
	d.engine = &engine

	if err := portaudio.Initialize(); err != nil {
		engine.Delete()
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	frame := make([]int16, porcupine.FrameLength)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(porcupine.SampleRate), porcupine.FrameLength, frame)
	if err != nil {
		engine.Delete()
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		engine.Delete()
		portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}
	d.stream = stream
	d.stop = make(chan struct{})

	d.logger.Info("wake word detector started", "keyword", d.cfg.keyword())

	d.wg.Add(1)
	go d.listen(ctx, frame)
	return nil
}

func (d *Detector) listen(ctx context.Context, frame []int16) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		default:
		}

		if err := d.stream.Read(); err != nil {
			d.logger.Error("reading audio frame", "error", err)
			return
		}

		idx, err := d.engine.Process(frame)
		if err != nil {
			d.logger.Error("processing audio frame", "error", err)
			return
		}
		if idx < 0 {
			continue
		}

		playActivationSound(ctx, d.cfg.ActivationSound, d.logger)

		det := application.Detection{Keyword: d.cfg.keyword(), At: time.Now()}
		select {
		case d.detections <- det:
		default:
			// Consumer is still busy with the previous interaction.
			d.logger.Warn("dropping wake word detection, consumer busy")
		}
	}
}

func (d *Detector) Stop() error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.stop != nil {
			close(d.stop)
		}
		d.wg.Wait()

		if d.stream != nil {
			d.stream.Stop()
			d.stream.Close()
			portaudio.Terminate()
		}
		if d.engine != nil {
			d.engine.Delete()
		}
		d.logger.Info("wake word detector stopped")
	})
	return nil
}
