// Package probe runs a best-effort diagnosis of the machine's audio
// hardware: it enumerates playback, capture and USB devices, asks the
// portaudio binding what it can see, and exercises one record-and-playback
// round trip. Every step is independently non-fatal so the report is as
// complete as the hardware allows.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"voice-assistant/internal/infra/alsa"
	"voice-assistant/internal/infra/audio"
)

const (
	// DefaultPreferredDevice is the usual address of a USB sound card on a
	// Raspberry Pi, where card 0 is the onboard HDMI output.
	DefaultPreferredDevice = "hw:1,0"

	// DefaultRecordSeconds is the self-test recording length.
	DefaultRecordSeconds = 3
)

// Probe holds the diagnostic steps as swappable functions so tests can run
// without audio hardware. The zero value is not usable; construct with New.
type Probe struct {
	PlaybackDevices func(ctx context.Context) ([]alsa.Device, error)
	CaptureDevices  func(ctx context.Context) ([]alsa.Device, error)
	USBDevices      func(ctx context.Context) ([]string, error)
	BindingDevices  func() ([]audio.DeviceInfo, error)
	Record          func(ctx context.Context, device string, seconds int, path string) error
	Play            func(ctx context.Context, device, path string) error

	PreferredDevice string
	RecordSeconds   int

	Out    io.Writer
	Logger *slog.Logger
}

// New returns a probe wired to the real ALSA tools and portaudio binding,
// reporting to out.
func New(out io.Writer, logger *slog.Logger) *Probe {
	return &Probe{
		PlaybackDevices: alsa.ListPlaybackDevices,
		CaptureDevices:  alsa.ListCaptureDevices,
		USBDevices:      alsa.ListUSBAudioDevices,
		BindingDevices:  audio.Devices,
		Record:          alsa.RecordWAV,
		Play:            alsa.PlayWAV,
		PreferredDevice: DefaultPreferredDevice,
		RecordSeconds:   DefaultRecordSeconds,
		Out:             out,
		Logger:          logger,
	}
}

// Run executes the full diagnostic sequence. It always returns nil: the
// probe reports what it finds and leaves conclusions to the reader.
func (p *Probe) Run(ctx context.Context) error {
	p.printf("=== Audio Device Probe ===\n\n")

	p.listPlayback(ctx)
	p.listCapture(ctx)
	p.listUSB(ctx)
	p.listBinding()
	p.selfTest(ctx)
	p.printGuidance()

	return nil
}

func (p *Probe) listPlayback(ctx context.Context) {
	p.printf("Playback devices (aplay -l):\n")
	devices, err := p.PlaybackDevices(ctx)
	switch {
	case errors.Is(err, alsa.ErrToolMissing):
		p.printf("  aplay not found\n")
	case err != nil:
		p.Logger.Warn("listing playback devices failed", "error", err)
		p.printf("  listing failed: %v\n", err)
	case len(devices) == 0:
		p.printf("  no playback devices found\n")
	default:
		for _, d := range devices {
			p.printf("  %s\n", d)
		}
	}
	p.printf("\n")
}

func (p *Probe) listCapture(ctx context.Context) {
	p.printf("Recording devices (arecord -l):\n")
	devices, err := p.CaptureDevices(ctx)
	switch {
	case errors.Is(err, alsa.ErrToolMissing):
		p.printf("  arecord not found\n")
	case err != nil:
		p.Logger.Warn("listing recording devices failed", "error", err)
		p.printf("  listing failed: %v\n", err)
	case len(devices) == 0:
		p.printf("  no recording devices found\n")
	default:
		for _, d := range devices {
			p.printf("  %s\n", d)
		}
	}
	p.printf("\n")
}

func (p *Probe) listUSB(ctx context.Context) {
	p.printf("USB audio devices (lsusb):\n")
	devices, err := p.USBDevices(ctx)
	switch {
	case errors.Is(err, alsa.ErrToolMissing):
		p.printf("  lsusb not found\n")
	case err != nil:
		p.Logger.Warn("listing USB devices failed", "error", err)
		p.printf("  listing failed: %v\n", err)
	case len(devices) == 0:
		p.printf("  no USB audio devices found\n")
	default:
		for _, d := range devices {
			p.printf("  %s\n", d)
		}
	}
	p.printf("\n")
}

func (p *Probe) listBinding() {
	p.printf("Portaudio devices:\n")
	devices, err := p.BindingDevices()
	switch {
	case err != nil:
		p.printf("  binding unavailable: %v\n", err)
	case len(devices) == 0:
		p.printf("  no devices reported\n")
	default:
		for _, d := range devices {
			if d.MaxInputChannels > 0 {
				p.printf("  [%d] %s: input (%d channels)\n", d.Index, d.Name, d.MaxInputChannels)
			}
			if d.MaxOutputChannels > 0 {
				p.printf("  [%d] %s: output (%d channels)\n", d.Index, d.Name, d.MaxOutputChannels)
			}
		}
	}
	p.printf("\n")
}

// selfTest records a short sample from the preferred device, retries on the
// default input if that fails, then plays the sample back. The temporary
// file is removed on every path.
func (p *Probe) selfTest(ctx context.Context) {
	p.printf("Record and playback self-test:\n")

	f, err := os.CreateTemp("", "audioprobe-*.wav")
	if err != nil {
		p.Logger.Error("creating temp file failed", "error", err)
		p.printf("  could not create temporary file: %v\n\n", err)
		return
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	device := p.PreferredDevice
	p.printf("  recording %ds from %s...\n", p.RecordSeconds, device)
	if err := p.Record(ctx, device, p.RecordSeconds, path); err != nil {
		p.Logger.Warn("recording failed", "device", device, "error", err)
		p.printf("  recording from %s failed: %v\n", device, err)
		p.printf("  retrying on default input...\n")

		device = ""
		if err := p.Record(ctx, device, p.RecordSeconds, path); err != nil {
			p.Logger.Error("recording failed on default input", "error", err)
			p.printf("  recording failed on default input too: %v\n", err)
			p.printf("  self-test FAILED: no working recording path\n\n")
			return
		}
	}
	p.printf("  recording OK\n")

	p.printf("  playing sample back...\n")
	if err := p.Play(ctx, "", path); err != nil {
		p.Logger.Warn("playback failed", "error", err)
		p.printf("  playback failed: %v\n\n", err)
		return
	}
	p.printf("  playback OK\n\n")
}

func (p *Probe) printGuidance() {
	p.printf("=== Configuration guidance ===\n")
	p.printf("Set the working devices in config.yaml:\n")
	p.printf("\n")
	p.printf("  recording:\n")
	p.printf("    input_device: \"hw:1,0\"   # from the recording list above\n")
	p.printf("    output_device: \"hw:1,0\"  # from the playback list above\n")
	p.printf("\n")
	p.printf("Leave a device empty to use the system default. USB sound\n")
	p.printf("cards usually appear as card 1 on a Raspberry Pi.\n")
}

func (p *Probe) printf(format string, args ...any) {
	fmt.Fprintf(p.Out, format, args...)
}
