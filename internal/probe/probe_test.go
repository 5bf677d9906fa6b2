package probe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"voice-assistant/internal/infra/alsa"
	"voice-assistant/internal/infra/audio"
)

func testProbe(out io.Writer) *Probe {
	p := New(out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Replace every hardware touchpoint with a benign fake; individual
	// tests override the paths they exercise.
	p.PlaybackDevices = func(context.Context) ([]alsa.Device, error) {
		return []alsa.Device{{Card: 1, Number: 0, CardName: "USB Audio Device", Name: "USB Audio"}}, nil
	}
	p.CaptureDevices = func(context.Context) ([]alsa.Device, error) {
		return []alsa.Device{{Card: 1, Number: 0, CardName: "USB Audio Device", Name: "USB Audio"}}, nil
	}
	p.USBDevices = func(context.Context) ([]string, error) {
		return []string{"Bus 001 Device 004: ID 0d8c:0014 C-Media Electronics, Inc. Audio Adapter"}, nil
	}
	p.BindingDevices = func() ([]audio.DeviceInfo, error) {
		return nil, audio.ErrBindingUnavailable
	}
	p.Record = func(_ context.Context, _ string, _ int, path string) error {
		return os.WriteFile(path, []byte("RIFF"), 0644)
	}
	p.Play = func(context.Context, string, string) error { return nil }
	return p
}

func TestRun_HappyPath(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	var recorded string
	p.Record = func(_ context.Context, device string, _ int, path string) error {
		recorded = path
		if device != DefaultPreferredDevice {
			t.Errorf("recorded from %q, want %q", device, DefaultPreferredDevice)
		}
		return os.WriteFile(path, []byte("RIFF"), 0644)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := out.String()
	for _, want := range []string{"recording OK", "playback OK", "Configuration guidance"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if recorded == "" {
		t.Fatal("Record was never called")
	}
	if _, err := os.Stat(recorded); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file %s still exists after run", recorded)
	}
}

func TestRun_FallsBackToDefaultInput(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	var devices []string
	p.Record = func(_ context.Context, device string, _ int, path string) error {
		devices = append(devices, device)
		if device == DefaultPreferredDevice {
			return errors.New("arecord: audio open error: No such device")
		}
		return os.WriteFile(path, []byte("RIFF"), 0644)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(devices) != 2 || devices[0] != DefaultPreferredDevice || devices[1] != "" {
		t.Errorf("record attempts: got %v, want preferred then default", devices)
	}
	if !strings.Contains(out.String(), "recording OK") {
		t.Errorf("fallback recording did not succeed:\n%s", out.String())
	}
}

func TestRun_AllRecordingFails(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	var recorded string
	p.Record = func(_ context.Context, _ string, _ int, path string) error {
		recorded = path
		return errors.New("no such device")
	}
	p.Play = func(context.Context, string, string) error {
		t.Error("playback attempted after recording failed")
		return nil
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run must not fail on diagnostics, got: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "self-test FAILED") {
		t.Errorf("report missing final failure:\n%s", report)
	}
	if !strings.Contains(report, "Configuration guidance") {
		t.Errorf("guidance not printed after failure:\n%s", report)
	}
	if _, err := os.Stat(recorded); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file %s left behind after failure", recorded)
	}
}

func TestRun_PlaybackFailureRemovesFile(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	var recorded string
	p.Record = func(_ context.Context, _ string, _ int, path string) error {
		recorded = path
		return os.WriteFile(path, []byte("RIFF"), 0644)
	}
	p.Play = func(context.Context, string, string) error {
		return errors.New("aplay: playback open error")
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "playback failed") {
		t.Errorf("report missing playback failure:\n%s", out.String())
	}
	if _, err := os.Stat(recorded); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file %s left behind after playback failure", recorded)
	}
}

func TestRun_MissingTools(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	p.PlaybackDevices = func(context.Context) ([]alsa.Device, error) {
		return nil, alsa.ErrToolMissing
	}
	p.CaptureDevices = func(context.Context) ([]alsa.Device, error) {
		return nil, alsa.ErrToolMissing
	}
	p.USBDevices = func(context.Context) ([]string, error) {
		return nil, alsa.ErrToolMissing
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := out.String()
	for _, want := range []string{"aplay not found", "arecord not found", "lsusb not found"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRun_EmptyEnumerations(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	p.PlaybackDevices = func(context.Context) ([]alsa.Device, error) { return nil, nil }
	p.CaptureDevices = func(context.Context) ([]alsa.Device, error) { return nil, nil }
	p.USBDevices = func(context.Context) ([]string, error) { return nil, nil }

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := out.String()
	for _, want := range []string{"no playback devices found", "no recording devices found", "no USB audio devices found"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRun_BindingDevices(t *testing.T) {
	var out bytes.Buffer
	p := testProbe(&out)

	p.BindingDevices = func() ([]audio.DeviceInfo, error) {
		return []audio.DeviceInfo{
			{Index: 0, Name: "USB Audio Device", MaxInputChannels: 1, MaxOutputChannels: 2},
			{Index: 1, Name: "dmix", MaxOutputChannels: 2},
		}, nil
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"[0] USB Audio Device: input (1 channels)",
		"[0] USB Audio Device: output (2 channels)",
		"[1] dmix: output (2 channels)",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
