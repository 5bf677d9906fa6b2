// Package alsa wraps the ALSA and USB command-line utilities (aplay,
// arecord, speaker-test, lsusb, mpg123) behind typed results instead of
// parsed console text.
package alsa

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrToolMissing reports that a required command-line tool is not installed.
// Callers treat it as a diagnosable condition, not a hard failure.
var ErrToolMissing = errors.New("tool not installed")

// Device is one ALSA PCM device as reported by `aplay -l` / `arecord -l`.
type Device struct {
	Card     int
	Number   int
	CardName string
	Name     string
}

// ID returns the hardware identifier accepted by -D flags, e.g. "hw:1,0".
func (d Device) ID() string {
	return fmt.Sprintf("hw:%d,%d", d.Card, d.Number)
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s: %s)", d.ID(), d.CardName, d.Name)
}

// cardLine matches e.g.
// "card 1: Device [USB Audio Device], device 0: USB Audio [USB Audio]"
var cardLine = regexp.MustCompile(`^card (\d+): \S+ \[([^\]]+)\], device (\d+): [^\[]*\[([^\]]+)\]`)

// ListPlaybackDevices enumerates playback devices via `aplay -l`.
func ListPlaybackDevices(ctx context.Context) ([]Device, error) {
	out, err := runTool(ctx, "aplay", "-l")
	if err != nil {
		return nil, err
	}
	return parseCardList(out), nil
}

// ListCaptureDevices enumerates recording devices via `arecord -l`.
func ListCaptureDevices(ctx context.Context) ([]Device, error) {
	out, err := runTool(ctx, "arecord", "-l")
	if err != nil {
		return nil, err
	}
	return parseCardList(out), nil
}

// ListUSBAudioDevices returns the `lsusb` entries that look like audio-class
// interfaces.
func ListUSBAudioDevices(ctx context.Context) ([]string, error) {
	out, err := runTool(ctx, "lsusb")
	if err != nil {
		return nil, err
	}

	var devices []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line), "audio") {
			devices = append(devices, line)
		}
	}
	return devices, nil
}

// RecordWAV captures seconds of 16 kHz mono S16_LE audio from the given
// device into path. An empty device records from the ALSA default.
func RecordWAV(ctx context.Context, device string, seconds int, path string) error {
	args := []string{"-q"}
	if device != "" {
		args = append(args, "-D", device)
	}
	args = append(args,
		"-f", "S16_LE",
		"-r", "16000",
		"-c", "1",
		"-d", strconv.Itoa(seconds),
		path,
	)
	_, err := runTool(ctx, "arecord", args...)
	return err
}

// PlayWAV plays a WAV file via aplay, on the default output when device is
// empty.
func PlayWAV(ctx context.Context, device string, path string) error {
	args := []string{"-q"}
	if device != "" {
		args = append(args, "-D", device)
	}
	args = append(args, path)
	_, err := runTool(ctx, "aplay", args...)
	return err
}

// PlayTone emits a sine tone via speaker-test. speaker-test loops until
// killed, so the context carries a deadline one second past the requested
// duration and the resulting timeout is not treated as a failure.
func PlayTone(ctx context.Context, device string, freqHz, seconds int) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(seconds+1)*time.Second)
	defer cancel()

	args := []string{"-t", "sine", "-f", strconv.Itoa(freqHz), "-l", strconv.Itoa(seconds)}
	if device != "" {
		args = append([]string{"-D", device}, args...)
	}

	_, err := runTool(ctx, "speaker-test", args...)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return err
}

// PlaySoundFile plays an activation sound, choosing the player by extension.
// Unknown extensions fall back to a short beep.
func PlaySoundFile(ctx context.Context, path string) error {
	switch {
	case strings.HasSuffix(path, ".wav"):
		return PlayWAV(ctx, "", path)
	case strings.HasSuffix(path, ".mp3"):
		_, err := runTool(ctx, "mpg123", "-q", path)
		return err
	default:
		return PlayTone(ctx, "", 800, 1)
	}
}

func runTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrToolMissing)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s: %w", name, strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func parseCardList(out []byte) []Device {
	var devices []Device
	for _, line := range strings.Split(string(out), "\n") {
		m := cardLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		card, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[3])
		devices = append(devices, Device{
			Card:     card,
			Number:   num,
			CardName: m[2],
			Name:     m[4],
		})
	}
	return devices
}
