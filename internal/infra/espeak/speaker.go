// Package espeak synthesizes speech by shelling out to the espeak binary,
// optionally piping its WAV output to aplay for a specific ALSA device.
package espeak

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

type Speaker struct {
	voice  string
	rate   int
	device string
	logger *slog.Logger

	mu    sync.Mutex
	procs []*exec.Cmd
}

func NewSpeaker(voice string, rate int, outputDevice string, logger *slog.Logger) *Speaker {
	return &Speaker{
		voice:  voice,
		rate:   rate,
		device: outputDevice,
		logger: logger,
	}
}

// Speak starts synthesis and returns immediately; playback continues in the
// background so the assistant can keep listening for the wake word. Any
// utterance still playing is cut off first.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.Stop()

	args := []string{"-s", strconv.Itoa(s.rate)}
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}

	if s.device == "" {
		cmd := exec.CommandContext(ctx, "espeak", append(args, text)...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting espeak: %w", err)
		}
		s.track(cmd)
		go s.watch(cmd)
		return nil
	}

	// espeak renders a WAV stream that aplay plays on the configured device.
	synth := exec.CommandContext(ctx, "espeak", append(args, "--stdout", text)...)
	play := exec.CommandContext(ctx, "aplay",
		"-q", "-D", s.device, "-f", "S16_LE", "-r", "22050", "-c", "1", "-")

	pipe, err := synth.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating espeak pipe: %w", err)
	}
	play.Stdin = pipe

	if err := synth.Start(); err != nil {
		return fmt.Errorf("starting espeak: %w", err)
	}
	if err := play.Start(); err != nil {
		synth.Process.Kill()
		synth.Wait()
		return fmt.Errorf("starting aplay: %w", err)
	}

	s.track(synth, play)
	go s.watch(synth, play)
	return nil
}

// Stop cuts off any in-flight speech.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cmd := range s.procs {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}
	s.procs = nil
}

func (s *Speaker) track(cmds ...*exec.Cmd) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procs = cmds
}

func (s *Speaker) watch(cmds ...*exec.Cmd) {
	for _, cmd := range cmds {
		cmd.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only clear state if a newer utterance hasn't replaced these processes.
	if len(s.procs) > 0 && s.procs[0] == cmds[0] {
		s.procs = nil
	}
}
