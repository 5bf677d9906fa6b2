// Package music plays local music files through an external player
// (mpg123 by default) and keeps the library listing current with a
// filesystem watcher.
package music

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

var supportedFormats = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
}

const stopTimeout = 2 * time.Second

type Player struct {
	dir       string
	playerCmd string
	device    string
	logger    *slog.Logger

	mu      sync.Mutex
	songs   []string
	current *exec.Cmd
	track   string
	exited  chan struct{}
}

func NewPlayer(dir, playerCmd, outputDevice string, logger *slog.Logger) *Player {
	p := &Player{
		dir:       dir,
		playerCmd: playerCmd,
		device:    outputDevice,
		logger:    logger,
	}

	if _, err := os.Stat(dir); err != nil {
		logger.Warn("music directory does not exist", "dir", dir)
	}
	p.rescan()

	return p
}

// Songs returns the current library listing, sorted by name.
func (p *Player) Songs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.songs...)
}

// Search returns the songs whose name contains query, case-insensitively.
func (p *Player) Search(query string) []string {
	query = strings.ToLower(query)

	var matches []string
	for _, song := range p.Songs() {
		if strings.Contains(strings.ToLower(song), query) {
			matches = append(matches, song)
		}
	}
	return matches
}

// Play starts playback of the named song, stopping anything already
// playing.
func (p *Player) Play(name string) error {
	path := filepath.Join(p.dir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("song not found: %w", err)
	}

	p.Stop()

	args := []string{"-q"}
	if p.device != "" {
		args = append(args, "-a", p.device)
	}
	args = append(args, path)

	cmd := exec.Command(p.playerCmd, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.playerCmd, err)
	}

	p.logger.Info("playing song", "song", name)

	exited := make(chan struct{})
	p.mu.Lock()
	p.current = cmd
	p.track = name
	p.exited = exited
	p.mu.Unlock()

	go func() {
		cmd.Wait()
		close(exited)

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.current == cmd {
			p.current = nil
			p.track = ""
			p.logger.Info("finished playing", "song", name)
		}
	}()

	return nil
}

// Stop terminates the player process, escalating to SIGKILL if it does not
// exit within two seconds.
func (p *Player) Stop() {
	p.mu.Lock()
	cmd := p.current
	exited := p.exited
	p.current = nil
	p.track = ""
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-exited:
	case <-time.After(stopTimeout):
		cmd.Process.Kill()
		<-exited
	}
	p.logger.Info("playback stopped")
}

// Current returns the track now playing, if any.
func (p *Player) Current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track, p.track != ""
}

func (p *Player) rescan() {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		p.mu.Lock()
		p.songs = nil
		p.mu.Unlock()
		return
	}

	var songs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedFormats[strings.ToLower(filepath.Ext(entry.Name()))] {
			songs = append(songs, entry.Name())
		}
	}
	sort.Strings(songs)

	p.mu.Lock()
	p.songs = songs
	p.mu.Unlock()
}
