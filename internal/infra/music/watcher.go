package music

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

const rescanDebounce = 500 * time.Millisecond

// Watch keeps the song listing current as files are added to or removed
// from the music directory. It blocks until ctx is cancelled, so callers
// run it in a goroutine. Bursts of filesystem events are debounced into a
// single rescan.
func (p *Player) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(p.dir); err != nil {
		return fmt.Errorf("watching %s: %w", p.dir, err)
	}

	p.logger.Info("watching music directory", "dir", p.dir)

	var debounce *time.Timer
	var rescanCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(rescanDebounce)
				rescanCh = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(rescanDebounce)
			}

		case <-rescanCh:
			p.rescan()
			p.logger.Debug("music library rescanned", "songs", len(p.Songs()))
			debounce = nil
			rescanCh = nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("music watcher error", "error", err)
		}
	}
}
