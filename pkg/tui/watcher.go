package tui

import (
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits after the last write before
// reporting a change.
const watchDebounce = 200 * time.Millisecond

// StartWatcher watches the directory holding the data file and sends
// SlotChangedMsg when that file is written, created, renamed or removed.
// The directory is watched instead of the file so atomic replaces by other
// tools are still seen.
func StartWatcher(path string, program *tea.Program, log *slog.Logger) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	name := filepath.Base(path)
	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name || event.Op == fsnotify.Chmod {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					program.Send(SlotChangedMsg{})
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher error", "err", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}
