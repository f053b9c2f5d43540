package services

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/claude-quota-tui/internal/logger"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a fixed set of files inside one directory.
// Bursts of writes collapse into a single notification.
type Watcher struct {
	watcher       *fsnotify.Watcher
	changes       chan struct{}
	errors        chan error
	stopChan      chan struct{}
	debounceTimer *time.Timer
	files         []string
	debounce      time.Duration
	mu            sync.Mutex
	closeOnce     sync.Once
}

// NewWatcher watches dir for writes to any of the named files. The directory
// is watched rather than the files so that atomic replaces are seen too.
func NewWatcher(dir string, files []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fw,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 1),
		stopChan: make(chan struct{}),
		files:    files,
		debounce: debounce,
	}
	go w.watchLoop()
	return w, nil
}

// Changes delivers one value per debounced burst of file changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher errors. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !slices.Contains(w.files, filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(w.debounce, w.notify)
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
		// A change is already pending.
	}
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
