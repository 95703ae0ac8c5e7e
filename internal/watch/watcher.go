// Package watch notifies callers when a single file on disk changes.
package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of events must settle before the
// callback runs.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches one file and invokes a callback when it is written or
// replaced. Bursts of events, such as a truncate followed by writes, produce
// a single callback.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	logger   *slog.Logger
	onChange func()
	debounce time.Duration
	timer    *time.Timer
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewFileWatcher creates a watcher for filePath. Call Start to begin watching.
func NewFileWatcher(filePath string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		filePath: filePath,
		logger:   logger,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the function run on every change. It runs on the
// watcher goroutine; callers that touch UI state must hop to their own loop.
func (fw *FileWatcher) SetChangeCallback(cb func()) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onChange = cb
}

// SetDebounce sets the settle delay. Zero runs the callback on every event.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.debounce = d
}

// Path returns the watched file path.
func (fw *FileWatcher) Path() string {
	return fw.filePath
}

// Start begins watching the file for changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	// Editors replace files atomically, so watch the directory.
	dir := filepath.Dir(fw.filePath)
	if err := fw.watcher.Add(dir); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		return err
	}

	go fw.watch()
	fw.logger.Debug("file watcher started", "path", fw.filePath)
	return nil
}

func (fw *FileWatcher) watch() {
	filename := filepath.Base(fw.filePath)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.logger.Debug("watched file changed", "file", fw.filePath, "op", event.Op.String())
				fw.changed()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)

		case <-fw.done:
			return
		}
	}
}

// changed runs the callback now, or once the debounce delay passes without
// further events.
func (fw *FileWatcher) changed() {
	fw.mu.Lock()
	if fw.debounce > 0 {
		if fw.timer != nil {
			fw.timer.Reset(fw.debounce)
		} else {
			fw.timer = time.AfterFunc(fw.debounce, fw.fire)
		}
		fw.mu.Unlock()
		return
	}
	cb := fw.onChange
	fw.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (fw *FileWatcher) fire() {
	fw.mu.Lock()
	fw.timer = nil
	cb := fw.onChange
	running := fw.running
	fw.mu.Unlock()

	if running && cb != nil {
		cb()
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	fw.running = false
	close(fw.done)
	return fw.watcher.Close()
}
