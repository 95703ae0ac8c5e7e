package config

import (
	"log/slog"

	"github.com/jmylchreest/anchorpop/internal/watch"
)

// Watcher reloads the configuration file when it changes on disk.
// Invalid edits are logged and the previous configuration stays in effect.
type Watcher struct {
	path   string
	logger *slog.Logger
	fw     *watch.FileWatcher
}

// Watch starts watching path and calls onChange with every valid reload.
// onChange runs on the watcher goroutine.
func Watch(path string, logger *slog.Logger, onChange func(*Config)) (*Watcher, error) {
	if path == "" {
		path = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := watch.NewFileWatcher(path, logger)
	if err != nil {
		return nil, err
	}

	w := &Watcher{path: path, logger: logger, fw: fw}
	fw.SetChangeCallback(func() {
		cfg, err := LoadConfig(path)
		if err != nil {
			logger.Warn("ignoring invalid config change", "path", path, "error", err)
			return
		}
		logger.Info("config reloaded", "path", path)
		onChange(cfg)
	})

	if err := fw.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	return w.fw.Stop()
}
