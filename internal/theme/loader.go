package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmylchreest/anchorpop/internal/watch"
)

// Loader loads themes by name or path and keeps the current one hot-reloadable.
// It is safe for concurrent use; the popup reads through it as its theming
// collaborator.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	currentPath string
	theme       *Theme
	watcher     *watch.FileWatcher
	onChange    func(*Theme)
}

// NewLoader creates a loader using the user's themes directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return NewLoaderWithDir(themesDir, logger)
}

// NewLoaderWithDir creates a loader reading user themes from dir.
func NewLoaderWithDir(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: dir,
	}
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "anchorpop", "themes"), nil
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/anchorpop/themes/<name>.yaml)
//  2. Embedded/bundled themes
//  3. The embedded default theme
func (l *Loader) LoadTheme(name string) error {
	if name == "" {
		name = DefaultThemeName
	}

	t, err := l.resolve(name, map[string]bool{})
	if err != nil {
		l.logger.Warn("theme not found, using default", "theme", name, "error", err)
		t, err = l.resolve(DefaultThemeName, map[string]bool{})
		if err != nil {
			return err
		}
	}

	l.set(t)
	l.logger.Info("loaded theme", "name", t.Name, "path", t.Path)
	return nil
}

// LoadFile loads a theme from an explicit path. Its extends chain is resolved by name.
func (l *Loader) LoadFile(path string) error {
	t, err := NewTheme(filepath.Base(path), path)
	if err != nil {
		return err
	}
	if t.Extends != "" {
		parent, err := l.resolve(t.Extends, map[string]bool{t.Name: true})
		if err != nil {
			return fmt.Errorf("theme %s extends %s: %w", t.Name, t.Extends, err)
		}
		t = t.merged(parent)
	}

	l.set(t)
	l.logger.Info("loaded theme file", "name", t.Name, "path", path)
	return nil
}

func (l *Loader) resolve(name string, seen map[string]bool) (*Theme, error) {
	if seen[name] {
		return nil, fmt.Errorf("circular theme extends at %q", name)
	}
	seen[name] = true

	t, err := l.lookup(name)
	if err != nil {
		return nil, err
	}
	if t.Extends == "" {
		return t, nil
	}

	parent, err := l.resolve(t.Extends, seen)
	if err != nil {
		return nil, err
	}
	return t.merged(parent), nil
}

func (l *Loader) lookup(name string) (*Theme, error) {
	if l.themesDir != "" {
		themePath := filepath.Join(l.themesDir, name+".yaml")
		if _, err := os.Stat(themePath); err == nil {
			t, err := NewTheme(name, themePath)
			if err == nil {
				return t, nil
			}
			l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
		}
	}

	if t, found := GetEmbeddedTheme(name); found {
		return t, nil
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func (l *Loader) set(t *Theme) {
	l.mu.Lock()
	l.theme = t
	l.currentName = t.Name
	l.currentPath = t.Path
	cb := l.onChange
	l.mu.Unlock()

	if cb != nil {
		cb(t)
	}
}

// Current returns the currently loaded theme, or nil before the first load.
func (l *Loader) Current() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// Color resolves key against the current theme.
func (l *Loader) Color(key string) (uint32, bool) {
	return l.Current().Color(key)
}

// Dimension resolves key against the current theme.
func (l *Loader) Dimension(key string) (int, bool) {
	return l.Current().Dimension(key)
}

// Value resolves key against the current theme.
func (l *Loader) Value(key string) (float64, bool) {
	return l.Current().Value(key)
}

// SetChangeCallback sets the callback run after every (re)load.
func (l *Loader) SetChangeCallback(cb func(*Theme)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = cb
}

// Reload reloads the current theme from disk.
func (l *Loader) Reload() error {
	l.mu.RLock()
	name, path := l.currentName, l.currentPath
	l.mu.RUnlock()

	if path != "" && filepath.Dir(path) != l.themesDir {
		return l.LoadFile(path)
	}
	return l.LoadTheme(name)
}

// StartHotReload watches the current theme file and reloads on change.
// Embedded themes have no file and are not watched.
func (l *Loader) StartHotReload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Path == "" {
		l.logger.Debug("not starting hot-reload for embedded theme")
		return nil
	}

	if l.watcher != nil {
		_ = l.watcher.Stop()
	}

	w, err := watch.NewFileWatcher(l.theme.Path, l.logger)
	if err != nil {
		return err
	}
	w.SetChangeCallback(func() {
		if err := l.Reload(); err != nil {
			l.logger.Warn("failed to hot-reload theme", "error", err)
			return
		}
		l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
	})
	if err := w.Start(); err != nil {
		return err
	}
	l.watcher = w
	return nil
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		_ = l.watcher.Stop()
		l.watcher = nil
	}
}

// ListThemes returns bundled and user theme names, with duplicates removed.
func (l *Loader) ListThemes() []string {
	seen := make(map[string]bool)
	var themes []string

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, name)
		}
	}

	if l.themesDir != "" {
		entries, err := os.ReadDir(l.themesDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				name := entry.Name()
				if filepath.Ext(name) == ".yaml" {
					themeName := name[:len(name)-5]
					if !seen[themeName] {
						seen[themeName] = true
						themes = append(themes, themeName)
					}
				}
			}
		} else {
			l.logger.Debug("failed to read themes directory", "error", err)
		}
	}

	return themes
}
