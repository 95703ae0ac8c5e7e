// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/style"
	"github.com/jmylchreest/anchorpop/internal/theme"
)

// Default configuration values.
const (
	DefaultRelayoutDelay = 400 * time.Millisecond
	DefaultFrameWidth    = 1280
	DefaultFrameHeight   = 800
)

// Config represents the anchorpop configuration.
type Config struct {
	Popup      PopupConfig      `toml:"popup"`
	Decoration DecorationConfig `toml:"decoration"`
	Animation  AnimationConfig  `toml:"animation"`
	Theme      ThemeConfig      `toml:"theme"`
	Preview    PreviewConfig    `toml:"preview"`
}

// PopupConfig holds sizing and positioning options.
type PopupConfig struct {
	Width              placement.Dimension `toml:"width"`  // "wrap", "fill" or pixels
	Height             placement.Dimension `toml:"height"` // "wrap", "fill" or pixels
	PreferredDirection placement.Direction `toml:"preferred_direction"`
	OffsetX            int                 `toml:"offset_x"`
	OffsetYIfTop       int                 `toml:"offset_y_if_top"`
	OffsetYIfBottom    int                 `toml:"offset_y_if_bottom"`
	EdgeProtection     InsetsConfig        `toml:"edge_protection"`
	ForceMeasure       bool                `toml:"force_measure"` // measure wrap content before the first solve
}

// InsetsConfig is a per-side pixel amount.
type InsetsConfig struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// Insets converts to geometry insets.
func (i InsetsConfig) Insets() geom.Insets {
	return geom.Insets{Left: i.Left, Top: i.Top, Right: i.Right, Bottom: i.Bottom}
}

// RectConfig is a rectangle given by its edges.
type RectConfig struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// Rect converts to a geometry rectangle.
func (r RectConfig) Rect() geom.Rect {
	return geom.R(r.Left, r.Top, r.Right, r.Bottom)
}

// DecorationConfig holds shadow, arrow and border settings.
// Unset dimensions and colors are resolved from the theme.
type DecorationConfig struct {
	Shadow                 bool   `toml:"shadow"`
	ShadowInset            *int   `toml:"shadow_inset,omitempty"`
	Arrow                  bool   `toml:"arrow"`
	ArrowWidth             *int   `toml:"arrow_width,omitempty"`
	ArrowHeight            *int   `toml:"arrow_height,omitempty"`
	BorderWidth            *int   `toml:"border_width,omitempty"`
	Radius                 *int   `toml:"radius,omitempty"`
	BorderColor            string `toml:"border_color,omitempty"` // #RRGGBB or #AARRGGBB
	BackgroundColor        string `toml:"background_color,omitempty"`
	RemoveBorderWhenShadow bool   `toml:"remove_border_when_shadow"`
}

// AnimationConfig selects the show transition.
type AnimationConfig struct {
	Mode        string `toml:"mode"`         // auto, left, right, center, custom
	CustomStyle string `toml:"custom_style"` // used when mode is custom
}

// ThemeConfig selects the theme and the keys colors are read from.
type ThemeConfig struct {
	Name               string `toml:"name"`
	Path               string `toml:"path"` // explicit theme file, overrides name
	BorderColorKey     string `toml:"border_color_key"`
	BackgroundColorKey string `toml:"background_color_key"`
	HotReload          bool   `toml:"hot_reload"`
}

// PreviewConfig holds defaults for the solve and preview commands.
type PreviewConfig struct {
	Frame         RectConfig `toml:"frame"`
	RelayoutDelay Duration   `toml:"relayout_delay"` // simulated late remeasure in the preview
}

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "250ms", "1s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '250ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Popup: PopupConfig{
			Width:              placement.Wrap(),
			Height:             placement.Wrap(),
			PreferredDirection: placement.DirectionBottom,
			ForceMeasure:       true,
		},
		Decoration: DecorationConfig{
			Shadow:                 true,
			Arrow:                  true,
			RemoveBorderWhenShadow: false,
		},
		Animation: AnimationConfig{
			Mode: style.ModeAuto.String(),
		},
		Theme: ThemeConfig{
			Name:               theme.DefaultThemeName,
			BorderColorKey:     theme.KeyBorderColor,
			BackgroundColorKey: theme.KeyBgColor,
			HotReload:          true,
		},
		Preview: PreviewConfig{
			Frame:         RectConfig{Right: DefaultFrameWidth, Bottom: DefaultFrameHeight},
			RelayoutDelay: Duration(DefaultRelayoutDelay),
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "anchorpop", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Popup.Width.Kind == placement.DimensionExact && c.Popup.Width.Value <= 0 {
		return &ConfigError{Field: "popup.width", Message: "must be wrap, fill or a positive integer"}
	}
	if c.Popup.Height.Kind == placement.DimensionExact && c.Popup.Height.Value <= 0 {
		return &ConfigError{Field: "popup.height", Message: "must be wrap, fill or a positive integer"}
	}
	if !c.Popup.EdgeProtection.Insets().NonNegative() {
		return &ConfigError{Field: "popup.edge_protection", Message: "must not be negative"}
	}

	dims := []struct {
		field string
		v     *int
	}{
		{"decoration.shadow_inset", c.Decoration.ShadowInset},
		{"decoration.arrow_width", c.Decoration.ArrowWidth},
		{"decoration.arrow_height", c.Decoration.ArrowHeight},
		{"decoration.border_width", c.Decoration.BorderWidth},
		{"decoration.radius", c.Decoration.Radius},
	}
	for _, d := range dims {
		if d.v != nil && *d.v < 0 {
			return &ConfigError{Field: d.field, Message: fmt.Sprintf("must not be negative, got %d", *d.v)}
		}
	}

	for field, color := range map[string]string{
		"decoration.border_color":     c.Decoration.BorderColor,
		"decoration.background_color": c.Decoration.BackgroundColor,
	} {
		if color == "" {
			continue
		}
		if _, err := theme.ParseColor(color); err != nil {
			return &ConfigError{Field: field, Message: err.Error()}
		}
	}

	mode, err := style.ParseMode(c.Animation.Mode)
	if err != nil {
		return &ConfigError{Field: "animation.mode", Message: err.Error()}
	}
	if mode == style.ModeCustom && c.Animation.CustomStyle == "" {
		return &ConfigError{Field: "animation.custom_style", Message: "required when mode is custom"}
	}

	if c.Preview.Frame.Rect().Empty() {
		return &ConfigError{Field: "preview.frame", Message: "must have a positive width and height"}
	}
	if c.Preview.RelayoutDelay < 0 {
		return &ConfigError{Field: "preview.relayout_delay", Message: "must not be negative"}
	}

	return nil
}

// AnimationMode returns the parsed animation mode. Call Validate first.
func (c *Config) AnimationMode() style.Mode {
	mode, _ := style.ParseMode(c.Animation.Mode)
	return mode
}

// Options returns the immutable positioning options for the solver.
func (c *Config) Options() placement.Options {
	return placement.Options{
		Preferred:       c.Popup.PreferredDirection,
		EdgeProtection:  c.Popup.EdgeProtection.Insets(),
		OffsetX:         c.Popup.OffsetX,
		OffsetYIfTop:    c.Popup.OffsetYIfTop,
		OffsetYIfBottom: c.Popup.OffsetYIfBottom,
	}
}

// Constraints returns the content size constraints.
func (c *Config) Constraints() placement.SizeConstraints {
	return placement.SizeConstraints{Width: c.Popup.Width, Height: c.Popup.Height}
}

// IntPtr returns a pointer to v, for setting optional dimensions.
func IntPtr(v int) *int {
	return &v
}
