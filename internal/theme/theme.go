package theme

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Symbolic keys the popup resolves through the theme.
const (
	KeyBgColor         = "popup.bg_color"
	KeyBorderColor     = "popup.border_color"
	KeyBorderWidth     = "popup.border_width"
	KeyRadius          = "popup.radius"
	KeyShadowElevation = "popup.shadow_elevation"
	KeyShadowAlpha     = "popup.shadow_alpha"
	KeyShadowInset     = "popup.shadow_inset"
	KeyArrowWidth      = "popup.arrow_width"
	KeyArrowHeight     = "popup.arrow_height"
)

// Theme is a resolved set of theme values.
type Theme struct {
	Name       string             `yaml:"name"`
	Extends    string             `yaml:"extends,omitempty"`
	Colors     map[string]string  `yaml:"colors,omitempty"`
	Dimensions map[string]int     `yaml:"dimensions,omitempty"`
	Values     map[string]float64 `yaml:"values,omitempty"`

	Path      string    `yaml:"-"` // empty for embedded themes
	ModTime   time.Time `yaml:"-"`
	IsDefault bool      `yaml:"-"`
}

// Parse decodes a YAML theme document.
func Parse(data []byte) (*Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	for key, value := range t.Colors {
		if _, err := ParseColor(value); err != nil {
			return nil, fmt.Errorf("invalid theme color %s: %w", key, err)
		}
	}
	return &t, nil
}

// NewTheme loads a theme file from disk. The extends chain is not resolved here.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.Path = path
	t.ModTime = info.ModTime()
	return t, nil
}

// Marshal encodes the theme as YAML.
func (t *Theme) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// Color resolves a color key to ARGB. Unknown keys report false.
func (t *Theme) Color(key string) (uint32, bool) {
	if t == nil {
		return 0, false
	}
	s, ok := t.Colors[key]
	if !ok {
		return 0, false
	}
	c, err := ParseColor(s)
	if err != nil {
		return 0, false
	}
	return c, true
}

// Dimension resolves a pixel dimension key.
func (t *Theme) Dimension(key string) (int, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.Dimensions[key]
	return v, ok
}

// Value resolves a float key.
func (t *Theme) Value(key string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.Values[key]
	return v, ok
}

// merged returns a copy of parent overlaid with t's own values.
func (t *Theme) merged(parent *Theme) *Theme {
	out := *t
	out.Colors = overlay(parent.Colors, t.Colors)
	out.Dimensions = overlay(parent.Dimensions, t.Dimensions)
	out.Values = overlay(parent.Values, t.Values)
	return &out
}

func overlay[V any](base, top map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// ParseColor parses "#RGB", "#RRGGBB" or "#AARRGGBB" into ARGB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	alpha := uint32(0xff)

	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha in %q", s)
		}
		alpha = uint32(a)
		s = "#" + s[3:]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	r, g, b := c.RGB255()
	return alpha<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// FormatColor renders an ARGB value as #AARRGGBB.
func FormatColor(argb uint32) string {
	return fmt.Sprintf("#%08X", argb)
}
