package popup

import (
	"github.com/jmylchreest/anchorpop/internal/config"
	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/style"
	"github.com/jmylchreest/anchorpop/internal/theme"
)

// NotSet marks a dimension that is resolved from the theme at show time.
const NotSet = -1

// Fallbacks used when neither the settings nor the theme provide a value.
const (
	fallbackShadowInset     = 12
	fallbackShadowElevation = 20
	fallbackShadowAlpha     = 0.25
	fallbackArrowWidth      = 18
	fallbackArrowHeight     = 9
	fallbackBorderWidth     = 1
	fallbackRadius          = 12
	fallbackBorderColor     = 0xFFDEE0E2
	fallbackBgColor         = 0xFFFFFFFF
)

// Settings configure one popup. They are read at Show and Refresh.
type Settings struct {
	Constraints  placement.SizeConstraints
	Options      placement.Options
	ForceMeasure bool

	ShowShadow             bool
	ShadowInset            int
	ShadowElevation        int
	ShadowAlpha            float64 // NotSet resolves from the theme
	ShowArrow              bool
	ArrowWidth             int
	ArrowHeight            int
	BorderWidth            int
	Radius                 int
	RemoveBorderWhenShadow bool

	// Explicit colors win over the theme keys.
	BorderColor        *uint32
	BackgroundColor    *uint32
	BorderColorKey     string
	BackgroundColorKey string

	AnimationMode style.Mode
	CustomStyle   style.ID
}

// DefaultSettings returns wrap-content settings with shadow and arrow shown
// and every dimension taken from the theme.
func DefaultSettings() Settings {
	return Settings{
		Constraints:        placement.SizeConstraints{Width: placement.Wrap(), Height: placement.Wrap()},
		Options:            placement.DefaultOptions(),
		ForceMeasure:       true,
		ShowShadow:         true,
		ShadowInset:        NotSet,
		ShadowElevation:    NotSet,
		ShadowAlpha:        NotSet,
		ShowArrow:          true,
		ArrowWidth:         NotSet,
		ArrowHeight:        NotSet,
		BorderWidth:        NotSet,
		Radius:             NotSet,
		BorderColorKey:     theme.KeyBorderColor,
		BackgroundColorKey: theme.KeyBgColor,
	}
}

// SettingsFromConfig builds settings from a validated configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	s.Constraints = cfg.Constraints()
	s.Options = cfg.Options()
	s.ForceMeasure = cfg.Popup.ForceMeasure

	d := cfg.Decoration
	s.ShowShadow = d.Shadow
	s.ShowArrow = d.Arrow
	s.RemoveBorderWhenShadow = d.RemoveBorderWhenShadow
	s.ShadowInset = orNotSet(d.ShadowInset)
	s.ArrowWidth = orNotSet(d.ArrowWidth)
	s.ArrowHeight = orNotSet(d.ArrowHeight)
	s.BorderWidth = orNotSet(d.BorderWidth)
	s.Radius = orNotSet(d.Radius)
	s.BorderColor = parseColor(d.BorderColor)
	s.BackgroundColor = parseColor(d.BackgroundColor)

	if cfg.Theme.BorderColorKey != "" {
		s.BorderColorKey = cfg.Theme.BorderColorKey
	}
	if cfg.Theme.BackgroundColorKey != "" {
		s.BackgroundColorKey = cfg.Theme.BackgroundColorKey
	}

	s.AnimationMode = cfg.AnimationMode()
	s.CustomStyle = style.ID(cfg.Animation.CustomStyle)
	return s
}

func orNotSet(v *int) int {
	if v == nil {
		return NotSet
	}
	return *v
}

func parseColor(s string) *uint32 {
	if s == "" {
		return nil
	}
	c, err := theme.ParseColor(s)
	if err != nil {
		return nil
	}
	return &c
}

// Theme resolves symbolic keys. Lookups are best effort; a false result
// falls back to built-in values.
type Theme interface {
	Color(key string) (uint32, bool)
	Dimension(key string) (int, bool)
	Value(key string) (float64, bool)
}

// resolve turns settings plus theme into concrete decoration and paint.
func resolve(s Settings, th Theme) (decoration.Decoration, decoration.Paint) {
	dim := func(v int, key string, fallback int) int {
		if v != NotSet {
			return v
		}
		if th != nil {
			if tv, ok := th.Dimension(key); ok {
				return tv
			}
		}
		return fallback
	}
	color := func(v *uint32, key string, fallback uint32) uint32 {
		if v != nil {
			return *v
		}
		if th != nil && key != "" {
			if tv, ok := th.Color(key); ok {
				return tv
			}
		}
		return fallback
	}

	alpha := s.ShadowAlpha
	if alpha == NotSet {
		alpha = fallbackShadowAlpha
		if th != nil {
			if tv, ok := th.Value(theme.KeyShadowAlpha); ok {
				alpha = tv
			}
		}
	}

	d := decoration.Decoration{
		ShowShadow:  s.ShowShadow,
		ShadowInset: dim(s.ShadowInset, theme.KeyShadowInset, fallbackShadowInset),
		ShowArrow:   s.ShowArrow,
		ArrowWidth:  dim(s.ArrowWidth, theme.KeyArrowWidth, fallbackArrowWidth),
		ArrowHeight: dim(s.ArrowHeight, theme.KeyArrowHeight, fallbackArrowHeight),
	}
	paint := decoration.Paint{
		BorderWidth:            dim(s.BorderWidth, theme.KeyBorderWidth, fallbackBorderWidth),
		Radius:                 dim(s.Radius, theme.KeyRadius, fallbackRadius),
		FillColor:              color(s.BackgroundColor, s.BackgroundColorKey, fallbackBgColor),
		BorderColor:            color(s.BorderColor, s.BorderColorKey, fallbackBorderColor),
		ShadowElevation:        dim(s.ShadowElevation, theme.KeyShadowElevation, fallbackShadowElevation),
		ShadowAlpha:            alpha,
		RemoveBorderWhenShadow: s.RemoveBorderWhenShadow,
	}
	return d, paint
}
