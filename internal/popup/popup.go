// Package popup shows content in a floating window attached to an anchor.
//
// A Popup ties the pieces together: it solves the placement against the
// visible frame, reserves room for the shadow and arrow, picks the show
// transition and hands window geometry to a Surface. After it is shown, a
// re-layout controller follows the content's measured size.
package popup

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/relayout"
	"github.com/jmylchreest/anchorpop/internal/style"
)

var (
	// ErrNoContent is returned by Show when no content has been set.
	ErrNoContent = errors.New("popup has no content")

	// ErrNotShown is returned by operations that need a shown popup.
	ErrNotShown = errors.New("popup is not shown")
)

// ConfigError reports a popup that cannot be shown as configured.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("popup %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Surface is the platform window the popup is shown in.
// Coordinates are window coordinates relative to the anchor's root window.
// The popup itself only calls Show, Update and Dismiss; Move and Resize
// complete the window contract for callers that nudge one dimension.
type Surface interface {
	relayout.Surface
	Show(x, y, width, height int, transition style.ID) error
	Move(x, y int) error
	Resize(width, height int) error
	Dismiss() error
}

// Painter is implemented by surfaces that draw the decoration themselves.
// arrow is nil when no arrow is shown.
type Painter interface {
	Paint(panel decoration.PanelSpec, arrow *decoration.ArrowSpec)
}

// Config wires a Popup to its collaborators.
type Config struct {
	Settings  Settings
	Surface   Surface
	Scheduler relayout.Scheduler
	Theme     Theme // optional
	Logger    *slog.Logger

	// OnPlacement is called after the popup is shown, refreshed or
	// re-laid out, with the placement now on screen.
	OnPlacement func(placement.Placement)
}

// Popup is one anchored floating window. It is not safe for concurrent use;
// drive it from the goroutine that runs the Scheduler.
type Popup struct {
	id       ulid.ULID
	logger   *slog.Logger
	settings Settings
	surface  Surface
	sched    relayout.Scheduler
	theme    Theme
	content  placement.Measurer
	notify   func(placement.Placement)

	ctrl       *relayout.Controller
	decoration decoration.Decoration
	paint      decoration.Paint
	transition style.ID
}

// New creates a popup. It is not shown until Show is called.
func New(cfg Config) (*Popup, error) {
	if cfg.Surface == nil {
		return nil, &ConfigError{Field: "surface", Err: errors.New("required")}
	}
	if cfg.Scheduler == nil {
		return nil, &ConfigError{Field: "scheduler", Err: errors.New("required")}
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate popup id: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Popup{
		id:       id,
		logger:   logger.With("popup", id.String()),
		settings: cfg.Settings,
		surface:  cfg.Surface,
		sched:    cfg.Scheduler,
		theme:    cfg.Theme,
		notify:   cfg.OnPlacement,
	}, nil
}

// ID returns the popup's unique identifier.
func (p *Popup) ID() string {
	return p.id.String()
}

// SetContent sets what the popup shows. It takes effect at the next Show.
func (p *Popup) SetContent(content placement.Measurer) {
	p.content = content
}

// Settings returns the current settings.
func (p *Popup) Settings() Settings {
	return p.settings
}

// SetSettings replaces the settings. A shown popup picks them up on Refresh.
func (p *Popup) SetSettings(s Settings) {
	p.settings = s
}

// SetTheme replaces the theming collaborator.
func (p *Popup) SetTheme(th Theme) {
	p.theme = th
}

// Shown reports whether the popup is currently shown.
func (p *Popup) Shown() bool {
	return p.ctrl != nil && p.ctrl.Attached()
}

// Show solves the placement for an anchor inside frame and shows the surface.
// Showing an already shown popup re-positions it from scratch.
func (p *Popup) Show(anchor placement.AnchorGeometry, frame geom.Rect) error {
	if p.content == nil {
		return &ConfigError{Field: "content", Err: ErrNoContent}
	}

	if p.ctrl != nil {
		p.ctrl.Detach()
	}

	p.decoration, p.paint = resolve(p.settings, p.theme)

	pl, err := p.solve(anchor, frame)
	if err != nil {
		return err
	}
	decoration.Adjust(&pl, p.decoration, frame)
	p.transition = style.ForPlacement(pl, p.settings.AnimationMode, p.settings.CustomStyle)

	if err := p.surface.Show(pl.WindowX(), pl.WindowY(), pl.WindowWidth(), pl.WindowHeight(), p.transition); err != nil {
		return fmt.Errorf("failed to show popup surface: %w", err)
	}

	p.attach(pl)
	p.logger.Debug("popup shown",
		"direction", pl.Direction,
		"x", pl.WindowX(),
		"y", pl.WindowY(),
		"width", pl.WindowWidth(),
		"height", pl.WindowHeight(),
		"transition", p.transition,
	)
	return nil
}

// ShowAt is Show with an anchor given as a rectangle in root window
// coordinates, rooted at root.
func (p *Popup) ShowAt(anchor geom.Rect, root geom.Point, frame geom.Rect) error {
	return p.Show(placement.AnchorRect(anchor.Offset(root), root), frame)
}

func (p *Popup) solve(anchor placement.AnchorGeometry, frame geom.Rect) (placement.Placement, error) {
	c := p.settings.Constraints
	opts := p.settings.Options

	if p.settings.ForceMeasure && c.NeedsMeasure() {
		return placement.SolveWith(anchor, frame, c, opts, bounded{p.content})
	}

	// Without a forced measure the content starts at zero on its wrap axes
	// and the re-layout controller catches up after the first layout pass.
	return placement.Solve(anchor, frame, c, opts, &geom.Size{})
}

func (p *Popup) attach(pl placement.Placement) {
	p.ctrl = relayout.New(pl, relayout.Config{
		Scheduler:  p.sched,
		Surface:    p.surface,
		Layout:     p.relayout,
		Logger:     p.logger,
		ID:         p.ID(),
		OnRelayout: p.placed,
	})
	p.ctrl.Attach()
	p.placed(pl)
}

func (p *Popup) placed(pl placement.Placement) {
	p.repaint()
	if p.notify != nil {
		p.notify(pl)
	}
}

func (p *Popup) relayout(pl *placement.Placement) {
	placement.Locate(pl, p.settings.Options)
	decoration.Adjust(pl, p.decoration, pl.Frame)
}

// Layout runs a layout pass: the content is measured against the placement's
// bounds and a size change queues a re-layout. It reports whether one was queued.
func (p *Popup) Layout() bool {
	if !p.Shown() || p.content == nil {
		return false
	}
	pl := p.ctrl.Placement()
	return p.ctrl.OnMeasured(p.content.Measure(pl.WidthSpec, pl.HeightSpec))
}

// ContentMeasured reports a size measured by the platform's own layout pass.
// Axes with an exact size ignore it and wrap axes are capped by the frame.
func (p *Popup) ContentMeasured(size geom.Size) bool {
	if !p.Shown() {
		return false
	}
	return p.ctrl.OnMeasured(size)
}

// Refresh re-resolves settings and theme for a shown popup and moves the
// surface in one step. The current content size is kept.
func (p *Popup) Refresh() error {
	if !p.Shown() {
		return ErrNotShown
	}

	pl := p.ctrl.Placement()
	p.ctrl.Detach()

	p.decoration, p.paint = resolve(p.settings, p.theme)
	p.relayout(&pl)

	if err := p.surface.Update(pl.WindowX(), pl.WindowY(), pl.WindowWidth(), pl.WindowHeight()); err != nil {
		p.logger.Warn("failed to update popup surface", "error", err)
	}
	p.attach(pl)
	return nil
}

// Dismiss hides the popup. Queued re-layouts are dropped.
func (p *Popup) Dismiss() error {
	if !p.Shown() {
		return ErrNotShown
	}
	p.ctrl.Detach()
	if err := p.surface.Dismiss(); err != nil {
		return fmt.Errorf("failed to dismiss popup surface: %w", err)
	}
	p.logger.Debug("popup dismissed")
	return nil
}

// Placement returns the current placement, or false before the first Show.
func (p *Popup) Placement() (placement.Placement, bool) {
	if p.ctrl == nil {
		return placement.Placement{}, false
	}
	return p.ctrl.Placement(), true
}

// RelayoutState returns the re-layout controller state.
func (p *Popup) RelayoutState() relayout.State {
	if p.ctrl == nil {
		return relayout.StateStable
	}
	return p.ctrl.State()
}

// Transition returns the transition chosen at the last Show.
func (p *Popup) Transition() style.ID {
	return p.transition
}

// Decoration returns the resolved decoration.
func (p *Popup) Decoration() decoration.Decoration {
	return p.decoration
}

// Paint returns the resolved colors and strokes.
func (p *Popup) Paint() decoration.Paint {
	return p.paint
}

// Panel returns the content panel geometry for the current placement.
func (p *Popup) Panel() (decoration.PanelSpec, bool) {
	pl, ok := p.Placement()
	if !ok {
		return decoration.PanelSpec{}, false
	}
	return decoration.Panel(pl, p.decoration, p.paint), true
}

// Arrow returns the arrow geometry for the current placement.
func (p *Popup) Arrow() (decoration.ArrowSpec, bool) {
	pl, ok := p.Placement()
	if !ok {
		return decoration.ArrowSpec{}, false
	}
	return decoration.Arrow(pl, p.decoration, p.paint)
}

func (p *Popup) repaint() {
	painter, ok := p.surface.(Painter)
	if !ok {
		return
	}
	panel, _ := p.Panel()
	if arrow, ok := p.Arrow(); ok {
		painter.Paint(panel, &arrow)
		return
	}
	painter.Paint(panel, nil)
}

// bounded honours the measure spec the way a layout system would: an exact
// axis takes the spec size and an at-most axis is capped by it.
type bounded struct {
	m placement.Measurer
}

func (b bounded) Measure(width, height placement.MeasureSpec) geom.Size {
	size := b.m.Measure(width, height)
	return geom.Size{
		Width:  width.Constrain(size.Width),
		Height: height.Constrain(size.Height),
	}
}
