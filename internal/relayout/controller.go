// Package relayout re-positions a shown popup when its content measures to a
// different size than the one it was placed with.
package relayout

import (
	"log/slog"

	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
)

// State is the controller state.
type State int

const (
	StateStable State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "stable"
}

// Scheduler defers a callback to the UI event queue.
type Scheduler interface {
	Post(fn func()) (cancel func())
}

// Surface is the part of the window surface the controller drives.
type Surface interface {
	Update(x, y, width, height int) error
}

// LayoutFunc re-positions a placement whose content size has changed.
// It must recompute position and decoration from scratch.
type LayoutFunc func(p *placement.Placement)

// Config wires a Controller to its collaborators.
type Config struct {
	Scheduler Scheduler
	Surface   Surface
	Layout    LayoutFunc
	Logger    *slog.Logger
	ID        string // popup identity, for logs

	// OnRelayout, if set, runs after the surface has been updated.
	OnRelayout func(p placement.Placement)
}

// Controller owns the placement of one popup for its lifetime.
//
// At most one re-layout is queued at a time. Measurements that arrive while
// one is queued only replace the pending size. A queued re-layout is tied to
// the generation it was posted in; Detach bumps the generation so a callback
// that slips past cancellation finds itself stale and does nothing.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	placement  placement.Placement
	state      State
	pending    geom.Size
	generation uint64
	attached   bool
	cancel     func()
}

// New creates a controller for an already solved and decorated placement.
func New(p placement.Placement, cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ID != "" {
		logger = logger.With("popup", cfg.ID)
	}
	return &Controller{
		cfg:       cfg,
		logger:    logger,
		placement: p,
	}
}

// Placement returns the current placement.
func (c *Controller) Placement() placement.Placement {
	return c.placement
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Attached reports whether the popup is still shown.
func (c *Controller) Attached() bool {
	return c.attached
}

// Attach marks the popup as shown. Anything queued before is dropped.
func (c *Controller) Attach() {
	c.cancelPending()
	c.attached = true
}

// Detach marks the popup as gone and cancels any queued re-layout.
func (c *Controller) Detach() {
	c.cancelPending()
	c.attached = false
	c.generation++
}

// OnMeasured reports the content's measured size after a layout pass.
// The size is bounded by the placement's measure specs first, so exact axes
// keep their size. It returns true when a re-layout is queued afterwards.
func (c *Controller) OnMeasured(size geom.Size) bool {
	if !c.attached {
		return false
	}
	size = c.placement.Constrain(size)

	if size == c.placement.Size() {
		if c.state == StatePending {
			c.logger.Debug("content size settled, dropping re-layout", "size", size)
			c.cancelPending()
		}
		return false
	}

	c.pending = size
	if c.state == StatePending {
		c.logger.Debug("coalesced measurement into queued re-layout", "size", size)
		return true
	}

	c.state = StatePending
	gen := c.generation
	c.cancel = c.cfg.Scheduler.Post(func() { c.fire(gen) })
	c.logger.Debug("queued re-layout", "from", c.placement.Size(), "to", size)
	return true
}

func (c *Controller) fire(gen uint64) {
	if gen != c.generation || !c.attached || c.state != StatePending {
		c.logger.Debug("skipping stale re-layout", "generation", gen, "current", c.generation)
		return
	}
	c.cancel = nil

	before := c.placement
	c.placement.Width = c.pending.Width
	c.placement.Height = c.pending.Height
	if c.cfg.Layout != nil {
		c.cfg.Layout(&c.placement)
	}

	c.updateSurface(before)
	c.state = StateStable

	c.logger.Debug("re-layout applied",
		"direction", c.placement.Direction,
		"x", c.placement.X,
		"y", c.placement.Y,
		"size", c.placement.Size(),
	)
	if c.cfg.OnRelayout != nil {
		c.cfg.OnRelayout(c.placement)
	}
}

func (c *Controller) updateSurface(before placement.Placement) {
	if c.cfg.Surface == nil {
		return
	}
	p := c.placement
	if p.WindowX() == before.WindowX() && p.WindowY() == before.WindowY() &&
		p.WindowWidth() == before.WindowWidth() && p.WindowHeight() == before.WindowHeight() {
		return
	}
	if err := c.cfg.Surface.Update(p.WindowX(), p.WindowY(), p.WindowWidth(), p.WindowHeight()); err != nil {
		c.logger.Warn("failed to update popup surface", "error", err)
	}
}

func (c *Controller) cancelPending() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateStable
}
