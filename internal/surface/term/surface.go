// Package term is a popup surface that lives in memory and renders to the
// terminal. It backs the solve command and the interactive preview.
package term

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/style"
)

// Op is one recorded surface call.
type Op struct {
	Name   string
	Window geom.Rect
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s", o.Name, o.Window)
}

// Surface records the window geometry it is asked to show.
type Surface struct {
	logger *slog.Logger

	visible    bool
	window     geom.Rect
	transition style.ID
	panel      decoration.PanelSpec
	arrow      *decoration.ArrowSpec
	history    []Op
	maxHistory int
}

// NewSurface creates a hidden surface keeping the last maxHistory operations.
// A maxHistory of 0 keeps everything.
func NewSurface(maxHistory int, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{logger: logger, maxHistory: maxHistory}
}

// Show makes the surface visible at the given window geometry.
func (s *Surface) Show(x, y, width, height int, transition style.ID) error {
	s.visible = true
	s.transition = transition
	s.set("show", geom.XYWH(x, y, width, height))
	return nil
}

// Update moves and resizes the surface in one step.
func (s *Surface) Update(x, y, width, height int) error {
	if !s.visible {
		return &Error{Message: "update on hidden surface"}
	}
	s.set("update", geom.XYWH(x, y, width, height))
	return nil
}

// Move moves the surface, keeping its size.
func (s *Surface) Move(x, y int) error {
	if !s.visible {
		return &Error{Message: "move on hidden surface"}
	}
	s.set("move", geom.XYWH(x, y, s.window.Width(), s.window.Height()))
	return nil
}

// Resize resizes the surface, keeping its origin.
func (s *Surface) Resize(width, height int) error {
	if !s.visible {
		return &Error{Message: "resize on hidden surface"}
	}
	s.set("resize", geom.XYWH(s.window.Left, s.window.Top, width, height))
	return nil
}

// Dismiss hides the surface.
func (s *Surface) Dismiss() error {
	s.visible = false
	s.arrow = nil
	s.record("dismiss", s.window)
	return nil
}

// Paint stores the decoration to draw.
func (s *Surface) Paint(panel decoration.PanelSpec, arrow *decoration.ArrowSpec) {
	s.panel = panel
	s.arrow = arrow
}

func (s *Surface) set(op string, window geom.Rect) {
	s.window = window
	s.record(op, window)
	s.logger.Debug("surface "+op, "window", window)
}

func (s *Surface) record(op string, window geom.Rect) {
	s.history = append(s.history, Op{Name: op, Window: window})
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// Visible reports whether the surface is shown.
func (s *Surface) Visible() bool { return s.visible }

// Window returns the window rectangle in window coordinates.
func (s *Surface) Window() geom.Rect { return s.window }

// Transition returns the transition the surface was last shown with.
func (s *Surface) Transition() style.ID { return s.transition }

// Panel returns the last painted panel.
func (s *Surface) Panel() decoration.PanelSpec { return s.panel }

// Arrow returns the last painted arrow, or nil.
func (s *Surface) Arrow() *decoration.ArrowSpec { return s.arrow }

// History returns the recorded operations, oldest first.
func (s *Surface) History() []Op {
	out := make([]Op, len(s.history))
	copy(out, s.history)
	return out
}

// Error reports a surface operation that could not be applied.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
