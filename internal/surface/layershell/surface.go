// Package layershell shows popups as wlr-layer-shell surfaces under GTK4.
package layershell

import (
	"log/slog"
	"math"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/style"
)

// Namespace is the layer-shell namespace compositors see.
const Namespace = "anchorpop"

// Surface is a borderless layer-shell window placed with top/left margins.
// Window coordinates are relative to the monitor it is shown on.
type Surface struct {
	window  *gtk.Window
	overlay *gtk.Overlay
	canvas  *gtk.DrawingArea
	content *gtk.Widget
	logger  *slog.Logger

	geometry   geom.Rect
	transition style.ID
	panel      decoration.PanelSpec
	arrow      *decoration.ArrowSpec
	closed     bool
}

// NewSurface creates a hidden popup window holding content.
func NewSurface(app *gtk.Application, content gtk.Widgetter, monitor *gdk.Monitor, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Surface{
		content: gtk.BaseWidget(content),
		logger:  logger,
	}

	s.window = gtk.NewWindow()
	s.window.SetApplication(app)
	s.window.SetDecorated(false)
	s.window.SetResizable(false)
	s.window.AddCSSClass("anchorpop")

	layershell.InitForWindow(s.window)
	layershell.SetLayer(s.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(s.window, 0)
	layershell.SetKeyboardMode(s.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(s.window, Namespace)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, true)
	if monitor != nil {
		layershell.SetMonitor(s.window, monitor)
	}

	s.canvas = gtk.NewDrawingArea()
	s.canvas.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, _, _ int) {
		s.draw(cr)
	})

	s.overlay = gtk.NewOverlay()
	s.overlay.SetChild(s.canvas)
	s.overlay.AddOverlay(content)
	s.window.SetChild(s.overlay)

	return s
}

// Show places the window and presents it.
func (s *Surface) Show(x, y, width, height int, transition style.ID) error {
	if s.closed {
		return &Error{Message: "surface is closed"}
	}
	if s.transition != "" {
		s.window.RemoveCSSClass(string(s.transition))
	}
	if transition != "" {
		s.window.AddCSSClass(string(transition))
	}
	s.transition = transition

	s.apply(geom.XYWH(x, y, width, height))
	s.window.SetVisible(true)
	s.window.Present()
	return nil
}

// Update moves and resizes the window in one step.
func (s *Surface) Update(x, y, width, height int) error {
	if s.closed {
		return &Error{Message: "surface is closed"}
	}
	s.apply(geom.XYWH(x, y, width, height))
	return nil
}

// Move moves the window, keeping its size.
func (s *Surface) Move(x, y int) error {
	return s.Update(x, y, s.geometry.Width(), s.geometry.Height())
}

// Resize resizes the window, keeping its origin.
func (s *Surface) Resize(width, height int) error {
	return s.Update(s.geometry.Left, s.geometry.Top, width, height)
}

// Dismiss hides the window. It can be shown again.
func (s *Surface) Dismiss() error {
	if s.closed {
		return nil
	}
	s.window.SetVisible(false)
	return nil
}

// Close destroys the window.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.window.Close()
}

// Paint stores the decoration and positions the content inside the panel.
func (s *Surface) Paint(panel decoration.PanelSpec, arrow *decoration.ArrowSpec) {
	s.panel = panel
	s.arrow = arrow

	b := panel.Bounds
	s.content.SetMarginStart(b.Left)
	s.content.SetMarginTop(b.Top)
	s.content.SetMarginEnd(max(0, s.geometry.Width()-b.Right))
	s.content.SetMarginBottom(max(0, s.geometry.Height()-b.Bottom))
	s.canvas.QueueDraw()
}

// Window returns the underlying GTK window.
func (s *Surface) Window() *gtk.Window {
	return s.window
}

func (s *Surface) apply(r geom.Rect) {
	s.geometry = r
	layershell.SetMargin(s.window, layershell.LayerShellEdgeLeft, r.Left)
	layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, r.Top)
	s.window.SetDefaultSize(r.Width(), r.Height())
	s.window.SetSizeRequest(r.Width(), r.Height())
	s.canvas.SetContentWidth(r.Width())
	s.canvas.SetContentHeight(r.Height())
	s.logger.Debug("surface geometry", "window", r)
}

func (s *Surface) draw(cr *cairo.Context) {
	p := s.panel
	b := p.Bounds
	if b.Empty() {
		return
	}

	if p.ShadowElevation > 0 && p.ShadowAlpha > 0 {
		// Concentric translucent outlines approximate a soft shadow.
		steps := min(p.ShadowElevation, 12)
		alpha := p.ShadowAlpha / float64(steps)
		for i := steps; i > 0; i-- {
			grow := float64(i)
			cr.SetSourceRGBA(0, 0, 0, alpha)
			roundedRect(cr, float64(b.Left)-grow, float64(b.Top)-grow+grow/2,
				float64(b.Width())+2*grow, float64(b.Height())+2*grow, float64(p.Radius)+grow)
			cr.Fill()
		}
	}

	setARGB(cr, p.FillColor)
	roundedRect(cr, float64(b.Left), float64(b.Top), float64(b.Width()), float64(b.Height()), float64(p.Radius))
	if p.DrawBorder {
		cr.FillPreserve()
		setARGB(cr, p.BorderColor)
		cr.SetLineWidth(float64(p.BorderWidth))
		cr.Stroke()
	} else {
		cr.Fill()
	}

	if s.arrow != nil {
		drawArrow(cr, *s.arrow)
	}
}

func drawArrow(cr *cairo.Context, a decoration.ArrowSpec) {
	pts := a.Triangle()
	ox, oy := float64(a.Origin.X), float64(a.Origin.Y)

	cr.NewPath()
	cr.MoveTo(ox+pts[0].X, oy+pts[0].Y)
	cr.LineTo(ox+pts[1].X, oy+pts[1].Y)
	cr.LineTo(ox+pts[2].X, oy+pts[2].Y)
	cr.ClosePath()
	setARGB(cr, a.FillColor)
	cr.Fill()

	if !a.DrawBorder {
		return
	}
	// Only the two slanted edges; the base overlaps the panel border.
	cr.NewPath()
	cr.MoveTo(ox+pts[0].X, oy+pts[0].Y)
	cr.LineTo(ox+pts[1].X, oy+pts[1].Y)
	cr.LineTo(ox+pts[2].X, oy+pts[2].Y)
	setARGB(cr, a.BorderColor)
	cr.SetLineWidth(float64(a.BorderWidth))
	cr.Stroke()
}

func roundedRect(cr *cairo.Context, x, y, w, h, r float64) {
	r = math.Min(r, math.Min(w, h)/2)
	cr.NewPath()
	cr.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	cr.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	cr.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	cr.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	cr.ClosePath()
}

func setARGB(cr *cairo.Context, argb uint32) {
	r, g, b, a := rgba(argb)
	cr.SetSourceRGBA(r, g, b, a)
}

func rgba(argb uint32) (r, g, b, a float64) {
	return float64(argb>>16&0xff) / 255,
		float64(argb>>8&0xff) / 255,
		float64(argb&0xff) / 255,
		float64(argb>>24&0xff) / 255
}

// Error represents a layer-shell surface error.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Label is popup content backed by a wrapping GTK label.
type Label struct {
	*gtk.Label
}

// NewLabel creates label content.
func NewLabel(text string) *Label {
	l := gtk.NewLabel(text)
	l.SetWrap(true)
	l.SetXAlign(0)
	return &Label{Label: l}
}

// Measure asks GTK for the label's natural size within the given bounds.
func (l *Label) Measure(width, height placement.MeasureSpec) geom.Size {
	_, natW, _, _ := l.Label.Measure(gtk.OrientationHorizontal, -1)
	w := width.Constrain(natW)
	_, natH, _, _ := l.Label.Measure(gtk.OrientationVertical, w)
	return geom.Size{Width: w, Height: height.Constrain(natH)}
}
