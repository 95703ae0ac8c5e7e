package placement

import (
	"errors"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

// Solve computes the content placement for an anchor inside frame.
//
// When a WrapContent axis has no measured size, Solve returns the placement
// with its measure specs filled in together with ErrNeedsMeasure. The caller
// measures the content against those specs and calls Solve again.
func Solve(anchor AnchorGeometry, frame geom.Rect, c SizeConstraints, opts Options, measured *geom.Size) (Placement, error) {
	p := Placement{
		Anchor:    anchor,
		Frame:     frame,
		Direction: opts.Preferred,
	}

	needWidth, needHeight := resolveSize(&p, c, opts.EdgeProtection)
	if needWidth || needHeight {
		if measured == nil {
			return p, ErrNeedsMeasure
		}
		if needWidth {
			p.Width = p.WidthSpec.Constrain(measured.Width)
		}
		if needHeight {
			p.Height = p.HeightSpec.Constrain(measured.Height)
		}
	}

	Locate(&p, opts)
	return p, nil
}

// SolveWith runs Solve, measuring WrapContent axes with m when needed.
// A nil Measurer leaves ErrNeedsMeasure to the caller.
func SolveWith(anchor AnchorGeometry, frame geom.Rect, c SizeConstraints, opts Options, m Measurer) (Placement, error) {
	p, err := Solve(anchor, frame, c, opts, nil)
	if !errors.Is(err, ErrNeedsMeasure) || m == nil {
		return p, err
	}
	size := m.Measure(p.WidthSpec, p.HeightSpec)
	return Solve(anchor, frame, c, opts, &size)
}

// resolveSize fills in width/height and their measure specs. It reports which
// axes still need a measured size.
func resolveSize(p *Placement, c SizeConstraints, edge geom.Insets) (needWidth, needHeight bool) {
	p.Width, p.WidthSpec, needWidth = resolveAxis(c.Width, p.Frame.Width()-edge.Horizontal())
	p.Height, p.HeightSpec, needHeight = resolveAxis(c.Height, p.Frame.Height()-edge.Vertical())
	return needWidth, needHeight
}

func resolveAxis(d Dimension, available int) (int, MeasureSpec, bool) {
	available = max(0, available)
	switch d.Kind {
	case DimensionFill:
		return available, MeasureSpec{Mode: MeasureExactly, Size: available}, false
	case DimensionWrap:
		return 0, MeasureSpec{Mode: MeasureAtMost, Size: available}, true
	default:
		return d.Value, MeasureSpec{Mode: MeasureExactly, Size: d.Value}, false
	}
}

// Locate positions a placement whose Width and Height are already known.
// Decoration insets are reset; run the decoration adjuster afterwards.
func Locate(p *Placement, opts Options) {
	p.Insets = geom.Insets{}
	p.X = horizontal(p, opts)

	// An anchor that is not visible at all has no edge to attach to.
	if !p.Anchor.Frame.Intersects(p.Frame) {
		center(p)
		return
	}

	for _, d := range opts.Preferred.Chain() {
		if tryDirection(p, d, opts) {
			return
		}
	}
}

// horizontal keeps the box centered on the anchor, clipping against the
// frame edge on the anchor's side.
func horizontal(p *Placement, opts Options) int {
	frame := p.Frame
	ideal := p.Anchor.Center - p.Width/2 + opts.OffsetX
	if p.Anchor.Center < frame.Left+frame.Width()/2 {
		return max(opts.EdgeProtection.Left+frame.Left, ideal)
	}
	return min(frame.Right-opts.EdgeProtection.Right-p.Width, ideal)
}

// tryDirection accepts a side only if the content fits between both
// protected edges, not just the one it grows towards.
func tryDirection(p *Placement, d Direction, opts Options) bool {
	top := p.Frame.Top + opts.EdgeProtection.Top
	bottom := p.Frame.Bottom - opts.EdgeProtection.Bottom - p.Height

	switch d {
	case DirectionTop:
		y := p.Anchor.Frame.Top - p.Height - opts.OffsetYIfTop
		if y < top || y > bottom {
			return false
		}
		p.Y = y
	case DirectionBottom:
		y := p.Anchor.Frame.Top + p.Anchor.Height + opts.OffsetYIfBottom
		if y > bottom || y < top {
			return false
		}
		p.Y = y
	default:
		center(p)
		return true
	}
	p.Direction = d
	return true
}

func center(p *Placement) {
	p.X = p.Frame.Left + (p.Frame.Width()-p.Width)/2
	p.Y = p.Frame.Top + (p.Frame.Height()-p.Height)/2
	p.Direction = DirectionCenterInScreen
}
