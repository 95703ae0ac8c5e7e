package decoration

import (
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
)

// Paint holds the resolved colors and stroke settings handed to the painter.
type Paint struct {
	BorderWidth            int
	Radius                 int
	FillColor              uint32 // ARGB
	BorderColor            uint32 // ARGB
	ShadowElevation        int
	ShadowAlpha            float64
	RemoveBorderWhenShadow bool
}

// PanelSpec describes the rounded content rectangle in window coordinates.
type PanelSpec struct {
	Bounds          geom.Rect
	Radius          int
	BorderWidth     int
	FillColor       uint32
	BorderColor     uint32
	DrawBorder      bool
	ShadowElevation int
	ShadowAlpha     float64
}

// Panel returns the content panel geometry for p.
func Panel(p placement.Placement, d Decoration, paint Paint) PanelSpec {
	spec := PanelSpec{
		Bounds:      p.ContentLayout(),
		Radius:      paint.Radius,
		BorderWidth: paint.BorderWidth,
		FillColor:   paint.FillColor,
		BorderColor: paint.BorderColor,
		DrawBorder:  drawBorder(d, paint),
	}
	if d.ShowShadow {
		spec.ShadowElevation = paint.ShadowElevation
		spec.ShadowAlpha = paint.ShadowAlpha
	}
	return spec
}

// ArrowSpec describes the directional triangle in window coordinates.
//
// Origin is where the painter translates before drawing Triangle; the
// triangle's base overlaps the panel border so the notch reads as one shape.
type ArrowSpec struct {
	Direction    placement.Direction
	AnchorOffset int // anchor center relative to the content origin
	Origin       geom.Point
	Width        int
	Height       int
	BorderWidth  int
	FillColor    uint32
	BorderColor  uint32
	DrawBorder   bool
}

// FPoint is a sub-pixel point.
type FPoint struct {
	X float64
	Y float64
}

// Arrow returns the arrow to draw for p, or false when no arrow is shown.
func Arrow(p placement.Placement, d Decoration, paint Paint) (ArrowSpec, bool) {
	if !d.ShowArrow || p.Direction == placement.DirectionCenterInScreen {
		return ArrowSpec{}, false
	}

	windowX := p.X - p.Insets.Left
	left := p.Anchor.Center - windowX - d.ArrowWidth/2
	left = min(max(left, p.Insets.Left), p.WindowWidth()-p.Insets.Right-d.ArrowWidth)

	top := p.Insets.Top + paint.BorderWidth
	if p.Direction == placement.DirectionTop {
		top = p.Insets.Top + p.Height - paint.BorderWidth
	}

	return ArrowSpec{
		Direction:    p.Direction,
		AnchorOffset: p.Anchor.Center - p.X,
		Origin:       geom.Point{X: left, Y: top},
		Width:        d.ArrowWidth,
		Height:       d.ArrowHeight,
		BorderWidth:  paint.BorderWidth,
		FillColor:    paint.FillColor,
		BorderColor:  paint.BorderColor,
		DrawBorder:   drawBorder(d, paint),
	}, true
}

// Triangle returns the arrow path relative to Origin.
func (a ArrowSpec) Triangle() [3]FPoint {
	w := float64(a.Width)
	h := float64(a.Height)
	if a.Direction == placement.DirectionTop {
		return [3]FPoint{{-w / 2, -h}, {w / 2, h}, {w * 3 / 2, -h}}
	}
	return [3]FPoint{{-w / 2, h}, {w / 2, -h}, {w * 3 / 2, h}}
}

// Tip returns the point of the arrow closest to the anchor, in window coordinates.
func (a ArrowSpec) Tip() geom.Point {
	if a.Direction == placement.DirectionTop {
		return geom.Point{X: a.Origin.X + a.Width/2, Y: a.Origin.Y + a.Height}
	}
	return geom.Point{X: a.Origin.X + a.Width/2, Y: a.Origin.Y - a.Height}
}

func drawBorder(d Decoration, paint Paint) bool {
	return paint.BorderWidth > 0 && !(paint.RemoveBorderWhenShadow && d.ShowShadow)
}
