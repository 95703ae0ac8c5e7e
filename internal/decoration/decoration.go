// Package decoration reserves room around a solved placement for the drop
// shadow and the directional arrow, and describes both to the painter.
package decoration

import (
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
)

// Decoration describes what is drawn outside the content box.
type Decoration struct {
	ShowShadow  bool
	ShadowInset int
	ShowArrow   bool
	ArrowWidth  int
	ArrowHeight int
}

// Adjust reserves shadow and arrow insets on p.
//
// The content size never changes. Shadow insets never move the content box;
// an arrow moves it away from the anchor by the room the arrow needs. The
// occupied footprint is kept inside frame horizontally. Adjust expects a
// placement fresh from placement.Locate, which clears previous insets.
func Adjust(p *placement.Placement, d Decoration, frame geom.Rect) {
	if d.ShowShadow {
		adjustShadow(p, max(0, d.ShadowInset), frame)
	}
	if d.ShowArrow && p.Direction != placement.DirectionCenterInScreen {
		adjustArrow(p, d)
	}
}

// Adjusted returns a copy of p with d applied.
func Adjusted(p placement.Placement, d Decoration, frame geom.Rect) placement.Placement {
	Adjust(&p, d, frame)
	return p
}

func adjustShadow(p *placement.Placement, inset int, frame geom.Rect) {
	p.Insets = geom.Insets{
		Left:   edgeInset(inset, p.X-frame.Left),
		Top:    edgeInset(inset, p.Y-frame.Top),
		Right:  edgeInset(inset, frame.Right-p.X-p.Width),
		Bottom: edgeInset(inset, frame.Bottom-p.Y-p.Height),
	}
}

// edgeInset is the shadow inset that fits in room pixels up to the frame edge.
func edgeInset(want, room int) int {
	if want < room {
		return want
	}
	return max(0, room)
}

func adjustArrow(p *placement.Placement, d Decoration) {
	windowY := p.Y - p.Insets.Top
	switch p.Direction {
	case placement.DirectionBottom:
		// Point fix so the arrow tip does not sit inside the shadow band.
		if d.ShowShadow {
			windowY += min(max(0, d.ShadowInset), d.ArrowHeight)
		}
		p.Insets.Top = max(p.Insets.Top, d.ArrowHeight)
	case placement.DirectionTop:
		p.Insets.Bottom = max(p.Insets.Bottom, d.ArrowHeight)
		windowY -= d.ArrowHeight
	}
	p.Y = windowY + p.Insets.Top
}
