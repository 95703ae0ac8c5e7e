// Package placement computes where a floating popup sits relative to its anchor.
//
// Solve is a pure function: given the anchor geometry captured at show time,
// the visible frame and an immutable Options value it returns a Placement
// describing the content box. Decoration insets are added afterwards by the
// decoration package.
package placement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

// ErrNeedsMeasure is returned by Solve when a WrapContent axis has no measured size yet.
var ErrNeedsMeasure = errors.New("content must be measured before placement")

// Direction is the side of the anchor the popup attaches to.
type Direction int

const (
	DirectionTop Direction = iota
	DirectionBottom
	DirectionCenterInScreen
)

func (d Direction) String() string {
	switch d {
	case DirectionTop:
		return "top"
	case DirectionBottom:
		return "bottom"
	case DirectionCenterInScreen:
		return "center"
	default:
		return "unknown"
	}
}

// ParseDirection parses "top", "bottom" or "center".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return DirectionTop, nil
	case "bottom", "":
		return DirectionBottom, nil
	case "center", "center-in-screen":
		return DirectionCenterInScreen, nil
	default:
		return DirectionBottom, fmt.Errorf("invalid direction %q: must be top, bottom or center", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Chain returns the fallback order for a preferred direction.
// CenterInScreen is always last and always accepts.
func (d Direction) Chain() []Direction {
	switch d {
	case DirectionTop:
		return []Direction{DirectionTop, DirectionBottom, DirectionCenterInScreen}
	case DirectionBottom:
		return []Direction{DirectionBottom, DirectionTop, DirectionCenterInScreen}
	default:
		return []Direction{DirectionCenterInScreen}
	}
}

// DimensionKind selects how one axis of the content is sized.
type DimensionKind int

const (
	DimensionExact DimensionKind = iota
	DimensionFill
	DimensionWrap
)

// Dimension is a size constraint for one axis.
type Dimension struct {
	Kind  DimensionKind
	Value int // only meaningful for DimensionExact
}

// Exact sizes the axis to n pixels.
func Exact(n int) Dimension {
	return Dimension{Kind: DimensionExact, Value: n}
}

// Fill sizes the axis to the available frame space.
func Fill() Dimension {
	return Dimension{Kind: DimensionFill}
}

// Wrap sizes the axis to the measured content, bounded by the available space.
func Wrap() Dimension {
	return Dimension{Kind: DimensionWrap}
}

func (d Dimension) String() string {
	switch d.Kind {
	case DimensionFill:
		return "fill"
	case DimensionWrap:
		return "wrap"
	default:
		return strconv.Itoa(d.Value)
	}
}

// ParseDimension parses "wrap", "fill" or a positive pixel count.
func ParseDimension(s string) (Dimension, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "wrap", "wrap_content", "":
		return Wrap(), nil
	case "fill", "match_parent":
		return Fill(), nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Dimension{}, fmt.Errorf("invalid dimension %q: must be wrap, fill or a positive integer", s)
		}
		return Exact(n), nil
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(text []byte) error {
	v, err := ParseDimension(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// SizeConstraints holds the per-axis constraints of the content.
type SizeConstraints struct {
	Width  Dimension
	Height Dimension
}

// NeedsMeasure reports whether either axis depends on the content's own size.
func (c SizeConstraints) NeedsMeasure() bool {
	return c.Width.Kind == DimensionWrap || c.Height.Kind == DimensionWrap
}

// MeasureMode is the encoding of a measure bound.
type MeasureMode int

const (
	MeasureExactly MeasureMode = iota
	MeasureAtMost
)

func (m MeasureMode) String() string {
	if m == MeasureAtMost {
		return "at_most"
	}
	return "exactly"
}

// MeasureSpec is the bound handed to the content measurement routine.
type MeasureSpec struct {
	Mode MeasureMode
	Size int
}

func (s MeasureSpec) String() string {
	return fmt.Sprintf("%s(%d)", s.Mode, s.Size)
}

// Constrain applies the bound to a measured length. An exact bound replaces
// it and an at-most bound caps it.
func (s MeasureSpec) Constrain(v int) int {
	if s.Mode == MeasureExactly {
		return s.Size
	}
	return min(max(v, 0), s.Size)
}

// Measurer measures popup content. Implementations must not change geometry.
type Measurer interface {
	Measure(width, height MeasureSpec) geom.Size
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(width, height MeasureSpec) geom.Size

// Measure calls f(width, height).
func (f MeasurerFunc) Measure(width, height MeasureSpec) geom.Size {
	return f(width, height)
}

// AnchorGeometry is the anchor state captured once per show.
type AnchorGeometry struct {
	Frame      geom.Rect  // anchor area in absolute screen coordinates
	Center     int        // horizontal center of the anchor area
	Height     int        // anchor area height
	RootOffset geom.Point // absolute screen offset of the root window
}

// CaptureAnchor builds AnchorGeometry from the anchor's absolute location and
// an area given relative to the anchor's own origin.
func CaptureAnchor(location geom.Point, area geom.Rect, root geom.Point) AnchorGeometry {
	return AnchorGeometry{
		Frame:      area.Offset(location),
		Center:     location.X + (area.Left+area.Right)/2,
		Height:     area.Height(),
		RootOffset: root,
	}
}

// AnchorRect captures an anchor whose whole rectangle is the anchor area.
func AnchorRect(r geom.Rect, root geom.Point) AnchorGeometry {
	return CaptureAnchor(r.Origin(), geom.R(0, 0, r.Width(), r.Height()), root)
}

// Options is the immutable positioning configuration passed into Solve.
type Options struct {
	Preferred       Direction
	EdgeProtection  geom.Insets
	OffsetX         int
	OffsetYIfTop    int
	OffsetYIfBottom int
}

// DefaultOptions prefers Bottom with no edge protection and no offsets.
func DefaultOptions() Options {
	return Options{Preferred: DirectionBottom}
}

// Placement is the working geometry of one popup.
//
// X and Y are the absolute top-left of the content box. Insets are reserved
// outside the content box; the occupied window spans from X-Insets.Left to
// X+Width+Insets.Right.
type Placement struct {
	Width     int
	Height    int
	X         int
	Y         int
	Direction Direction
	Insets    geom.Insets

	WidthSpec  MeasureSpec
	HeightSpec MeasureSpec

	Anchor AnchorGeometry
	Frame  geom.Rect
}

// Content returns the content box in absolute coordinates.
func (p Placement) Content() geom.Rect {
	return geom.XYWH(p.X, p.Y, p.Width, p.Height)
}

// Footprint returns the content box plus decoration insets.
func (p Placement) Footprint() geom.Rect {
	return p.Content().Outset(p.Insets)
}

// WindowWidth is the occupied width including decoration.
func (p Placement) WindowWidth() int {
	return p.Insets.Left + p.Width + p.Insets.Right
}

// WindowHeight is the occupied height including decoration.
func (p Placement) WindowHeight() int {
	return p.Insets.Top + p.Height + p.Insets.Bottom
}

// WindowX is the window's left edge relative to the anchor's root window.
func (p Placement) WindowX() int {
	return p.X - p.Insets.Left - p.Anchor.RootOffset.X
}

// WindowY is the window's top edge relative to the anchor's root window.
func (p Placement) WindowY() int {
	return p.Y - p.Insets.Top - p.Anchor.RootOffset.Y
}

// ContentLayout is the content box in window-local coordinates.
func (p Placement) ContentLayout() geom.Rect {
	return geom.XYWH(p.Insets.Left, p.Insets.Top, p.Width, p.Height)
}

// AnchorProportion is the anchor center expressed as a fraction of the content width.
func (p Placement) AnchorProportion() float64 {
	if p.Width == 0 {
		return 0.5
	}
	return float64(p.Anchor.Center-p.X) / float64(p.Width)
}

// Constrain applies the placement's measure specs to a measured content size,
// so only wrap axes follow the content and never past the frame.
func (p Placement) Constrain(size geom.Size) geom.Size {
	return geom.Size{
		Width:  p.WidthSpec.Constrain(size.Width),
		Height: p.HeightSpec.Constrain(size.Height),
	}
}

// Size returns the content size.
func (p Placement) Size() geom.Size {
	return geom.Size{Width: p.Width, Height: p.Height}
}
