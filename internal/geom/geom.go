// Package geom provides the integer pixel geometry shared by the placement engine.
package geom

import "fmt"

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an edge-based rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// R is shorthand for Rect{left, top, right, bottom}.
func R(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right - Left.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// CenterX returns the horizontal center, rounded toward Left.
func (r Rect) CenterX() int {
	return (r.Left + r.Right) / 2
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	return Rect{Left: r.Left + p.X, Top: r.Top + p.Y, Right: r.Right + p.X, Bottom: r.Bottom + p.Y}
}

// Inset shrinks r by the given insets. Negative insets grow it.
func (r Rect) Inset(in Insets) Rect {
	return Rect{Left: r.Left + in.Left, Top: r.Top + in.Top, Right: r.Right - in.Right, Bottom: r.Bottom - in.Bottom}
}

// Outset grows r by the given insets.
func (r Rect) Outset(in Insets) Rect {
	return Rect{Left: r.Left - in.Left, Top: r.Top - in.Top, Right: r.Right + in.Right, Bottom: r.Bottom + in.Bottom}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// ContainsPoint reports whether p lies within r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Insets is a quad of per-edge distances.
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Uniform returns insets with the same value on every edge.
func Uniform(v int) Insets {
	return Insets{Left: v, Top: v, Right: v, Bottom: v}
}

// Horizontal returns Left + Right.
func (i Insets) Horizontal() int {
	return i.Left + i.Right
}

// Vertical returns Top + Bottom.
func (i Insets) Vertical() int {
	return i.Top + i.Bottom
}

// NonNegative reports whether every edge is >= 0.
func (i Insets) NonNegative() bool {
	return i.Left >= 0 && i.Top >= 0 && i.Right >= 0 && i.Bottom >= 0
}
