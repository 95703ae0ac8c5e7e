package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Dimensions(t *testing.T) {
	r := R(100, 500, 200, 540)

	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 40, r.Height())
	assert.Equal(t, 150, r.CenterX())
	assert.Equal(t, Size{Width: 100, Height: 40}, r.Size())
	assert.Equal(t, Point{X: 100, Y: 500}, r.Origin())
	assert.False(t, r.Empty())
}

func TestRect_Empty(t *testing.T) {
	assert.True(t, R(10, 10, 10, 20).Empty())
	assert.True(t, R(10, 20, 30, 5).Empty())
}

func TestRect_XYWH(t *testing.T) {
	assert.Equal(t, R(110, 540, 190, 580), XYWH(110, 540, 80, 40))
}

func TestRect_InsetOutset(t *testing.T) {
	r := R(10, 10, 110, 60)
	in := Insets{Left: 1, Top: 2, Right: 3, Bottom: 4}

	assert.Equal(t, R(11, 12, 107, 56), r.Inset(in))
	assert.Equal(t, R(9, 8, 113, 64), r.Outset(in))
	assert.Equal(t, r, r.Outset(in).Inset(in))
}

func TestRect_Contains(t *testing.T) {
	frame := R(0, 0, 400, 800)

	assert.True(t, frame.Contains(R(0, 0, 400, 800)))
	assert.True(t, frame.Contains(R(10, 10, 20, 20)))
	assert.False(t, frame.Contains(R(-1, 10, 20, 20)))
	assert.False(t, frame.Contains(R(10, 10, 401, 20)))
	assert.True(t, frame.ContainsPoint(Point{X: 0, Y: 0}))
	assert.False(t, frame.ContainsPoint(Point{X: 400, Y: 0}))
}

func TestRect_Offset(t *testing.T) {
	assert.Equal(t, R(5, 15, 15, 25), R(0, 0, 10, 10).Offset(Point{X: 5, Y: 15}))
}

func TestInsets(t *testing.T) {
	in := Insets{Left: 1, Top: 2, Right: 3, Bottom: 4}

	assert.Equal(t, 4, in.Horizontal())
	assert.Equal(t, 6, in.Vertical())
	assert.True(t, in.NonNegative())
	assert.False(t, Insets{Left: -1}.NonNegative())
	assert.Equal(t, Insets{Left: 7, Top: 7, Right: 7, Bottom: 7}, Uniform(7))
}

func TestRect_Intersects(t *testing.T) {
	frame := R(0, 0, 400, 800)

	assert.True(t, frame.Intersects(R(390, 790, 500, 900)))
	assert.False(t, frame.Intersects(R(400, 0, 500, 100)))
	assert.False(t, frame.Intersects(R(0, -50, 100, 0)))
}
