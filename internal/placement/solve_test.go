package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

var testFrame = geom.R(0, 0, 400, 800)

func exact(w, h int) SizeConstraints {
	return SizeConstraints{Width: Exact(w), Height: Exact(h)}
}

func solveExact(t *testing.T, anchor geom.Rect, frame geom.Rect, w, h int, opts Options) Placement {
	t.Helper()
	p, err := Solve(AnchorRect(anchor, geom.Point{}), frame, exact(w, h), opts, nil)
	require.NoError(t, err)
	return p
}

func TestSolve_BottomCenteredOnAnchor(t *testing.T) {
	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, Options{Preferred: DirectionBottom})

	assert.Equal(t, DirectionBottom, p.Direction)
	assert.Equal(t, 110, p.X)
	assert.Equal(t, 540, p.Y)
	assert.Equal(t, 80, p.Width)
	assert.Equal(t, 40, p.Height)
	assert.Equal(t, geom.Insets{}, p.Insets)
}

func TestSolve_TopAboveAnchor(t *testing.T) {
	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, Options{Preferred: DirectionTop})

	assert.Equal(t, DirectionTop, p.Direction)
	assert.Equal(t, 110, p.X)
	assert.Equal(t, 460, p.Y)
}

func TestSolve_BottomFallsBackToTop(t *testing.T) {
	p := solveExact(t, geom.R(100, 750, 200, 790), testFrame, 80, 40, Options{Preferred: DirectionBottom})

	assert.Equal(t, DirectionTop, p.Direction)
	assert.Equal(t, 710, p.Y)
}

func TestSolve_TopFallsBackToBottom(t *testing.T) {
	p := solveExact(t, geom.R(100, 10, 200, 50), testFrame, 80, 40, Options{Preferred: DirectionTop})

	assert.Equal(t, DirectionBottom, p.Direction)
	assert.Equal(t, 50, p.Y)
}

func TestSolve_TinyFrameCentersInScreen(t *testing.T) {
	frame := geom.R(0, 0, 100, 60)

	for _, preferred := range []Direction{DirectionTop, DirectionBottom} {
		p := solveExact(t, geom.R(10, 10, 90, 50), frame, 80, 40, Options{Preferred: preferred})

		assert.Equal(t, DirectionCenterInScreen, p.Direction, "preferred %s", preferred)
		assert.Equal(t, frame.Left+(frame.Width()-80)/2, p.X)
		assert.Equal(t, frame.Top+(frame.Height()-40)/2, p.Y)
	}
}

func TestSolve_PreferredCenterIgnoresAnchor(t *testing.T) {
	p := solveExact(t, geom.R(0, 0, 20, 20), testFrame, 80, 40, Options{Preferred: DirectionCenterInScreen})

	assert.Equal(t, DirectionCenterInScreen, p.Direction)
	assert.Equal(t, 160, p.X)
	assert.Equal(t, 380, p.Y)
}

func TestSolve_CenterWithOffsetFrame(t *testing.T) {
	frame := geom.R(50, 100, 450, 900)
	p := solveExact(t, geom.R(60, 110, 80, 130), frame, 100, 50, Options{Preferred: DirectionCenterInScreen})

	assert.Equal(t, 200, p.X)
	assert.Equal(t, 475, p.Y)
}

func TestSolve_RightHalfClampsToRightEdge(t *testing.T) {
	p := solveExact(t, geom.R(300, 100, 380, 140), testFrame, 80, 40, DefaultOptions())
	assert.Equal(t, 300, p.X)

	p = solveExact(t, geom.R(360, 100, 400, 140), testFrame, 80, 40, DefaultOptions())
	assert.Equal(t, 320, p.X)

	opts := DefaultOptions()
	opts.EdgeProtection = geom.Insets{Right: 16}
	p = solveExact(t, geom.R(360, 100, 400, 140), testFrame, 80, 40, opts)
	assert.Equal(t, 304, p.X)
}

func TestSolve_LeftHalfClampsToLeftEdge(t *testing.T) {
	p := solveExact(t, geom.R(0, 100, 40, 140), testFrame, 80, 40, DefaultOptions())
	assert.Equal(t, 0, p.X)

	opts := DefaultOptions()
	opts.EdgeProtection = geom.Insets{Left: 16}
	p = solveExact(t, geom.R(0, 100, 40, 140), testFrame, 80, 40, opts)
	assert.Equal(t, 16, p.X)
}

func TestSolve_Offsets(t *testing.T) {
	opts := Options{Preferred: DirectionBottom, OffsetX: 5, OffsetYIfBottom: 8, OffsetYIfTop: 6}

	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, opts)
	assert.Equal(t, 115, p.X)
	assert.Equal(t, 548, p.Y)

	opts.Preferred = DirectionTop
	p = solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, opts)
	assert.Equal(t, 454, p.Y)
}

func TestSolve_EdgeProtectionTopForcesFallback(t *testing.T) {
	opts := Options{Preferred: DirectionTop, EdgeProtection: geom.Insets{Top: 470}}
	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, opts)

	assert.Equal(t, DirectionBottom, p.Direction)
	assert.Equal(t, 540, p.Y)
}

func TestSolve_EdgeProtectionBottomForcesFallback(t *testing.T) {
	opts := Options{Preferred: DirectionBottom, EdgeProtection: geom.Insets{Bottom: 240}}
	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, opts)

	assert.Equal(t, DirectionTop, p.Direction)
	assert.Equal(t, 460, p.Y)
}

func TestSolve_AnchorOutsideFrameCenters(t *testing.T) {
	p := solveExact(t, geom.R(100, 900, 200, 940), testFrame, 80, 40, DefaultOptions())

	assert.Equal(t, DirectionCenterInScreen, p.Direction)
	assert.Equal(t, 160, p.X)
	assert.Equal(t, 380, p.Y)
}

func TestSolve_FillAvailable(t *testing.T) {
	opts := Options{Preferred: DirectionCenterInScreen, EdgeProtection: geom.Insets{Left: 10, Top: 20, Right: 30, Bottom: 40}}
	c := SizeConstraints{Width: Fill(), Height: Fill()}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, opts, nil)
	require.NoError(t, err)

	assert.Equal(t, 360, p.Width)
	assert.Equal(t, 740, p.Height)
	assert.Equal(t, MeasureSpec{Mode: MeasureExactly, Size: 360}, p.WidthSpec)
	assert.Equal(t, MeasureSpec{Mode: MeasureExactly, Size: 740}, p.HeightSpec)
}

func TestSolve_FillNeverNegative(t *testing.T) {
	opts := Options{EdgeProtection: geom.Uniform(500)}
	c := SizeConstraints{Width: Fill(), Height: Exact(10)}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Width)
}

func TestSolve_WrapNeedsMeasure(t *testing.T) {
	opts := Options{EdgeProtection: geom.Insets{Left: 10, Top: 20, Right: 30, Bottom: 40}}
	c := SizeConstraints{Width: Wrap(), Height: Exact(40)}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, opts, nil)
	require.ErrorIs(t, err, ErrNeedsMeasure)

	assert.Equal(t, MeasureSpec{Mode: MeasureAtMost, Size: 360}, p.WidthSpec)
	assert.Equal(t, MeasureSpec{Mode: MeasureExactly, Size: 40}, p.HeightSpec)
}

func TestSolve_WrapWithMeasuredSize(t *testing.T) {
	c := SizeConstraints{Width: Wrap(), Height: Wrap()}
	measured := geom.Size{Width: 120, Height: 60}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, DefaultOptions(), &measured)
	require.NoError(t, err)

	assert.Equal(t, 120, p.Width)
	assert.Equal(t, 60, p.Height)
	assert.Equal(t, 90, p.X)
	assert.Equal(t, 540, p.Y)
}

func TestSolve_MeasuredIgnoredForExactAxis(t *testing.T) {
	c := SizeConstraints{Width: Exact(80), Height: Wrap()}
	measured := geom.Size{Width: 999, Height: 60}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, DefaultOptions(), &measured)
	require.NoError(t, err)

	assert.Equal(t, 80, p.Width)
	assert.Equal(t, 60, p.Height)
}

func TestSolve_MeasuredCappedByFrame(t *testing.T) {
	opts := DefaultOptions()
	opts.EdgeProtection = geom.Insets{Left: 10, Right: 30}
	c := SizeConstraints{Width: Wrap(), Height: Wrap()}
	measured := geom.Size{Width: 900, Height: -5}

	p, err := Solve(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, opts, &measured)
	require.NoError(t, err)

	assert.Equal(t, 360, p.Width)
	assert.Equal(t, 0, p.Height)
	assert.True(t, testFrame.Contains(p.Content()), "placed at %s", p.Content())
}

func TestMeasureSpec_Constrain(t *testing.T) {
	exact := MeasureSpec{Mode: MeasureExactly, Size: 80}
	atMost := MeasureSpec{Mode: MeasureAtMost, Size: 400}

	assert.Equal(t, 80, exact.Constrain(900))
	assert.Equal(t, 80, exact.Constrain(10))
	assert.Equal(t, 400, atMost.Constrain(900))
	assert.Equal(t, 120, atMost.Constrain(120))
	assert.Equal(t, 0, atMost.Constrain(-3))
}

func TestSolve_TopMustClearBottomProtection(t *testing.T) {
	opts := Options{Preferred: DirectionTop, EdgeProtection: geom.Insets{Bottom: 50}}

	// Above the anchor would still reach into the protected bottom strip.
	p := solveExact(t, geom.R(100, 780, 200, 800), testFrame, 80, 40, opts)

	assert.Equal(t, DirectionCenterInScreen, p.Direction)
	assert.Equal(t, 380, p.Y)
	assert.LessOrEqual(t, p.Content().Bottom, testFrame.Bottom-50)
}

func TestSolve_BottomMustClearTopProtection(t *testing.T) {
	opts := Options{Preferred: DirectionBottom, EdgeProtection: geom.Insets{Top: 50}}

	p := solveExact(t, geom.R(100, 0, 200, 20), testFrame, 80, 40, opts)

	assert.Equal(t, DirectionCenterInScreen, p.Direction)
	assert.GreaterOrEqual(t, p.Content().Top, testFrame.Top+50)
}

func TestSolveWith_MeasuresAgainstSpecs(t *testing.T) {
	var gotW, gotH MeasureSpec
	m := MeasurerFunc(func(w, h MeasureSpec) geom.Size {
		gotW, gotH = w, h
		return geom.Size{Width: 100, Height: 30}
	})
	c := SizeConstraints{Width: Wrap(), Height: Wrap()}

	p, err := SolveWith(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, DefaultOptions(), m)
	require.NoError(t, err)

	assert.Equal(t, MeasureSpec{Mode: MeasureAtMost, Size: 400}, gotW)
	assert.Equal(t, MeasureSpec{Mode: MeasureAtMost, Size: 800}, gotH)
	assert.Equal(t, 100, p.Width)
	assert.Equal(t, 30, p.Height)
}

func TestSolveWith_NilMeasurer(t *testing.T) {
	c := SizeConstraints{Width: Wrap(), Height: Exact(10)}

	_, err := SolveWith(AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}), testFrame, c, DefaultOptions(), nil)
	assert.ErrorIs(t, err, ErrNeedsMeasure)
}

func TestSolve_BottomWheneverRoomBelow(t *testing.T) {
	for top := 0; top <= 700; top += 50 {
		for left := 0; left <= 300; left += 50 {
			anchor := geom.R(left, top, left+60, top+30)
			opts := Options{Preferred: DirectionBottom, OffsetYIfBottom: 4}
			p := solveExact(t, anchor, testFrame, 80, 40, opts)

			if anchor.Bottom+4 <= testFrame.Bottom-40 {
				assert.Equal(t, DirectionBottom, p.Direction, "anchor %s", anchor)
				assert.Equal(t, anchor.Bottom+4, p.Y, "anchor %s", anchor)
			}
			assert.True(t, testFrame.Contains(p.Content()), "anchor %s placed at %s", anchor, p.Content())
		}
	}
}

func TestLocate_ResetsInsets(t *testing.T) {
	p := solveExact(t, geom.R(100, 500, 200, 540), testFrame, 80, 40, DefaultOptions())
	p.Insets = geom.Uniform(9)

	Locate(&p, DefaultOptions())
	assert.Equal(t, geom.Insets{}, p.Insets)
}

func TestCaptureAnchor(t *testing.T) {
	a := CaptureAnchor(geom.Point{X: 50, Y: 60}, geom.R(10, 5, 30, 25), geom.Point{X: 3, Y: 4})

	assert.Equal(t, geom.R(60, 65, 80, 85), a.Frame)
	assert.Equal(t, 70, a.Center)
	assert.Equal(t, 20, a.Height)
	assert.Equal(t, geom.Point{X: 3, Y: 4}, a.RootOffset)
}

func TestPlacement_WindowGeometry(t *testing.T) {
	p := Placement{
		Width:  80,
		Height: 40,
		X:      110,
		Y:      540,
		Insets: geom.Insets{Left: 4, Top: 10, Right: 4, Bottom: 6},
		Anchor: AnchorGeometry{Center: 150, RootOffset: geom.Point{X: 100, Y: 20}},
	}

	assert.Equal(t, 88, p.WindowWidth())
	assert.Equal(t, 56, p.WindowHeight())
	assert.Equal(t, 6, p.WindowX())
	assert.Equal(t, 510, p.WindowY())
	assert.Equal(t, geom.R(4, 10, 84, 50), p.ContentLayout())
	assert.Equal(t, geom.R(106, 530, 194, 586), p.Footprint())
	assert.InDelta(t, 0.5, p.AnchorProportion(), 1e-9)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("TOP")
	require.NoError(t, err)
	assert.Equal(t, DirectionTop, d)

	d, err = ParseDirection("center")
	require.NoError(t, err)
	assert.Equal(t, DirectionCenterInScreen, d)

	_, err = ParseDirection("left")
	assert.Error(t, err)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("wrap")
	require.NoError(t, err)
	assert.Equal(t, Wrap(), d)

	d, err = ParseDimension("fill")
	require.NoError(t, err)
	assert.Equal(t, Fill(), d)

	d, err = ParseDimension("120")
	require.NoError(t, err)
	assert.Equal(t, Exact(120), d)

	_, err = ParseDimension("-3")
	assert.Error(t, err)
	_, err = ParseDimension("big")
	assert.Error(t, err)
}

func TestDirection_Chain(t *testing.T) {
	assert.Equal(t, []Direction{DirectionBottom, DirectionTop, DirectionCenterInScreen}, DirectionBottom.Chain())
	assert.Equal(t, []Direction{DirectionTop, DirectionBottom, DirectionCenterInScreen}, DirectionTop.Chain())
	assert.Equal(t, []Direction{DirectionCenterInScreen}, DirectionCenterInScreen.Chain())
}
