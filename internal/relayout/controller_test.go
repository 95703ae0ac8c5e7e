package relayout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/eventloop"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
)

type surfaceCall struct {
	x, y, w, h int
}

type fakeSurface struct {
	calls []surfaceCall
	err   error
}

func (s *fakeSurface) Update(x, y, w, h int) error {
	s.calls = append(s.calls, surfaceCall{x, y, w, h})
	return s.err
}

// manualScheduler never honours cancellation, to exercise the liveness check.
type manualScheduler struct {
	tasks []func()
}

func (m *manualScheduler) Post(fn func()) func() {
	m.tasks = append(m.tasks, fn)
	return func() {}
}

func (m *manualScheduler) runAll() {
	tasks := m.tasks
	m.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

var (
	testFrame  = geom.R(0, 0, 400, 800)
	testAnchor = placement.AnchorRect(geom.R(100, 500, 200, 540), geom.Point{})
	testDeco   = decoration.Decoration{ShowArrow: true, ArrowWidth: 12, ArrowHeight: 8}
)

func layout(opts placement.Options) LayoutFunc {
	return func(p *placement.Placement) {
		placement.Locate(p, opts)
		decoration.Adjust(p, testDeco, p.Frame)
	}
}

// initial returns a wrap-content placement already measured at w x h.
func initial(t *testing.T, w, h int) placement.Placement {
	t.Helper()
	c := placement.SizeConstraints{Width: placement.Wrap(), Height: placement.Wrap()}
	p, err := placement.Solve(testAnchor, testFrame, c, placement.DefaultOptions(), &geom.Size{Width: w, Height: h})
	require.NoError(t, err)
	decoration.Adjust(&p, testDeco, testFrame)
	return p
}

func newController(t *testing.T, sched Scheduler, surface Surface) *Controller {
	t.Helper()
	c := New(initial(t, 80, 40), Config{
		Scheduler: sched,
		Surface:   surface,
		Layout:    layout(placement.DefaultOptions()),
		ID:        "test",
	})
	c.Attach()
	return c
}

func TestController_SameSizeStaysStable(t *testing.T) {
	loop := eventloop.New(nil)
	c := newController(t, loop, &fakeSurface{})

	assert.False(t, c.OnMeasured(geom.Size{Width: 80, Height: 40}))
	assert.Equal(t, StateStable, c.State())
	assert.Equal(t, 0, loop.Pending())
}

func TestController_RelayoutOnSizeChange(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	assert.True(t, c.OnMeasured(geom.Size{Width: 120, Height: 60}))
	assert.Equal(t, StatePending, c.State())
	assert.Empty(t, surface.calls)

	assert.Equal(t, 1, loop.RunPending())

	p := c.Placement()
	assert.Equal(t, StateStable, c.State())
	assert.Equal(t, 120, p.Width)
	assert.Equal(t, 60, p.Height)
	assert.Equal(t, 90, p.X)
	assert.Equal(t, 548, p.Y)
	assert.Equal(t, placement.DirectionBottom, p.Direction)
	assert.Equal(t, []surfaceCall{{90, 540, 120, 68}}, surface.calls)
}

func TestController_CoalescesMeasurements(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	c.OnMeasured(geom.Size{Width: 100, Height: 50})
	c.OnMeasured(geom.Size{Width: 110, Height: 55})
	c.OnMeasured(geom.Size{Width: 120, Height: 60})

	assert.Equal(t, 1, loop.Pending())
	assert.Equal(t, 1, loop.RunPending())
	assert.Equal(t, geom.Size{Width: 120, Height: 60}, c.Placement().Size())
	assert.Len(t, surface.calls, 1)
}

func TestController_SettledMeasurementDropsRelayout(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	c.OnMeasured(geom.Size{Width: 80, Height: 40})

	assert.Equal(t, StateStable, c.State())
	assert.Equal(t, 0, loop.RunPending())
	assert.Empty(t, surface.calls)
}

func TestController_DetachCancels(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	c.Detach()

	assert.Equal(t, 0, loop.RunPending())
	assert.Empty(t, surface.calls)
	assert.Equal(t, geom.Size{Width: 80, Height: 40}, c.Placement().Size())
	assert.False(t, c.Attached())
}

func TestController_StaleCallbackIsNoop(t *testing.T) {
	sched := &manualScheduler{}
	surface := &fakeSurface{}
	c := newController(t, sched, surface)

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	c.Detach()

	assert.NotPanics(t, sched.runAll)
	assert.Empty(t, surface.calls)
	assert.Equal(t, geom.Size{Width: 80, Height: 40}, c.Placement().Size())
}

func TestController_StaleCallbackAfterReattach(t *testing.T) {
	sched := &manualScheduler{}
	surface := &fakeSurface{}
	c := newController(t, sched, surface)

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	c.Detach()
	c.Attach()

	sched.runAll()
	assert.Empty(t, surface.calls)
	assert.Equal(t, StateStable, c.State())
}

func TestController_IgnoresMeasurementWhenDetached(t *testing.T) {
	loop := eventloop.New(nil)
	c := New(initial(t, 80, 40), Config{Scheduler: loop, Layout: layout(placement.DefaultOptions())})

	assert.False(t, c.OnMeasured(geom.Size{Width: 120, Height: 60}))
	assert.Equal(t, 0, loop.Pending())
}

func TestController_RelayoutCanChangeDirection(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	c.OnMeasured(geom.Size{Width: 80, Height: 300})
	loop.RunPending()

	p := c.Placement()
	assert.Equal(t, placement.DirectionTop, p.Direction)
	assert.Equal(t, 500-300-8, p.Y)
}

func TestController_SurfaceErrorsAreSwallowed(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{err: errors.New("surface gone")}
	c := newController(t, loop, surface)

	var notified placement.Placement
	c.cfg.OnRelayout = func(p placement.Placement) { notified = p }

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	assert.NotPanics(t, func() { loop.RunPending() })

	assert.Equal(t, StateStable, c.State())
	assert.Equal(t, 120, notified.Width)
}

func TestController_SecondRelayoutAfterStable(t *testing.T) {
	loop := eventloop.New(nil)
	c := newController(t, loop, &fakeSurface{})

	c.OnMeasured(geom.Size{Width: 120, Height: 60})
	loop.RunPending()
	assert.True(t, c.OnMeasured(geom.Size{Width: 60, Height: 30}))
	loop.RunPending()

	assert.Equal(t, geom.Size{Width: 60, Height: 30}, c.Placement().Size())
}

func TestController_MeasuredSizeHonoursSpecs(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}

	c := placement.SizeConstraints{Width: placement.Exact(80), Height: placement.Wrap()}
	p, err := placement.Solve(testAnchor, testFrame, c, placement.DefaultOptions(), &geom.Size{Height: 40})
	require.NoError(t, err)
	ctrl := New(p, Config{Scheduler: loop, Surface: surface, Layout: layout(placement.DefaultOptions())})
	ctrl.Attach()

	// only the height follows the content; the exact width is kept
	assert.False(t, ctrl.OnMeasured(geom.Size{Width: 900, Height: 40}))
	assert.True(t, ctrl.OnMeasured(geom.Size{Width: 900, Height: 50}))
	loop.RunPending()
	assert.Equal(t, geom.Size{Width: 80, Height: 50}, ctrl.Placement().Size())
}

func TestController_OversizedMeasurementCappedByFrame(t *testing.T) {
	loop := eventloop.New(nil)
	surface := &fakeSurface{}
	c := newController(t, loop, surface)

	assert.True(t, c.OnMeasured(geom.Size{Width: 900, Height: 50}))
	loop.RunPending()

	p := c.Placement()
	assert.Equal(t, 400, p.Width)
	assert.Equal(t, 50, p.Height)
	assert.True(t, testFrame.Contains(p.Content()), "placed at %s", p.Content())
	require.Len(t, surface.calls, 1)
	assert.Equal(t, 400, surface.calls[0].w)
}
