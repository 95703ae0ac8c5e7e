package layershell

import (
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	glibv2 "github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

// Monitor returns the 1-indexed monitor n, or the first monitor when n is 0
// or out of range. It returns nil when no display is available.
func Monitor(n int, logger *slog.Logger) *gdk.Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	display := gdk.DisplayGetDefault()
	if display == nil {
		logger.Warn("no display available")
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		logger.Warn("no monitors list available")
		return nil
	}

	index := uint(0)
	if n > 0 {
		index = uint(n - 1)
	}
	if index >= monitors.NItems() {
		logger.Warn("configured monitor not available, using first",
			"configured", n,
			"available", monitors.NItems(),
		)
		index = 0
	}

	return wrapMonitor(monitors.Item(index))
}

// Frame returns the monitor's geometry. It is the visible frame popups are
// fitted into and also the root offset of window coordinates.
func Frame(monitor *gdk.Monitor) geom.Rect {
	if monitor == nil {
		return geom.Rect{}
	}
	g := monitor.Geometry()
	return geom.XYWH(g.X(), g.Y(), g.Width(), g.Height())
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor.
// gotk4 doesn't expose its own wrapper, so this mirrors its struct layout.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// IdleScheduler posts callbacks onto the GTK main loop.
type IdleScheduler struct{}

// Post queues fn with glib.IdleAdd. Cancelling turns the queued call into a no-op.
func (IdleScheduler) Post(fn func()) (cancel func()) {
	var cancelled atomic.Bool
	glibv2.IdleAdd(func() {
		if !cancelled.Load() {
			fn()
		}
	})
	return func() { cancelled.Store(true) }
}
