package main

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/anchorpop/internal/dbus"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/popup"
	"github.com/jmylchreest/anchorpop/internal/surface/layershell"
)

// control owns the popup on the GTK main loop and serves D-Bus requests.
// Every method except the dbus.Handler ones must run on the main loop.
type control struct {
	pop    *popup.Popup
	label  *layershell.Label
	server *dbus.ControlServer
	logger *slog.Logger

	anchor geom.Rect // monitor coordinates
	root   geom.Point
	frame  geom.Rect
}

// show solves the placement again from the current anchor.
func (c *control) show() error {
	return c.pop.ShowAt(c.anchor, c.root, c.frame)
}

// placed publishes a new placement on the bus.
func (c *control) placed(pl placement.Placement) {
	if c.server == nil {
		return
	}
	if err := c.server.EmitPlacementChanged(c.info(pl, true)); err != nil {
		c.logger.Debug("failed to emit placement change", "error", err)
	}
}

func (c *control) info(pl placement.Placement, shown bool) dbus.PlacementInfo {
	return dbus.PlacementInfo{
		Window:     geom.XYWH(pl.WindowX(), pl.WindowY(), pl.WindowWidth(), pl.WindowHeight()),
		Direction:  pl.Direction.String(),
		Transition: string(c.pop.Transition()),
		Shown:      shown,
	}
}

// onMain runs fn on the GTK main loop and waits for it.
func onMain(fn func() error) error {
	done := make(chan error, 1)
	glib.IdleAdd(func() {
		done <- fn()
	})
	return <-done
}

// ShowAt implements dbus.Handler.
func (c *control) ShowAt(anchor geom.Rect) error {
	return onMain(func() error {
		c.anchor = anchor
		return c.show()
	})
}

// Dismiss implements dbus.Handler.
func (c *control) Dismiss() error {
	return onMain(func() error {
		if err := c.pop.Dismiss(); err != nil {
			return err
		}
		if c.server != nil {
			if err := c.server.EmitDismissed(); err != nil {
				c.logger.Debug("failed to emit dismissed", "error", err)
			}
		}
		return nil
	})
}

// SetText implements dbus.Handler.
func (c *control) SetText(text string) error {
	return onMain(func() error {
		c.setText(text)
		return nil
	})
}

func (c *control) setText(text string) {
	c.label.SetText(text)
	if c.pop.Layout() {
		c.logger.Debug("text changed, re-layout queued")
	}
}

// Placement implements dbus.Handler.
func (c *control) Placement() dbus.PlacementInfo {
	var info dbus.PlacementInfo
	_ = onMain(func() error {
		if pl, ok := c.pop.Placement(); ok {
			info = c.info(pl, c.pop.Shown())
		}
		return nil
	})
	return info
}
