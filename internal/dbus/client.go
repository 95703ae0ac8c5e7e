package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

// Client calls a running daemon's control interface.
type Client struct {
	obj dbus.BusObject
}

// Dial connects to the session bus.
func Dial() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *dbus.Conn) *Client {
	return &Client{obj: conn.Object(DBusBusName, DBusPath)}
}

func (c *Client) call(method string, args ...any) *dbus.Call {
	return c.obj.Call(DBusInterface+"."+method, 0, args...)
}

// ShowAt re-anchors the popup.
func (c *Client) ShowAt(anchor geom.Rect) error {
	call := c.call("ShowAt", int32(anchor.Left), int32(anchor.Top), int32(anchor.Width()), int32(anchor.Height()))
	if call.Err != nil {
		return fmt.Errorf("ShowAt failed: %w", call.Err)
	}
	return nil
}

// Dismiss hides the popup.
func (c *Client) Dismiss() error {
	if err := c.call("Dismiss").Err; err != nil {
		return fmt.Errorf("Dismiss failed: %w", err)
	}
	return nil
}

// SetText replaces the popup text.
func (c *Client) SetText(text string) error {
	if err := c.call("SetText", text).Err; err != nil {
		return fmt.Errorf("SetText failed: %w", err)
	}
	return nil
}

// Placement reads back the popup window.
func (c *Client) Placement() (PlacementInfo, error) {
	var (
		x, y, w, h            int32
		direction, transition string
		shown                 bool
	)
	if err := c.call("GetPlacement").Store(&x, &y, &w, &h, &direction, &transition, &shown); err != nil {
		return PlacementInfo{}, fmt.Errorf("GetPlacement failed: %w", err)
	}
	return PlacementInfo{
		Window:     geom.XYWH(int(x), int(y), int(w), int(h)),
		Direction:  direction,
		Transition: transition,
		Shown:      shown,
	}, nil
}
