package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/anchorpop/internal/geom"
)

const (
	// DBusInterface is the control interface name.
	DBusInterface = "io.github.jmylchreest.AnchorPop1"
	// DBusPath is the control object path.
	DBusPath = "/io/github/jmylchreest/AnchorPop1"
	// DBusBusName is the bus name to claim.
	DBusBusName = "io.github.jmylchreest.AnchorPop1"
)

// ErrNotConnected is returned when emitting without a bus connection.
var ErrNotConnected = errors.New("not connected to D-Bus")

// PlacementInfo describes where the popup window currently is.
type PlacementInfo struct {
	Window     geom.Rect
	Direction  string
	Transition string
	Shown      bool
}

// Handler carries out control requests. Calls arrive on the D-Bus goroutine.
type Handler interface {
	ShowAt(anchor geom.Rect) error
	Dismiss() error
	SetText(text string) error
	Placement() PlacementInfo
}

// ServerInfo is returned by GetServerInformation.
type ServerInfo struct {
	Name    string
	Version string
}

// ControlServer implements the io.github.jmylchreest.AnchorPop1 interface.
type ControlServer struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	handler Handler
	info    ServerInfo

	mu      sync.Mutex
	running bool
}

// NewControlServer creates a server forwarding requests to handler.
func NewControlServer(handler Handler, logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{
		logger:  logger,
		handler: handler,
		info:    ServerInfo{Name: "anchorpopd", Version: "dev"},
	}
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *ControlServer) SetServerInfo(info ServerInfo) {
	s.info = info
}

// Start connects to the session bus and exports the control object.
func (s *ControlServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus control server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop unexports the control object and releases the bus name. The shared
// session connection stays open, but signals are no longer emitted.
func (s *ControlServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	conn := s.conn
	s.conn = nil
	_ = conn.Export(nil, DBusPath, DBusInterface)
	_ = conn.Export(nil, DBusPath, "org.freedesktop.DBus.Introspectable")
	if _, err := conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	s.logger.Info("D-Bus control server stopped")
	return nil
}

// GetServerInformation returns the daemon name and version.
// D-Bus method: GetServerInformation() -> (ss)
func (s *ControlServer) GetServerInformation() (string, string, *dbus.Error) {
	return s.info.Name, s.info.Version, nil
}

// ShowAt re-anchors the popup to a rectangle in monitor coordinates.
// D-Bus method: ShowAt(iiii) -> nothing
func (s *ControlServer) ShowAt(x, y, width, height int32) *dbus.Error {
	s.logger.Debug("ShowAt called", "x", x, "y", y, "width", width, "height", height)
	if width < 0 || height < 0 {
		return dbus.MakeFailedError(fmt.Errorf("negative anchor size %dx%d", width, height))
	}
	if err := s.handler.ShowAt(geom.XYWH(int(x), int(y), int(width), int(height))); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Dismiss hides the popup.
// D-Bus method: Dismiss() -> nothing
func (s *ControlServer) Dismiss() *dbus.Error {
	s.logger.Debug("Dismiss called")
	if err := s.handler.Dismiss(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// SetText replaces the popup text. The popup follows the new size.
// D-Bus method: SetText(s) -> nothing
func (s *ControlServer) SetText(text string) *dbus.Error {
	s.logger.Debug("SetText called", "length", len(text))
	if err := s.handler.SetText(text); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// GetPlacement returns the popup window and its direction.
// D-Bus method: GetPlacement() -> (iiiissb)
func (s *ControlServer) GetPlacement() (int32, int32, int32, int32, string, string, bool, *dbus.Error) {
	p := s.handler.Placement()
	w := p.Window
	return int32(w.Left), int32(w.Top), int32(w.Width()), int32(w.Height()), p.Direction, p.Transition, p.Shown, nil
}

// EmitPlacementChanged emits the PlacementChanged signal.
func (s *ControlServer) EmitPlacementChanged(p PlacementInfo) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	w := p.Window
	err := conn.Emit(DBusPath, DBusInterface+".PlacementChanged",
		int32(w.Left), int32(w.Top), int32(w.Width()), int32(w.Height()), p.Direction)
	if err != nil {
		return fmt.Errorf("failed to emit PlacementChanged signal: %w", err)
	}
	s.logger.Debug("emitted PlacementChanged signal", "window", w, "direction", p.Direction)
	return nil
}

// EmitDismissed emits the Dismissed signal.
func (s *ControlServer) EmitDismissed() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Emit(DBusPath, DBusInterface+".Dismissed"); err != nil {
		return fmt.Errorf("failed to emit Dismissed signal: %w", err)
	}
	return nil
}

func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ShowAt",
			Args: []introspect.Arg{
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
				{Name: "width", Type: "i", Direction: "in"},
				{Name: "height", Type: "i", Direction: "in"},
			},
		},
		{Name: "Dismiss"},
		{
			Name: "SetText",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "GetPlacement",
			Args: []introspect.Arg{
				{Name: "x", Type: "i", Direction: "out"},
				{Name: "y", Type: "i", Direction: "out"},
				{Name: "width", Type: "i", Direction: "out"},
				{Name: "height", Type: "i", Direction: "out"},
				{Name: "direction", Type: "s", Direction: "out"},
				{Name: "transition", Type: "s", Direction: "out"},
				{Name: "shown", Type: "b", Direction: "out"},
			},
		},
	}
}

func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "PlacementChanged",
			Args: []introspect.Arg{
				{Name: "x", Type: "i"},
				{Name: "y", Type: "i"},
				{Name: "width", Type: "i"},
				{Name: "height", Type: "i"},
				{Name: "direction", Type: "s"},
			},
		},
		{Name: "Dismissed"},
	}
}
