//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/gridresize/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// ActiveDisplay returns the currently active display.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}
	mon, err := conn.ActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return Display{ID: mon.ID, Name: mon.Name, Bounds: rectFromGeometry(mon.Geometry)}, nil
}

// ListWindowsOnDisplay lists normal windows whose centers are inside the display bounds.
func (b *LinuxBackend) ListWindowsOnDisplay(display Display) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, win := range clients {
		g, ok := conn.WindowGeometry(win)
		if !ok {
			continue
		}
		bounds := rectFromGeometry(g)
		if !containsPoint(display.Bounds, bounds.X+bounds.Width/2, bounds.Y+bounds.Height/2) {
			continue
		}
		windows = append(windows, Window{ID: WindowID(win), Bounds: bounds})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// WindowBounds returns a window's current frame. ok is false once the window is gone.
func (b *LinuxBackend) WindowBounds(windowID WindowID) (Rect, bool) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, false
	}
	g, ok := conn.WindowGeometry(xproto.Window(windowID))
	if !ok {
		return Rect{}, false
	}
	return rectFromGeometry(g), true
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), x11.Geometry{
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  bounds.Width,
		Height: bounds.Height,
	})
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}
