package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry is a window frame in root coordinates.
type Geometry struct {
	X, Y, Width, Height int
}

const allDesktops = uint(0xFFFFFFFF)

// ClientWindows returns managed windows on the current desktop that are
// normal, visible and not fullscreen.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}

	currentDesktop, desktopErr := ewmh.CurrentDesktopGet(c.XUtil)

	out := make([]xproto.Window, 0, len(clients))
	for _, win := range clients {
		if !c.IsNormalWindow(win) || c.isHiddenOrFullscreen(win) {
			continue
		}
		if desktopErr == nil {
			desktop, err := ewmh.WmDesktopGet(c.XUtil, win)
			if err == nil && desktop != allDesktops && desktop != currentDesktop {
				continue
			}
		}
		out = append(out, win)
	}
	return out, nil
}

// Extents are the decoration widths a reparenting window manager draws
// around a client window.
type Extents struct {
	Left, Right, Top, Bottom int
}

// Outer grows a client rectangle to the frame that includes decorations.
func (e Extents) Outer(client Geometry) Geometry {
	return Geometry{
		X:      client.X - e.Left,
		Y:      client.Y - e.Top,
		Width:  client.Width + e.Left + e.Right,
		Height: client.Height + e.Top + e.Bottom,
	}
}

// ClientSize returns the client width and height that fill an outer frame.
// Sizes never drop below one pixel.
func (e Extents) ClientSize(outer Geometry) (width, height int) {
	return max(outer.Width-e.Left-e.Right, 1), max(outer.Height-e.Top-e.Bottom, 1)
}

// FrameExtents reads _NET_FRAME_EXTENTS. Windows without decorations, or
// managers that do not publish the property, report zero extents.
func (c *Connection) FrameExtents(win xproto.Window) Extents {
	ext, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil || ext == nil {
		return Extents{}
	}
	return Extents{Left: int(ext.Left), Right: int(ext.Right), Top: int(ext.Top), Bottom: int(ext.Bottom)}
}

// WindowGeometry returns the outer frame of a window, decorations included,
// in root coordinates. ok is false when the window no longer exists.
func (c *Connection) WindowGeometry(win xproto.Window) (Geometry, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, false
	}
	client := Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	return c.FrameExtents(win).Outer(client), true
}

// MoveResizeWindow places the outer frame of a window at g. The request uses
// north-west gravity, so x and y position the frame while the size sent is
// the client size left after decorations.
func (c *Connection) MoveResizeWindow(win xproto.Window, g Geometry) error {
	c.unmaximizeWindow(win)

	width, height := c.FrameExtents(win).ClientSize(g)
	if err := ewmh.MoveresizeWindowExtra(c.XUtil, win, g.X, g.Y, width, height,
		xproto.GravityNorthWest, 2, true, true); err != nil {
		// Fall back to configuring the window directly.
		xwindow.New(c.XUtil, win).MoveResize(g.X, g.Y, width, height)
	}
	return nil
}

// A maximized window ignores move/resize requests on most window managers.
func (c *Connection) unmaximizeWindow(win xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			_ = ewmh.WmStateReq(c.XUtil, win, ewmh.StateRemove, state)
		}
	}
}

func (c *Connection) isHiddenOrFullscreen(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_FULLSCREEN":
			return true
		}
	}
	return false
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}
