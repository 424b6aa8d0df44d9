package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID   int
	Name string
	Geometry
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if output, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(output.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Geometry: Geometry{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, falling back
// to the one under the pointer. The geometry is clipped to the EWMH work area
// so panels and docks are excluded.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	active := -1
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		if g, ok := c.WindowGeometry(win); ok {
			active = monitorAt(monitors, g.X+g.Width/2, g.Y+g.Height/2)
		}
	}
	if active < 0 {
		if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			active = monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
		}
	}
	if active < 0 {
		active = 0
	}

	mon := monitors[active]
	mon.Geometry = c.clipToWorkArea(mon.Geometry)
	return mon, nil
}

func monitorAt(monitors []Monitor, x, y int) int {
	for i, m := range monitors {
		if m.contains(x, y) {
			return i
		}
	}
	return -1
}

func (c *Connection) clipToWorkArea(g Geometry) Geometry {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return g
	}
	idx := 0
	if desktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desktop) < len(areas) {
		idx = int(desktop)
	}
	wa := areas[idx]

	x1 := max(g.X, wa.X)
	y1 := max(g.Y, wa.Y)
	x2 := min(g.X+g.Width, wa.X+int(wa.Width))
	y2 := min(g.Y+g.Height, wa.Y+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return g
	}
	return Geometry{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
