package handles

import (
	"io"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"

	"github.com/1broseidon/gridresize/internal/dragresize"
	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// Driver receives the drags started on a handle. session.Manager implements it.
type Driver interface {
	BeginDrag(index int) error
	UpdateDrag(raw geometry.Point) dragresize.Result
	EndDrag() error
}

// Style configures how handles look.
type Style struct {
	Thickness int
	Color     uint32
	SnapColor uint32
}

type handle struct {
	win    xproto.Window
	mapped bool
}

// Overlay owns the override-redirect handle windows. It implements
// session.Observer.
type Overlay struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	driver Driver
	logger *slog.Logger

	mu      sync.Mutex
	style   Style
	handles []*handle
	bars    []Bar

	// Drag origin in root coordinates; only touched on the event loop.
	startX, startY int
	dragging       bool
}

// NewOverlay creates an overlay on the root window of xu. No windows are
// created until dividers are shown.
func NewOverlay(xu *xgbutil.XUtil, driver Driver, style Style, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Overlay{
		xu:     xu,
		root:   xu.RootWin(),
		driver: driver,
		style:  style,
		logger: logger,
	}
}

// SetStyle applies a new style on the next redraw.
func (o *Overlay) SetStyle(style Style) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.style = style
}

// DividersChanged redraws one bar per divider and hides the rest.
func (o *Overlay) DividersChanged(groups []grid.EdgeGroup, _ geometry.Rect) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rootHeight := float64(o.xu.Screen().HeightInPixels)
	o.bars = Bars(groups, rootHeight, float64(o.style.Thickness))

	for len(o.handles) < len(o.bars) {
		h, err := o.createHandle(len(o.handles))
		if err != nil {
			o.logger.Warn("failed to create divider handle", "error", err)
			break
		}
		o.handles = append(o.handles, h)
	}

	for i, h := range o.handles {
		if i >= len(o.bars) {
			o.hide(h)
			continue
		}
		b := o.bars[i]
		o.place(h, b, o.style.Color)
	}
}

// SnapChanged recolors the bar being dragged.
func (o *Overlay) SnapChanged(group int, snapped bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if group < 0 || group >= len(o.handles) || group >= len(o.bars) {
		return
	}
	color := o.style.Color
	if snapped {
		color = o.style.SnapColor
	}
	o.setColor(o.handles[group].win, color)
}

// SessionEnded hides every bar.
func (o *Overlay) SessionEnded() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bars = nil
	for _, h := range o.handles {
		o.hide(h)
	}
}

// Cleanup destroys all handle windows.
func (o *Overlay) Cleanup() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, h := range o.handles {
		mousebind.Detach(o.xu, h.win)
		xproto.DestroyWindow(o.xu.Conn(), h.win)
	}
	o.handles = nil
	o.bars = nil
}

func (o *Overlay) createHandle(index int) (*handle, error) {
	conn := o.xu.Conn()
	screen := o.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	// Value order follows mask bit order: back_pixel, override_redirect.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		o.root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{o.style.Color, 1},
	).Check()
	if err != nil {
		return nil, err
	}

	mousebind.Drag(o.xu, o.root, wid, "1", true,
		func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) (bool, xproto.Cursor) {
			return o.dragBegin(index, rootX, rootY), 0
		},
		func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
			o.dragStep(rootX, rootY)
		},
		func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
			o.dragEnd(rootX, rootY)
		},
	)
	return &handle{win: wid}, nil
}

func (o *Overlay) dragBegin(index, rootX, rootY int) bool {
	if err := o.driver.BeginDrag(index); err != nil {
		o.logger.Debug("drag refused", "divider", index, "error", err)
		return false
	}
	o.startX, o.startY = rootX, rootY
	o.dragging = true
	return true
}

func (o *Overlay) dragStep(rootX, rootY int) {
	if !o.dragging {
		return
	}
	o.driver.UpdateDrag(dragDelta(o.startX, o.startY, rootX, rootY))
}

func (o *Overlay) dragEnd(rootX, rootY int) {
	if !o.dragging {
		return
	}
	o.dragging = false
	o.driver.UpdateDrag(dragDelta(o.startX, o.startY, rootX, rootY))
	if err := o.driver.EndDrag(); err != nil {
		o.logger.Info("drag ended session", "error", err)
	}
}

func dragDelta(startX, startY, x, y int) geometry.Point {
	return geometry.Point{X: float64(x - startX), Y: float64(y - startY)}
}

func (o *Overlay) place(h *handle, b Bar, color uint32) {
	conn := o.xu.Conn()
	xproto.ConfigureWindow(
		conn,
		h.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(int32(b.X)), uint32(int32(b.Y)), uint32(b.W), uint32(b.H), xproto.StackModeAbove},
	)
	o.setColor(h.win, color)
	if !h.mapped {
		xproto.MapWindow(conn, h.win)
		h.mapped = true
	}
}

func (o *Overlay) hide(h *handle) {
	if !h.mapped {
		return
	}
	xproto.UnmapWindow(o.xu.Conn(), h.win)
	h.mapped = false
}

func (o *Overlay) setColor(win xproto.Window, color uint32) {
	conn := o.xu.Conn()
	xproto.ChangeWindowAttributes(conn, win, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, win, 0, 0, 0, 0)
}
