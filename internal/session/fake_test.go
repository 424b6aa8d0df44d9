package session

import (
	"sync"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// fakeDesktop is an in-memory window system shared by the session tests.
type fakeDesktop struct {
	mu     sync.Mutex
	frames map[grid.WindowID]geometry.Rect
	order  []grid.WindowID
	writes []grid.FrameAdjustment
}

func newFakeDesktop(windows ...grid.Window) *fakeDesktop {
	d := &fakeDesktop{frames: make(map[grid.WindowID]geometry.Rect)}
	for _, w := range windows {
		d.frames[w.ID] = w.Frame
		d.order = append(d.order, w.ID)
	}
	return d
}

func (d *fakeDesktop) ListCandidateWindows() ([]grid.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []grid.Window
	for _, id := range d.order {
		if f, ok := d.frames[id]; ok {
			out = append(out, grid.Window{ID: id, Frame: f})
		}
	}
	return out, nil
}

func (d *fakeDesktop) ReadFrame(id grid.WindowID) (geometry.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frames[id]
	return f, ok
}

func (d *fakeDesktop) WriteFrame(id grid.WindowID, frame geometry.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.frames[id]; !ok {
		return
	}
	d.frames[id] = frame
	d.writes = append(d.writes, grid.FrameAdjustment{Window: id, Frame: frame})
}

// set changes a frame the way a user resizing the window would.
func (d *fakeDesktop) set(id grid.WindowID, frame geometry.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames[id] = frame
}

func (d *fakeDesktop) close(id grid.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.frames, id)
}

func (d *fakeDesktop) frame(id grid.WindowID) geometry.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames[id]
}

func (d *fakeDesktop) takeWrites() []grid.FrameAdjustment {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.writes
	d.writes = nil
	return w
}

func halves() []grid.Window {
	return []grid.Window{
		{ID: 10, Frame: geometry.Rect{X: 2, Y: 2, Width: 716, Height: 896}},
		{ID: 20, Frame: geometry.Rect{X: 722, Y: 2, Width: 716, Height: 896}},
	}
}

func quadrants() []grid.Window {
	return []grid.Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 720, Height: 450}},
		{ID: 2, Frame: geometry.Rect{X: 720, Y: 0, Width: 720, Height: 450}},
		{ID: 3, Frame: geometry.Rect{X: 0, Y: 450, Width: 720, Height: 450}},
		{ID: 4, Frame: geometry.Rect{X: 720, Y: 450, Width: 720, Height: 450}},
	}
}

var screen = geometry.Rect{X: 0, Y: 0, Width: 1440, Height: 900}
