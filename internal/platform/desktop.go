package platform

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// Desktop exposes a Backend to the grid engine: candidate windows on the
// active display and float frame reads and writes in system space.
type Desktop struct {
	backend Backend
	minSize int
	logger  *slog.Logger
}

// NewDesktop wraps backend. Windows narrower or shorter than minSize are
// never offered to a grid session.
func NewDesktop(backend Backend, minSize int, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Desktop{backend: backend, minSize: minSize, logger: logger}
}

// Screen returns the usable area of the active display.
func (d *Desktop) Screen() (geometry.Rect, error) {
	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to get active display: %w", err)
	}
	return toGeometry(display.Bounds), nil
}

// ListCandidateWindows returns usable windows on the active display sorted
// top-to-bottom then left-to-right.
func (d *Desktop) ListCandidateWindows() ([]grid.Window, error) {
	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to get active display: %w", err)
	}
	windows, err := d.backend.ListWindowsOnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows on %s: %w", display.Name, err)
	}

	SortByPosition(windows)

	out := make([]grid.Window, 0, len(windows))
	for _, w := range windows {
		if w.Bounds.Width < d.minSize || w.Bounds.Height < d.minSize {
			d.logger.Debug("skipping small window", "window", w.ID, "width", w.Bounds.Width, "height", w.Bounds.Height)
			continue
		}
		out = append(out, grid.Window{ID: grid.WindowID(w.ID), Frame: toGeometry(w.Bounds)})
	}
	return out, nil
}

// ReadFrame returns a window's live frame.
func (d *Desktop) ReadFrame(id grid.WindowID) (geometry.Rect, bool) {
	r, ok := d.backend.WindowBounds(WindowID(id))
	if !ok {
		return geometry.Rect{}, false
	}
	return toGeometry(r), true
}

// WriteFrame moves and resizes a window, rounding to whole pixels.
func (d *Desktop) WriteFrame(id grid.WindowID, frame geometry.Rect) {
	x, y, w, h := frame.Ints()
	if err := d.backend.MoveResize(WindowID(id), Rect{X: x, Y: y, Width: w, Height: h}); err != nil {
		d.logger.Warn("failed to write frame", "window", id, "error", err)
	}
}

// SortByPosition orders windows top-to-bottom, then left-to-right, then by id.
func SortByPosition(windows []Window) {
	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i].Bounds, windows[j].Bounds
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return windows[i].ID < windows[j].ID
	})
}

func toGeometry(r Rect) geometry.Rect {
	return geometry.FromInts(r.X, r.Y, r.Width, r.Height)
}
