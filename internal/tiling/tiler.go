package tiling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/gridresize/internal/platform"
)

// ErrNothingToUndo is returned by Undo when the active display has no tile to
// revert.
var ErrNothingToUndo = errors.New("nothing to undo")

// Tiler places the windows of the active display according to a preset and
// remembers their previous geometry for Undo. Only the layout from before the
// most recent Tile is kept per display; there is no deeper history.
type Tiler struct {
	mu       sync.Mutex
	backend  platform.Backend
	gap      int
	logger   *slog.Logger
	previous map[int]map[platform.WindowID]platform.Rect
}

// NewTiler creates a new tiler instance
func NewTiler(backend platform.Backend, gap int, logger *slog.Logger) *Tiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tiler{
		backend:  backend,
		gap:      gap,
		logger:   logger,
		previous: make(map[int]map[platform.WindowID]platform.Rect),
	}
}

// SetGap changes the gap used by later Tile calls.
func (t *Tiler) SetGap(gap int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gap = gap
}

// Tile arranges the windows of the active display and returns how many were placed.
func (t *Tiler) Tile(preset Preset) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	display, err := t.backend.ActiveDisplay()
	if err != nil {
		return 0, fmt.Errorf("failed to get active display: %w", err)
	}
	windows, err := t.backend.ListWindowsOnDisplay(display)
	if err != nil {
		return 0, fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) == 0 {
		t.logger.Info("no windows to tile", "display", display.Name)
		return 0, nil
	}
	platform.SortByPosition(windows)

	positions, err := CalculatePositions(preset, len(windows), display.Bounds, t.gap)
	if err != nil {
		return 0, err
	}

	previous := make(map[platform.WindowID]platform.Rect, len(positions))
	placed := 0
	for i, pos := range positions {
		w := windows[i]
		previous[w.ID] = w.Bounds
		if err := t.backend.MoveResize(w.ID, pos); err != nil {
			t.logger.Warn("failed to tile window", "window", w.ID, "error", err)
			continue
		}
		placed++
	}
	t.previous[display.ID] = previous

	t.logger.Info("tiled display",
		"display", display.Name,
		"preset", preset,
		"placed", placed,
		"skipped", len(windows)-len(positions))
	return placed, nil
}

// Undo restores the geometry captured before the last Tile on the active
// display and forgets it, so a second Undo returns ErrNothingToUndo.
func (t *Tiler) Undo() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	display, err := t.backend.ActiveDisplay()
	if err != nil {
		return fmt.Errorf("failed to get active display: %w", err)
	}
	previous, ok := t.previous[display.ID]
	if !ok {
		return ErrNothingToUndo
	}
	for id, r := range previous {
		_ = t.backend.MoveResize(id, r)
	}
	delete(t.previous, display.ID)
	return nil
}
