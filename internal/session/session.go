// Package session drives the grid engine against live windows: a fixed-rate
// poll loop that keeps neighbours attached while the user resizes windows
// directly, and interactive divider drags.
package session

import (
	"errors"
	"io"
	"log/slog"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// ErrTooFewWindows means a grid session needs at least two windows.
var ErrTooFewWindows = errors.New("grid session needs at least two windows")

// ErrNoSession is returned by drag operations when no grid session is running.
var ErrNoSession = errors.New("no grid session is active")

// WindowSource lists the windows a grid session may tile. The caller is
// expected to return only on-screen, normal-layer windows of a usable size.
type WindowSource interface {
	ListCandidateWindows() ([]grid.Window, error)
}

// FrameIO reads and writes live window frames in system space.
// WriteFrame is best-effort: a failed write shows up as an unchanged frame on
// the next read.
type FrameIO interface {
	ReadFrame(id grid.WindowID) (geometry.Rect, bool)
	WriteFrame(id grid.WindowID, frame geometry.Rect)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
