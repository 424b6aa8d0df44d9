// Package grid detects which tiled windows share an edge, groups collinear
// shared edges into draggable dividers, and computes how neighbouring
// windows must change when one of them is resized.
//
// Nothing in this package performs I/O or returns errors. Windows that are
// missing or have degenerate geometry are skipped so that a live polling or
// drag loop never fails mid-session.
package grid

import (
	"math"

	"github.com/1broseidon/gridresize/internal/geometry"
)

// Default thresholds for edge detection.
const (
	DefaultTolerance  = 6.0
	DefaultMinOverlap = 10.0
)

// WindowID is an opaque identifier assigned by whoever discovered the window.
type WindowID uint32

// Window pairs a window with its frame in system space.
type Window struct {
	ID    WindowID
	Frame geometry.Rect
}

// Axis is the orientation of a shared edge.
type Axis int

const (
	// Vertical edges share an x coordinate: Low's right side touches High's left side.
	Vertical Axis = iota
	// Horizontal edges share a y coordinate: Low's bottom side touches High's top side.
	Horizontal
)

// String returns the string representation of the axis.
func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Side is a physical side of a window frame.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Axis returns the axis of the edges a side can belong to.
func (s Side) Axis() Axis {
	if s == SideLeft || s == SideRight {
		return Vertical
	}
	return Horizontal
}

// SharedEdge is a pair of windows whose facing sides touch.
type SharedEdge struct {
	Low        WindowID
	High       WindowID
	Axis       Axis
	Coordinate float64
	SpanStart  float64
	SpanEnd    float64
}

// Involves reports whether id is on either side of the edge.
func (e SharedEdge) Involves(id WindowID) bool {
	return e.Low == id || e.High == id
}

// Options controls edge detection.
type Options struct {
	// Tolerance is the largest distance between two facing sides that still
	// counts as touching.
	Tolerance float64
	// MinOverlap is the smallest perpendicular overlap an edge may have.
	MinOverlap float64
}

// DefaultOptions returns the detection thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MinOverlap: DefaultMinOverlap}
}

func (o Options) normalized() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MinOverlap <= 0 {
		o.MinOverlap = DefaultMinOverlap
	}
	return o
}

type entry struct {
	frame     geometry.Rect
	adjusting bool
}

// Snapshot is the session-scoped view of a set of windows and the edges they
// share. It is owned by one session at a time and is not safe for concurrent use.
type Snapshot struct {
	opts    Options
	order   []WindowID
	entries map[WindowID]*entry
	edges   []SharedEdge
}

// Build records the given windows and computes every shared edge between them.
// Later duplicates of an id replace the earlier frame.
func Build(windows []Window, opts Options) *Snapshot {
	s := &Snapshot{
		opts:    opts.normalized(),
		entries: make(map[WindowID]*entry, len(windows)),
	}
	for _, w := range windows {
		if e, ok := s.entries[w.ID]; ok {
			e.frame = w.Frame
			continue
		}
		s.order = append(s.order, w.ID)
		s.entries[w.ID] = &entry{frame: w.Frame}
	}
	s.Rebuild()
	return s
}

// Options returns the detection thresholds this snapshot was built with.
func (s *Snapshot) Options() Options {
	return s.opts
}

// Len returns the number of windows in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Windows returns the windows in insertion order with their current frames.
func (s *Snapshot) Windows() []Window {
	out := make([]Window, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Window{ID: id, Frame: s.entries[id].frame})
	}
	return out
}

// Edges returns a copy of the current shared edges.
func (s *Snapshot) Edges() []SharedEdge {
	out := make([]SharedEdge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Frame returns the stored frame for id.
func (s *Snapshot) Frame(id WindowID) (geometry.Rect, bool) {
	e, ok := s.entries[id]
	if !ok {
		return geometry.Rect{}, false
	}
	return e.frame, true
}

// UpdateFrame stores a new frame for id and returns the previous one.
// Shared edges are not recomputed; call Rebuild once a batch of updates is done.
func (s *Snapshot) UpdateFrame(id WindowID, frame geometry.Rect) (geometry.Rect, bool) {
	e, ok := s.entries[id]
	if !ok {
		return geometry.Rect{}, false
	}
	old := e.frame
	e.frame = frame
	return old, true
}

// Remove drops a window and every edge that involves it.
func (s *Snapshot) Remove(id WindowID) bool {
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	kept := s.edges[:0]
	for _, e := range s.edges {
		if !e.Involves(id) {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	return true
}

// SetAdjusting marks a window whose frame is being changed by the engine
// itself. Unknown ids are ignored.
func (s *Snapshot) SetAdjusting(id WindowID, adjusting bool) {
	if e, ok := s.entries[id]; ok {
		e.adjusting = adjusting
	}
}

// IsAdjusting reports the feedback flag for id; unknown ids are never adjusting.
func (s *Snapshot) IsAdjusting(id WindowID) bool {
	e, ok := s.entries[id]
	return ok && e.adjusting
}

// ClearAdjusting resets the feedback flag on every window. Poll sessions call
// it at the start of each cycle.
func (s *Snapshot) ClearAdjusting() {
	for _, e := range s.entries {
		e.adjusting = false
	}
}

// FindAffectedEdges returns the edges on which id occupies the given side.
func (s *Snapshot) FindAffectedEdges(id WindowID, moved Side) []SharedEdge {
	if _, ok := s.entries[id]; !ok {
		return nil
	}
	var out []SharedEdge
	for _, e := range s.edges {
		if e.Axis != moved.Axis() {
			continue
		}
		switch moved {
		case SideRight, SideBottom:
			if e.Low == id {
				out = append(out, e)
			}
		case SideLeft, SideTop:
			if e.High == id {
				out = append(out, e)
			}
		}
	}
	return out
}

// Rebuild recomputes every shared edge from the stored frames.
func (s *Snapshot) Rebuild() {
	s.edges = s.edges[:0]
	for i := 0; i < len(s.order); i++ {
		a := Window{ID: s.order[i], Frame: s.entries[s.order[i]].frame}
		if a.Frame.IsEmpty() {
			continue
		}
		for j := i + 1; j < len(s.order); j++ {
			b := Window{ID: s.order[j], Frame: s.entries[s.order[j]].frame}
			if b.Frame.IsEmpty() {
				continue
			}
			if e, ok := detectEdge(a, b, Vertical, s.opts); ok {
				s.edges = append(s.edges, e)
			}
			if e, ok := detectEdge(a, b, Horizontal, s.opts); ok {
				s.edges = append(s.edges, e)
			}
		}
	}
}

// detectEdge tests both orientations of a pair on one axis. A pair that
// matches in both directions is ambiguous and yields no edge.
func detectEdge(a, b Window, axis Axis, opts Options) (SharedEdge, bool) {
	ab, okAB := facing(a, b, axis, opts)
	ba, okBA := facing(b, a, axis, opts)
	switch {
	case okAB && okBA:
		return SharedEdge{}, false
	case okAB:
		return ab, true
	case okBA:
		return ba, true
	default:
		return SharedEdge{}, false
	}
}

// facing checks whether low's far side touches high's near side.
func facing(low, high Window, axis Axis, opts Options) (SharedEdge, bool) {
	var lowEdge, highEdge, spanStart, spanEnd float64
	if axis == Vertical {
		lowEdge, highEdge = low.Frame.MaxX(), high.Frame.MinX()
		spanStart = math.Max(low.Frame.MinY(), high.Frame.MinY())
		spanEnd = math.Min(low.Frame.MaxY(), high.Frame.MaxY())
	} else {
		lowEdge, highEdge = low.Frame.MaxY(), high.Frame.MinY()
		spanStart = math.Max(low.Frame.MinX(), high.Frame.MinX())
		spanEnd = math.Min(low.Frame.MaxX(), high.Frame.MaxX())
	}
	if math.Abs(lowEdge-highEdge) > opts.Tolerance {
		return SharedEdge{}, false
	}
	if spanEnd-spanStart < opts.MinOverlap {
		return SharedEdge{}, false
	}
	return SharedEdge{
		Low:        low.ID,
		High:       high.ID,
		Axis:       axis,
		Coordinate: (lowEdge + highEdge) / 2,
		SpanStart:  spanStart,
		SpanEnd:    spanEnd,
	}, true
}
