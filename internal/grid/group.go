package grid

import (
	"math"

	"github.com/1broseidon/gridresize/internal/geometry"
)

// EdgeGroup is one user-facing divider: every shared edge on the same line.
type EdgeGroup struct {
	Axis       Axis
	Coordinate float64
	SpanStart  float64
	SpanEnd    float64
	Edges      []SharedEdge
	// LowIDs are the windows left of (or above) the divider, HighIDs the
	// windows right of (or below) it. Each id appears once, in edge order.
	LowIDs  []WindowID
	HighIDs []WindowID
}

// Length returns the extent of the group's span.
func (g EdgeGroup) Length() float64 {
	return g.SpanEnd - g.SpanStart
}

func (g *EdgeGroup) add(e SharedEdge) {
	g.Edges = append(g.Edges, e)
	g.SpanStart = math.Min(g.SpanStart, e.SpanStart)
	g.SpanEnd = math.Max(g.SpanEnd, e.SpanEnd)
	g.LowIDs = appendUnique(g.LowIDs, e.Low)
	g.HighIDs = appendUnique(g.HighIDs, e.High)
}

// GroupEdges merges shared edges that lie on the same line. Groups come out in
// the order their first edge appears; edges of different axes never merge.
func GroupEdges(edges []SharedEdge, tolerance float64) []EdgeGroup {
	if tolerance < 0 {
		tolerance = 0
	}
	grouped := make([]bool, len(edges))
	var groups []EdgeGroup
	for i, seed := range edges {
		if grouped[i] {
			continue
		}
		grouped[i] = true
		g := EdgeGroup{
			Axis:       seed.Axis,
			Coordinate: seed.Coordinate,
			SpanStart:  seed.SpanStart,
			SpanEnd:    seed.SpanEnd,
		}
		g.add(seed)
		for j := i + 1; j < len(edges); j++ {
			if grouped[j] || edges[j].Axis != seed.Axis {
				continue
			}
			if math.Abs(edges[j].Coordinate-seed.Coordinate) > tolerance {
				continue
			}
			grouped[j] = true
			g.add(edges[j])
		}
		groups = append(groups, g)
	}
	return groups
}

// PanelFrame places a band of the given thickness centred on the group's
// line, covering its span, and returns it in the opposite convention by
// flipping about referenceLength.
func PanelFrame(g EdgeGroup, referenceLength, thickness float64) geometry.Rect {
	var r geometry.Rect
	if g.Axis == Vertical {
		r = geometry.Rect{
			X:      g.Coordinate - thickness/2,
			Y:      g.SpanStart,
			Width:  thickness,
			Height: g.Length(),
		}
	} else {
		r = geometry.Rect{
			X:      g.SpanStart,
			Y:      g.Coordinate - thickness/2,
			Width:  g.Length(),
			Height: thickness,
		}
	}
	return geometry.Flip(r, referenceLength)
}

// EdgeFromPanel is the inverse of PanelFrame: it recovers the line coordinate
// and span in system space from a panel rectangle.
func EdgeFromPanel(axis Axis, panel geometry.Rect, referenceLength float64) (coordinate, spanStart, spanEnd float64) {
	r := geometry.Flip(panel, referenceLength)
	if axis == Vertical {
		return r.X + r.Width/2, r.MinY(), r.MaxY()
	}
	return r.Y + r.Height/2, r.MinX(), r.MaxX()
}

func appendUnique(ids []WindowID, id WindowID) []WindowID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
