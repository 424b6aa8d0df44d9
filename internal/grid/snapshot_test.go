package grid

import (
	"testing"

	"github.com/1broseidon/gridresize/internal/geometry"
)

func quadrants() []Window {
	return []Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 720, Height: 450}},
		{ID: 2, Frame: geometry.Rect{X: 720, Y: 0, Width: 720, Height: 450}},
		{ID: 3, Frame: geometry.Rect{X: 0, Y: 450, Width: 720, Height: 450}},
		{ID: 4, Frame: geometry.Rect{X: 720, Y: 450, Width: 720, Height: 450}},
	}
}

func halves() []Window {
	return []Window{
		{ID: 10, Frame: geometry.Rect{X: 2, Y: 2, Width: 716, Height: 896}},
		{ID: 20, Frame: geometry.Rect{X: 722, Y: 2, Width: 716, Height: 896}},
	}
}

func TestBuild_DisjointWindowsShareNoEdges(t *testing.T) {
	s := Build([]Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 300, Height: 200}},
		{ID: 2, Frame: geometry.Rect{X: 1000, Y: 700, Width: 300, Height: 200}},
	}, DefaultOptions())
	if got := len(s.Edges()); got != 0 {
		t.Fatalf("expected no edges, got %d: %+v", got, s.Edges())
	}
}

func TestBuild_ZeroOrOneWindowHasNoEdges(t *testing.T) {
	if got := len(Build(nil, DefaultOptions()).Edges()); got != 0 {
		t.Fatalf("expected no edges for zero windows, got %d", got)
	}
	one := Build(halves()[:1], DefaultOptions())
	if got := len(one.Edges()); got != 0 {
		t.Fatalf("expected no edges for one window, got %d", got)
	}
	if got := len(GroupEdges(one.Edges(), DefaultTolerance)); got != 0 {
		t.Fatalf("expected no groups for one window, got %d", got)
	}
}

func TestBuild_SideBySideProducesOneVerticalEdge(t *testing.T) {
	s := Build(halves(), DefaultOptions())
	edges := s.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d: %+v", len(edges), edges)
	}
	e := edges[0]
	if e.Axis != Vertical || e.Low != 10 || e.High != 20 {
		t.Fatalf("unexpected edge: %+v", e)
	}
	if e.Coordinate != 720 {
		t.Fatalf("expected coordinate midway across the gap (720), got %v", e.Coordinate)
	}
	if e.SpanStart != 2 || e.SpanEnd != 898 {
		t.Fatalf("expected span 2..898, got %v..%v", e.SpanStart, e.SpanEnd)
	}
}

func TestBuild_OrientationDoesNotDependOnInputOrder(t *testing.T) {
	w := halves()
	s := Build([]Window{w[1], w[0]}, DefaultOptions())
	edges := s.Edges()
	if len(edges) != 1 || edges[0].Low != 10 || edges[0].High != 20 {
		t.Fatalf("expected left window to be the low side, got %+v", edges)
	}
}

func TestBuild_QuadrantsProduceFourEdges(t *testing.T) {
	s := Build(quadrants(), DefaultOptions())
	edges := s.Edges()
	if len(edges) != 4 {
		t.Fatalf("expected 4 edges, got %d: %+v", len(edges), edges)
	}
	var vertical, horizontal int
	for _, e := range edges {
		if e.Axis == Vertical {
			vertical++
		} else {
			horizontal++
		}
	}
	if vertical != 2 || horizontal != 2 {
		t.Fatalf("expected 2 vertical and 2 horizontal edges, got %d and %d", vertical, horizontal)
	}
}

func TestBuild_GapBeyondToleranceIsNotAnEdge(t *testing.T) {
	s := Build([]Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 500, Height: 500}},
		{ID: 2, Frame: geometry.Rect{X: 507, Y: 0, Width: 500, Height: 500}},
	}, DefaultOptions())
	if got := len(s.Edges()); got != 0 {
		t.Fatalf("expected a 7 unit gap to exceed tolerance, got %d edges", got)
	}
}

func TestBuild_NearCornerTouchIsExcluded(t *testing.T) {
	s := Build([]Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 500, Height: 500}},
		{ID: 2, Frame: geometry.Rect{X: 500, Y: 495, Width: 500, Height: 500}},
	}, DefaultOptions())
	if got := len(s.Edges()); got != 0 {
		t.Fatalf("expected a 5 unit overlap to be ignored, got %+v", s.Edges())
	}
}

func TestBuild_DegenerateFramesProduceNoEdges(t *testing.T) {
	s := Build([]Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 500, Height: 500}},
		{ID: 2, Frame: geometry.Rect{X: 500, Y: 0, Width: 0, Height: 500}},
		{ID: 3, Frame: geometry.Rect{X: 500, Y: 0, Width: -20, Height: 500}},
	}, DefaultOptions())
	if got := len(s.Edges()); got != 0 {
		t.Fatalf("expected degenerate frames to be skipped, got %+v", s.Edges())
	}
	if s.Len() != 3 {
		t.Fatalf("degenerate windows should still be tracked, got %d", s.Len())
	}
}

func TestBuild_AmbiguousNarrowPairIsExcluded(t *testing.T) {
	// Both windows are narrower than the tolerance, so each one's right side
	// is "touching" the other's left side.
	s := Build([]Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 3, Height: 400}},
		{ID: 2, Frame: geometry.Rect{X: 2, Y: 0, Width: 3, Height: 400}},
	}, DefaultOptions())
	for _, e := range s.Edges() {
		if e.Axis == Vertical {
			t.Fatalf("expected no vertical edge for an ambiguous pair, got %+v", e)
		}
	}
}

func TestFindAffectedEdges_FiltersBySide(t *testing.T) {
	s := Build(quadrants(), DefaultOptions())

	right := s.FindAffectedEdges(1, SideRight)
	if len(right) != 1 || right[0].High != 2 {
		t.Fatalf("expected top-left's right side to touch top-right, got %+v", right)
	}
	if left := s.FindAffectedEdges(1, SideLeft); len(left) != 0 {
		t.Fatalf("expected nothing left of top-left, got %+v", left)
	}
	top := s.FindAffectedEdges(4, SideTop)
	if len(top) != 1 || top[0].Low != 2 {
		t.Fatalf("expected bottom-right's top side to touch top-right, got %+v", top)
	}
	if missing := s.FindAffectedEdges(99, SideRight); missing != nil {
		t.Fatalf("expected nil for unknown window, got %+v", missing)
	}
}

func TestUpdateFrame_ReturnsPreviousFrame(t *testing.T) {
	s := Build(halves(), DefaultOptions())
	next := geometry.Rect{X: 2, Y: 2, Width: 766, Height: 896}

	old, ok := s.UpdateFrame(10, next)
	if !ok {
		t.Fatalf("expected window 10 to be found")
	}
	if old.Width != 716 {
		t.Fatalf("expected previous width 716, got %v", old.Width)
	}
	if got, _ := s.Frame(10); got != next {
		t.Fatalf("expected stored frame %+v, got %+v", next, got)
	}
	if _, ok := s.UpdateFrame(99, next); ok {
		t.Fatalf("expected unknown window to report not found")
	}
}

func TestAdjustingFlag(t *testing.T) {
	s := Build(halves(), DefaultOptions())
	s.SetAdjusting(10, true)
	s.SetAdjusting(99, true)
	if !s.IsAdjusting(10) {
		t.Fatalf("expected window 10 to be adjusting")
	}
	if s.IsAdjusting(99) {
		t.Fatalf("unknown windows are never adjusting")
	}
	s.ClearAdjusting()
	if s.IsAdjusting(10) {
		t.Fatalf("expected ClearAdjusting to reset the flag")
	}
}

func TestRemove_DropsWindowAndItsEdges(t *testing.T) {
	s := Build(quadrants(), DefaultOptions())
	if !s.Remove(2) {
		t.Fatalf("expected window 2 to be removed")
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 windows, got %d", s.Len())
	}
	for _, e := range s.Edges() {
		if e.Involves(2) {
			t.Fatalf("edge still references removed window: %+v", e)
		}
	}
	if s.Remove(2) {
		t.Fatalf("second remove should report false")
	}
}

func TestRebuild_PicksUpMovedFrames(t *testing.T) {
	s := Build(halves(), DefaultOptions())
	s.UpdateFrame(20, geometry.Rect{X: 900, Y: 2, Width: 500, Height: 896})
	s.Rebuild()
	if got := len(s.Edges()); got != 0 {
		t.Fatalf("expected the edge to disappear after moving the window away, got %d", got)
	}
}
