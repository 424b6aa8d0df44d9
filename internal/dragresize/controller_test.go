package dragresize

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

var screen = geometry.Rect{X: 0, Y: 0, Width: 1440, Height: 900}

func halvesSnapshot() *grid.Snapshot {
	return grid.Build([]grid.Window{
		{ID: 10, Frame: geometry.Rect{X: 2, Y: 2, Width: 716, Height: 896}},
		{ID: 20, Frame: geometry.Rect{X: 722, Y: 2, Width: 716, Height: 896}},
	}, grid.DefaultOptions())
}

func firstGroup(t *testing.T, s *grid.Snapshot) grid.EdgeGroup {
	t.Helper()
	groups := grid.GroupEdges(s.Edges(), grid.DefaultTolerance)
	if len(groups) == 0 {
		t.Fatalf("expected at least one divider")
	}
	return groups[0]
}

func noSnap() Options {
	opts := DefaultOptions()
	opts.SnapDetent = 0
	return opts
}

func TestController_PhaseTransitions(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	if c.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", c.Phase())
	}
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if c.Phase() != PhaseArmed {
		t.Fatalf("expected armed, got %s", c.Phase())
	}
	c.Update(geometry.Point{X: 10})
	if c.Phase() != PhaseDragging {
		t.Fatalf("expected dragging, got %s", c.Phase())
	}
	c.End()
	if c.Phase() != PhaseIdle {
		t.Fatalf("expected idle after end, got %s", c.Phase())
	}
	if res := c.Update(geometry.Point{X: 10}); len(res.Adjustments) != 0 {
		t.Fatalf("expected idle update to do nothing, got %+v", res)
	}
}

func TestController_BeginWhileActiveFails(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	g := firstGroup(t, s)
	if err := c.Begin(g, FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := c.Begin(g, FrameReaderFunc(s.Frame), screen); !errors.Is(err, ErrDragActive) {
		t.Fatalf("expected ErrDragActive, got %v", err)
	}
}

func TestController_BeginWithoutReadableSideFails(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	reader := FrameReaderFunc(func(id grid.WindowID) (geometry.Rect, bool) {
		if id == 10 {
			return geometry.Rect{}, false
		}
		return s.Frame(id)
	})
	if err := c.Begin(firstGroup(t, s), reader, screen); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
	if c.Active() {
		t.Fatalf("controller should stay idle after a failed begin")
	}
}

func TestController_BaselineIsReadLive(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	live := map[grid.WindowID]geometry.Rect{
		10: {X: 2, Y: 2, Width: 800, Height: 896},
		20: {X: 806, Y: 2, Width: 632, Height: 896},
	}
	reader := FrameReaderFunc(func(id grid.WindowID) (geometry.Rect, bool) {
		r, ok := live[id]
		return r, ok
	})
	if err := c.Begin(firstGroup(t, s), reader, screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	res := c.Update(geometry.Point{X: 10})
	want := []grid.FrameAdjustment{
		{Window: 10, Frame: geometry.Rect{X: 2, Y: 2, Width: 810, Height: 896}},
		{Window: 20, Frame: geometry.Rect{X: 816, Y: 2, Width: 622, Height: 896}},
	}
	if diff := cmp.Diff(want, res.Adjustments); diff != "" {
		t.Fatalf("adjustments mismatch (-want +got):\n%s", diff)
	}
}

func TestController_MinimumSizeClampOnHighSide(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	res := c.Update(geometry.Point{X: 600})
	if res.Delta != 516 {
		t.Fatalf("expected delta clamped to 516, got %v", res.Delta)
	}
	want := []grid.FrameAdjustment{
		{Window: 10, Frame: geometry.Rect{X: 2, Y: 2, Width: 1232, Height: 896}},
		{Window: 20, Frame: geometry.Rect{X: 1238, Y: 2, Width: 200, Height: 896}},
	}
	if diff := cmp.Diff(want, res.Adjustments); diff != "" {
		t.Fatalf("adjustments mismatch (-want +got):\n%s", diff)
	}
}

func TestController_MinimumSizeClampOnLowSide(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	res := c.Update(geometry.Point{X: -1000})
	for _, adj := range res.Adjustments {
		if adj.Frame.Width < 200 {
			t.Fatalf("window %d dropped below minimum: %+v", adj.Window, adj.Frame)
		}
	}
	if res.Adjustments[0].Frame.Width != 200 {
		t.Fatalf("expected left window to stop at 200, got %v", res.Adjustments[0].Frame.Width)
	}
}

func TestController_UndersizedWindowOnlyBlocksShrinking(t *testing.T) {
	c := New(noSnap())
	live := map[grid.WindowID]geometry.Rect{
		1: {X: 0, Y: 0, Width: 150, Height: 900},
		2: {X: 150, Y: 0, Width: 1290, Height: 900},
	}
	reader := FrameReaderFunc(func(id grid.WindowID) (geometry.Rect, bool) {
		r, ok := live[id]
		return r, ok
	})
	g := grid.EdgeGroup{Axis: grid.Vertical, Coordinate: 150, SpanEnd: 900, LowIDs: []grid.WindowID{1}, HighIDs: []grid.WindowID{2}}
	if err := c.Begin(g, reader, screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if res := c.Update(geometry.Point{X: -20}); res.Delta != 0 {
		t.Fatalf("expected shrinking an undersized window to be blocked, got %v", res.Delta)
	}
	if res := c.Update(geometry.Point{X: 20}); res.Delta != 20 {
		t.Fatalf("expected growing an undersized window to pass through, got %v", res.Delta)
	}
}

func TestController_SnapEntersAndReleases(t *testing.T) {
	s := halvesSnapshot()
	c := New(DefaultOptions())
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}

	res := c.Update(geometry.Point{X: 30})
	if res.Snapped || res.Coordinate != 750 {
		t.Fatalf("expected free movement to 750, got %+v", res)
	}

	res = c.Update(geometry.Point{X: 6})
	if !res.Snapped || !res.SnapEntered || res.Coordinate != 720 || res.SnapFraction != 0.5 {
		t.Fatalf("expected snap onto the half mark, got %+v", res)
	}

	res = c.Update(geometry.Point{X: 4})
	if !res.Snapped || res.SnapEntered {
		t.Fatalf("expected to stay snapped without a new notification, got %+v", res)
	}

	res = c.Update(geometry.Point{X: 15})
	if res.Snapped || res.Coordinate != 735 {
		t.Fatalf("expected snap release and free movement to 735, got %+v", res)
	}

	res = c.Update(geometry.Point{X: 235})
	if !res.Snapped || !res.SnapEntered || math.Abs(res.Coordinate-960) > 1e-9 {
		t.Fatalf("expected snap onto the two-thirds mark, got %+v", res)
	}
}

func TestController_BottomLeftPointerIsInverted(t *testing.T) {
	s := grid.Build([]grid.Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 800, Height: 400}},
		{ID: 2, Frame: geometry.Rect{X: 0, Y: 400, Width: 800, Height: 400}},
	}, grid.DefaultOptions())
	opts := noSnap()
	opts.PointerConvention = geometry.BottomLeft
	c := New(opts)
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), geometry.Rect{Width: 800, Height: 800}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	res := c.Update(geometry.Point{Y: 50})
	want := []grid.FrameAdjustment{
		{Window: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 800, Height: 350}},
		{Window: 2, Frame: geometry.Rect{X: 0, Y: 350, Width: 800, Height: 450}},
	}
	if diff := cmp.Diff(want, res.Adjustments); diff != "" {
		t.Fatalf("adjustments mismatch (-want +got):\n%s", diff)
	}
}

func TestController_CascadesAcrossQuadrants(t *testing.T) {
	s := grid.Build([]grid.Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 720, Height: 450}},
		{ID: 2, Frame: geometry.Rect{X: 720, Y: 0, Width: 720, Height: 450}},
		{ID: 3, Frame: geometry.Rect{X: 0, Y: 450, Width: 720, Height: 450}},
		{ID: 4, Frame: geometry.Rect{X: 720, Y: 450, Width: 720, Height: 450}},
	}, grid.DefaultOptions())
	c := New(noSnap())
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}

	res := c.Update(geometry.Point{X: 50, Y: 300})
	want := []grid.FrameAdjustment{
		{Window: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 770, Height: 450}},
		{Window: 3, Frame: geometry.Rect{X: 0, Y: 450, Width: 770, Height: 450}},
		{Window: 2, Frame: geometry.Rect{X: 770, Y: 0, Width: 670, Height: 450}},
		{Window: 4, Frame: geometry.Rect{X: 770, Y: 450, Width: 670, Height: 450}},
	}
	if diff := cmp.Diff(want, res.Adjustments); diff != "" {
		t.Fatalf("adjustments mismatch (-want +got):\n%s", diff)
	}
}

func TestController_MissingWindowsAreSkipped(t *testing.T) {
	s := grid.Build([]grid.Window{
		{ID: 1, Frame: geometry.Rect{X: 0, Y: 0, Width: 720, Height: 450}},
		{ID: 2, Frame: geometry.Rect{X: 720, Y: 0, Width: 720, Height: 450}},
		{ID: 3, Frame: geometry.Rect{X: 0, Y: 450, Width: 720, Height: 450}},
		{ID: 4, Frame: geometry.Rect{X: 720, Y: 450, Width: 720, Height: 450}},
	}, grid.DefaultOptions())
	reader := FrameReaderFunc(func(id grid.WindowID) (geometry.Rect, bool) {
		if id == 3 {
			return geometry.Rect{}, false
		}
		return s.Frame(id)
	})
	c := New(noSnap())
	if err := c.Begin(firstGroup(t, s), reader, screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if got := len(c.Update(geometry.Point{X: 20}).Adjustments); got != 3 {
		t.Fatalf("expected the unreadable window to be skipped, got %d adjustments", got)
	}

	if !c.Forget(4) {
		t.Fatalf("expected window 2 to keep the high side alive")
	}
	res := c.Update(geometry.Point{X: 25})
	if len(res.Adjustments) != 2 {
		t.Fatalf("expected forgotten window to be skipped, got %+v", res.Adjustments)
	}
	if c.Forget(2) {
		t.Fatalf("expected an empty high side to be reported")
	}
}

func TestController_EndReturnsFinalAdjustments(t *testing.T) {
	s := halvesSnapshot()
	c := New(noSnap())
	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if final := c.End(); final != nil {
		t.Fatalf("expected no final adjustments for an armed-only drag, got %+v", final)
	}

	if err := c.Begin(firstGroup(t, s), FrameReaderFunc(s.Frame), screen); err != nil {
		t.Fatalf("begin: %v", err)
	}
	last := c.Update(geometry.Point{X: 42})
	if diff := cmp.Diff(last.Adjustments, c.End()); diff != "" {
		t.Fatalf("final adjustments mismatch (-want +got):\n%s", diff)
	}
}
