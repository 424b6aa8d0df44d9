package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTick_PropagatesUserResizeToNeighbour(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.set(10, geometry.Rect{X: 2, Y: 2, Width: 766, Height: 896})
	changed, err := p.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !changed {
		t.Fatalf("expected tick to report a change")
	}

	want := []grid.FrameAdjustment{
		{Window: 20, Frame: geometry.Rect{X: 772, Y: 2, Width: 666, Height: 896}},
	}
	if diff := cmp.Diff(want, desk.takeWrites()); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
	if !snap.IsAdjusting(20) {
		t.Fatalf("expected neighbour to be flagged as adjusting")
	}
	edges := snap.Edges()
	if len(edges) != 1 || edges[0].Coordinate != 770 {
		t.Fatalf("expected rebuilt edge at 770, got %+v", edges)
	}
}

func TestTick_EngineWritesDoNotEcho(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.set(10, geometry.Rect{X: 2, Y: 2, Width: 766, Height: 896})
	if _, err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	desk.takeWrites()

	changed, err := p.Tick()
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if changed {
		t.Fatalf("expected steady state after the engine's own write")
	}
	if w := desk.takeWrites(); len(w) != 0 {
		t.Fatalf("expected no writes, got %+v", w)
	}
	if snap.IsAdjusting(20) {
		t.Fatalf("expected adjusting flags cleared at the start of a tick")
	}
}

func TestTick_ConvergesWhenNeighbourWriteIsIgnored(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.set(10, geometry.Rect{X: 2, Y: 2, Width: 766, Height: 896})
	if _, err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	// The window manager refuses the write and puts the window back.
	desk.set(20, geometry.Rect{X: 722, Y: 2, Width: 716, Height: 896})
	desk.takeWrites()

	for i := 0; i < 5; i++ {
		if _, err := p.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	stored, _ := snap.Frame(20)
	if !stored.ApproxEqual(desk.frame(20), grid.MovementThreshold) {
		t.Fatalf("expected snapshot to settle on the live frame, got %+v vs %+v", stored, desk.frame(20))
	}
}

func TestTick_CascadeKeepsDividerStraight(t *testing.T) {
	desk := newFakeDesktop(quadrants()...)
	snap := grid.Build(quadrants(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{Cascade: true}, snap, desk)

	desk.set(1, geometry.Rect{X: 0, Y: 0, Width: 770, Height: 450})
	if _, err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := desk.frame(3); got.Width != 770 {
		t.Fatalf("expected window below to follow, got %+v", got)
	}
	if got := desk.frame(4); got.X != 770 || got.Width != 670 {
		t.Fatalf("expected window across the collinear divider to move, got %+v", got)
	}
}

func TestTick_CascadeCornerResizeMovesEachWindowOnce(t *testing.T) {
	desk := newFakeDesktop(quadrants()...)
	snap := grid.Build(quadrants(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{Cascade: true}, snap, desk)

	desk.set(1, geometry.Rect{X: 0, Y: 0, Width: 770, Height: 500})
	if _, err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	want := []grid.FrameAdjustment{
		{Window: 2, Frame: geometry.Rect{X: 770, Y: 0, Width: 670, Height: 500}},
		{Window: 3, Frame: geometry.Rect{X: 0, Y: 500, Width: 770, Height: 400}},
		{Window: 4, Frame: geometry.Rect{X: 770, Y: 500, Width: 670, Height: 400}},
	}
	if diff := cmp.Diff(want, desk.takeWrites()); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
	if got := len(snap.Edges()); got != 4 {
		t.Fatalf("expected the grid to keep its 4 shared edges, got %d: %+v", got, snap.Edges())
	}
}

func TestTick_WithoutCascadeOnlyDirectNeighbourMoves(t *testing.T) {
	desk := newFakeDesktop(quadrants()...)
	snap := grid.Build(quadrants(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.set(1, geometry.Rect{X: 0, Y: 0, Width: 770, Height: 450})
	if _, err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	want := []grid.FrameAdjustment{
		{Window: 2, Frame: geometry.Rect{X: 770, Y: 0, Width: 670, Height: 450}},
	}
	if diff := cmp.Diff(want, desk.takeWrites()); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestTick_VanishedWindowEndsSession(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.close(20)
	_, err := p.Tick()
	if !errors.Is(err, ErrTooFewWindows) {
		t.Fatalf("expected ErrTooFewWindows, got %v", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("expected vanished window removed, got %d windows", snap.Len())
	}
}

func TestTick_VanishedWindowKeepsRestOfGrid(t *testing.T) {
	desk := newFakeDesktop(quadrants()...)
	snap := grid.Build(quadrants(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{}, snap, desk)

	desk.close(4)
	changed, err := p.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !changed || snap.Len() != 3 {
		t.Fatalf("expected 3 windows after close, got %d (changed=%v)", snap.Len(), changed)
	}
	if got := len(snap.Edges()); got != 2 {
		t.Fatalf("expected 2 edges left, got %d", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	p := NewPoller(PollerConfig{Interval: time.Millisecond}, snap, desk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("poller did not stop")
	}
}

func TestRun_ReturnsWhenWindowsVanish(t *testing.T) {
	desk := newFakeDesktop(halves()...)
	snap := grid.Build(halves(), grid.DefaultOptions())
	changes := 0
	p := NewPoller(PollerConfig{
		Interval: time.Millisecond,
		OnChange: func() { changes++ },
	}, snap, desk)

	desk.close(10)
	err := p.Run(context.Background())
	if !errors.Is(err, ErrTooFewWindows) {
		t.Fatalf("expected ErrTooFewWindows, got %v", err)
	}
	if changes != 1 {
		t.Fatalf("expected one change notification, got %d", changes)
	}
}
