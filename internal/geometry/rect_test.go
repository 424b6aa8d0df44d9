package geometry

import "testing"

func TestFlipIsInvolution(t *testing.T) {
	r := Rect{X: 10, Y: 40, Width: 300, Height: 200}
	flipped := Flip(r, 900)
	if flipped.Y != 660 {
		t.Fatalf("expected flipped y 660, got %v", flipped.Y)
	}
	if back := Flip(flipped, 900); back != r {
		t.Fatalf("expected round trip to %+v, got %+v", r, back)
	}
}

func TestConvertSameConventionIsIdentity(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	if got := Convert(r, TopLeft, TopLeft, 100); got != r {
		t.Fatalf("expected identity, got %+v", got)
	}
	if got := Convert(r, TopLeft, BottomLeft, 100); got.Y != 94 {
		t.Fatalf("expected y 94, got %v", got.Y)
	}
}

func TestConvertDeltaInvertsVerticalOnly(t *testing.T) {
	d := ConvertDelta(Point{X: 5, Y: 7}, BottomLeft, TopLeft)
	if d.X != 5 || d.Y != -7 {
		t.Fatalf("expected (5,-7), got %+v", d)
	}
}

func TestIsEmptyTreatsNegativeSizeAsEmpty(t *testing.T) {
	if !(Rect{Width: -5, Height: 10}).IsEmpty() {
		t.Fatalf("negative width should be empty")
	}
	if (Rect{Width: 1, Height: 1}).IsEmpty() {
		t.Fatalf("1x1 should not be empty")
	}
}

func TestOverlap(t *testing.T) {
	if got := Overlap(0, 100, 50, 200); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := Overlap(0, 10, 20, 30); got >= 0 {
		t.Fatalf("expected negative overlap for disjoint ranges, got %v", got)
	}
}

func TestIntsRounds(t *testing.T) {
	x, y, w, h := Rect{X: 1.4, Y: 1.6, Width: 99.5, Height: 10}.Ints()
	if x != 1 || y != 2 || w != 100 || h != 10 {
		t.Fatalf("unexpected rounding: %d %d %d %d", x, y, w, h)
	}
}

func TestEdgeAccessors(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 300, Height: 40}
	if r.MinX() != 10 || r.MaxX() != 310 || r.MinY() != 20 || r.MaxY() != 60 {
		t.Fatalf("unexpected edges for %+v: %v %v %v %v", r, r.MinX(), r.MaxX(), r.MinY(), r.MaxY())
	}
}
