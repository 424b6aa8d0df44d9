// Package geometry holds the rectangle type shared by the grid engine and the
// two screen coordinate conventions it has to translate between.
package geometry

import "math"

// Rect is an axis-aligned rectangle given by its origin and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position or displacement on screen.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromInts builds a Rect from integer pixel geometry.
func FromInts(x, y, width, height int) Rect {
	return Rect{X: float64(x), Y: float64(y), Width: float64(width), Height: float64(height)}
}

// Ints rounds the rectangle to whole pixels.
func (r Rect) Ints() (x, y, width, height int) {
	return int(math.Round(r.X)), int(math.Round(r.Y)), int(math.Round(r.Width)), int(math.Round(r.Height))
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MinY returns the top edge in the rectangle's own convention.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the edge opposite MinY.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area. Negative sizes count as empty.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ApproxEqual compares two rectangles component-wise within eps.
func (r Rect) ApproxEqual(o Rect, eps float64) bool {
	return math.Abs(r.X-o.X) <= eps &&
		math.Abs(r.Y-o.Y) <= eps &&
		math.Abs(r.Width-o.Width) <= eps &&
		math.Abs(r.Height-o.Height) <= eps
}

// Overlap returns the length of the intersection of [a0,a1] and [b0,b1],
// or a negative number when the ranges are disjoint.
func Overlap(a0, a1, b0, b1 float64) float64 {
	return math.Min(a1, b1) - math.Max(a0, b0)
}
