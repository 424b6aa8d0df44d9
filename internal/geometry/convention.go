package geometry

// Convention names where a coordinate space puts its origin.
type Convention int

const (
	// TopLeft has y growing downward from the top edge of the reference area.
	// X11 and most accessibility APIs report window frames this way.
	TopLeft Convention = iota
	// BottomLeft has y growing upward from the bottom edge of the reference area.
	BottomLeft
)

// String returns the string representation of the convention.
func (c Convention) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case BottomLeft:
		return "bottom-left"
	default:
		return "unknown"
	}
}

// Flip mirrors r about the horizontal axis of a reference area of the given
// height. Flip is its own inverse.
func Flip(r Rect, referenceHeight float64) Rect {
	return Rect{
		X:      r.X,
		Y:      referenceHeight - r.Y - r.Height,
		Width:  r.Width,
		Height: r.Height,
	}
}

// FlipY mirrors a single y coordinate about the reference height.
func FlipY(y, referenceHeight float64) float64 {
	return referenceHeight - y
}

// Convert moves r from one convention to another.
func Convert(r Rect, from, to Convention, referenceHeight float64) Rect {
	if from == to {
		return r
	}
	return Flip(r, referenceHeight)
}

// ConvertDelta expresses a pointer displacement recorded in convention from
// in convention to. Only the vertical component changes sign.
func ConvertDelta(d Point, from, to Convention) Point {
	if from == to {
		return d
	}
	return Point{X: d.X, Y: -d.Y}
}
