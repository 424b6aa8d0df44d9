// Package handles draws one draggable bar over every divider of a grid
// session and forwards pointer drags on those bars to the session.
package handles

import (
	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// Bar is a handle surface in X11 root coordinates.
type Bar struct {
	Group int
	Axis  grid.Axis
	X     int
	Y     int
	W     int
	H     int
}

// Bars places a bar of the given thickness over each divider. Panel frames
// come back from grid.PanelFrame in the bottom-left convention and are
// converted to top-left root space about rootHeight.
func Bars(groups []grid.EdgeGroup, rootHeight, thickness float64) []Bar {
	bars := make([]Bar, 0, len(groups))
	for i, g := range groups {
		panel := grid.PanelFrame(g, rootHeight, thickness)
		frame := geometry.Convert(panel, geometry.BottomLeft, geometry.TopLeft, rootHeight)
		x, y, w, h := frame.Ints()
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		bars = append(bars, Bar{Group: i, Axis: g.Axis, X: x, Y: y, W: w, H: h})
	}
	return bars
}
