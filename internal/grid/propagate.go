package grid

import (
	"math"

	"github.com/1broseidon/gridresize/internal/geometry"
)

// MovementThreshold is the smallest side movement that propagates. Smaller
// deltas are treated as rounding noise.
const MovementThreshold = 0.5

// FrameAdjustment is a frame the caller should write for a window.
type FrameAdjustment struct {
	Window WindowID
	Frame  geometry.Rect
}

type sideDelta struct {
	side  Side
	delta float64
}

func sideDeltas(oldFrame, newFrame geometry.Rect) []sideDelta {
	all := []sideDelta{
		{SideLeft, newFrame.MinX() - oldFrame.MinX()},
		{SideRight, newFrame.MaxX() - oldFrame.MaxX()},
		{SideTop, newFrame.MinY() - oldFrame.MinY()},
		{SideBottom, newFrame.MaxY() - oldFrame.MaxY()},
	}
	moved := all[:0]
	for _, d := range all {
		if math.Abs(d.delta) > MovementThreshold {
			moved = append(moved, d)
		}
	}
	return moved
}

// ComputePropagation returns the frames every neighbour of changed needs so
// that the edges it shares with changed follow its new frame.
//
// A neighbour beyond a moved right or bottom side is pushed: its origin on
// that axis shifts by the delta and its size shrinks by it. A neighbour
// beyond a moved left or top side is pulled: its size grows by the delta and
// its origin stays put. A neighbour touched on both axes gets one adjustment
// per axis; they are not merged, but the later one starts from the frame the
// earlier one produced, so applying them in order lands both moves.
//
// Windows flagged as adjusting produce nothing, which keeps frames written
// by the engine from feeding back into the next poll.
func ComputePropagation(s *Snapshot, changed WindowID, oldFrame, newFrame geometry.Rect) []FrameAdjustment {
	return propagate(s, changed, oldFrame, newFrame).out
}

// pending collects adjustments and remembers the newest frame produced for
// each window.
type pending struct {
	out    []FrameAdjustment
	latest map[WindowID]int
}

func (p *pending) frame(s *Snapshot, id WindowID) (geometry.Rect, bool) {
	if i, ok := p.latest[id]; ok {
		return p.out[i].Frame, true
	}
	return s.Frame(id)
}

func (p *pending) add(id WindowID, frame geometry.Rect) {
	p.latest[id] = len(p.out)
	p.out = append(p.out, FrameAdjustment{Window: id, Frame: frame})
}

func propagate(s *Snapshot, changed WindowID, oldFrame, newFrame geometry.Rect) *pending {
	p := &pending{latest: make(map[WindowID]int)}
	if s == nil || s.IsAdjusting(changed) {
		return p
	}
	for _, d := range sideDeltas(oldFrame, newFrame) {
		for _, e := range s.FindAffectedEdges(changed, d.side) {
			neighbor := neighborAcross(e, d.side)
			frame, ok := p.frame(s, neighbor)
			if !ok {
				continue
			}
			p.add(neighbor, shiftNeighbor(frame, d.side, d.delta))
		}
	}
	return p
}

// CollinearEdges returns the other shared edges of the same axis whose
// coordinate lies within tolerance of e.
func CollinearEdges(s *Snapshot, e SharedEdge, tolerance float64) []SharedEdge {
	if s == nil {
		return nil
	}
	var out []SharedEdge
	for _, other := range s.edges {
		if other == e || other.Axis != e.Axis {
			continue
		}
		if math.Abs(other.Coordinate-e.Coordinate) <= tolerance {
			out = append(out, other)
		}
	}
	return out
}

// ComputeCascade extends ComputePropagation to every edge collinear with an
// edge that moved, so a divider shared by several window pairs stays
// straight. Each window moves at most once per moved side, and a window
// reached on both axes carries both moves by its last adjustment.
func ComputeCascade(s *Snapshot, changed WindowID, oldFrame, newFrame geometry.Rect, tolerance float64) []FrameAdjustment {
	p := propagate(s, changed, oldFrame, newFrame)
	if len(p.out) == 0 {
		return p.out
	}
	for _, d := range sideDeltas(oldFrame, newFrame) {
		affected := s.FindAffectedEdges(changed, d.side)
		if len(affected) == 0 {
			continue
		}
		moved := map[WindowID]bool{changed: true}
		for _, e := range affected {
			moved[neighborAcross(e, d.side)] = true
		}
		for _, e := range affected {
			for _, sibling := range CollinearEdges(s, e, tolerance) {
				p.lineShift(s, moved, sibling.Low, lowSide(d.side.Axis()), d.delta)
				p.lineShift(s, moved, sibling.High, highSide(d.side.Axis()), d.delta)
			}
		}
	}
	return p.out
}

// lineShift moves the side of id that sits on a divider by delta. side is
// the side of the neighbour that moved, so the frame is derived the same way
// ComputePropagation derives it.
func (p *pending) lineShift(s *Snapshot, moved map[WindowID]bool, id WindowID, side Side, delta float64) {
	if moved[id] {
		return
	}
	frame, ok := p.frame(s, id)
	if !ok {
		return
	}
	moved[id] = true
	p.add(id, shiftNeighbor(frame, side, delta))
}

// Coalesce keeps only the last adjustment of each window, in the order the
// windows first appear.
func Coalesce(adjustments []FrameAdjustment) []FrameAdjustment {
	if len(adjustments) < 2 {
		return adjustments
	}
	index := make(map[WindowID]int, len(adjustments))
	out := make([]FrameAdjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if i, ok := index[adj.Window]; ok {
			out[i].Frame = adj.Frame
			continue
		}
		index[adj.Window] = len(out)
		out = append(out, adj)
	}
	return out
}

// lowSide is the side, as seen from the changed window, whose movement pulls
// a window on the low side of a divider.
func lowSide(axis Axis) Side {
	if axis == Vertical {
		return SideLeft
	}
	return SideTop
}

// highSide is the side whose movement pushes a window on the high side.
func highSide(axis Axis) Side {
	if axis == Vertical {
		return SideRight
	}
	return SideBottom
}

func neighborAcross(e SharedEdge, moved Side) WindowID {
	if moved == SideRight || moved == SideBottom {
		return e.High
	}
	return e.Low
}

// shiftNeighbor derives a neighbour's frame after the changed window's side
// moved by delta.
func shiftNeighbor(frame geometry.Rect, moved Side, delta float64) geometry.Rect {
	switch moved {
	case SideRight:
		frame.X += delta
		frame.Width -= delta
	case SideLeft:
		frame.Width += delta
	case SideBottom:
		frame.Y += delta
		frame.Height -= delta
	case SideTop:
		frame.Height += delta
	}
	return frame
}
