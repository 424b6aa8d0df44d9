// Package dragresize turns a pointer dragging one divider into frame writes
// for every window on that divider.
//
// A Controller moves through idle -> armed -> dragging -> idle, driven only
// by Begin, Update and End. It never reads or writes windows itself beyond
// the baseline lookup in Begin; callers write the returned adjustments.
package dragresize

import (
	"errors"
	"math"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// Defaults for snapping and size limits.
const (
	DefaultSnapDetent = 10.0
	DefaultMinSize    = 200.0
)

// DefaultSnapFractions are the screen fractions a divider snaps to.
var DefaultSnapFractions = []float64{1.0 / 3.0, 1.0 / 2.0, 2.0 / 3.0}

var (
	// ErrDragActive is returned by Begin while another drag is in progress.
	ErrDragActive = errors.New("drag already in progress")
	// ErrNoParticipants is returned by Begin when neither side of the divider
	// has a readable window.
	ErrNoParticipants = errors.New("divider has no readable windows on one of its sides")
)

// FrameReader reads a window's live frame. ok is false if the window is gone.
type FrameReader interface {
	ReadFrame(id grid.WindowID) (frame geometry.Rect, ok bool)
}

// FrameReaderFunc adapts a function to FrameReader.
type FrameReaderFunc func(id grid.WindowID) (geometry.Rect, bool)

// ReadFrame calls f(id).
func (f FrameReaderFunc) ReadFrame(id grid.WindowID) (geometry.Rect, bool) {
	return f(id)
}

// Options configures a Controller.
type Options struct {
	// SnapDetent is how close the divider must come to a snap mark to land on it.
	// Zero disables snapping.
	SnapDetent float64
	// SnapFractions are fractions of the screen dimension along the drag axis.
	SnapFractions []float64
	// MinSize is the smallest width or height any participating window may reach.
	MinSize float64
	// PointerConvention is the convention raw pointer deltas are reported in.
	// Window frames are always in TopLeft system space.
	PointerConvention geometry.Convention
}

// DefaultOptions returns the stock snap and size limits.
func DefaultOptions() Options {
	return Options{
		SnapDetent:        DefaultSnapDetent,
		SnapFractions:     append([]float64(nil), DefaultSnapFractions...),
		MinSize:           DefaultMinSize,
		PointerConvention: geometry.TopLeft,
	}
}

// Result is the outcome of one update.
type Result struct {
	// Adjustments holds one frame per participating window.
	Adjustments []grid.FrameAdjustment
	// Delta is the structural delta applied after snapping and clamping.
	Delta float64
	// Coordinate is where the divider now sits.
	Coordinate float64
	// Snapped reports whether the divider currently sits on a snap mark.
	Snapped bool
	// SnapEntered is true only on the update that moved into a snapped state.
	SnapEntered bool
	// SnapFraction is the fraction snapped to, when Snapped is true.
	SnapFraction float64
}

// Controller is a stateful drag session over one divider. It is not safe for
// concurrent use.
type Controller struct {
	opts Options

	phase     Phase
	axis      grid.Axis
	screen    geometry.Rect
	baseCoord float64
	lowIDs    []grid.WindowID
	highIDs   []grid.WindowID
	baseline  map[grid.WindowID]geometry.Rect

	snapped bool
	last    Result
}

// New creates an idle controller.
func New(opts Options) *Controller {
	if opts.MinSize < 0 {
		opts.MinSize = 0
	}
	if opts.SnapDetent < 0 {
		opts.SnapDetent = 0
	}
	return &Controller{opts: opts, phase: PhaseIdle}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Active reports whether a drag is armed or in progress.
func (c *Controller) Active() bool {
	return c.phase != PhaseIdle
}

// Axis returns the axis of the divider being dragged.
func (c *Controller) Axis() grid.Axis {
	return c.axis
}

// Begin captures baseline frames for every window on the divider by reading
// them live through frames, and arms the controller. screen is the area snap
// fractions are measured against, in system space.
func (c *Controller) Begin(group grid.EdgeGroup, frames FrameReader, screen geometry.Rect) error {
	if c.phase != PhaseIdle {
		return ErrDragActive
	}

	baseline := make(map[grid.WindowID]geometry.Rect, len(group.LowIDs)+len(group.HighIDs))
	capture := func(ids []grid.WindowID) []grid.WindowID {
		var kept []grid.WindowID
		for _, id := range ids {
			frame, ok := frames.ReadFrame(id)
			if !ok {
				continue
			}
			baseline[id] = frame
			kept = append(kept, id)
		}
		return kept
	}
	lows := capture(group.LowIDs)
	highs := capture(group.HighIDs)
	if len(lows) == 0 || len(highs) == 0 {
		return ErrNoParticipants
	}

	c.axis = group.Axis
	c.screen = screen
	c.lowIDs = lows
	c.highIDs = highs
	c.baseline = baseline
	c.baseCoord = dividerCoordinate(group.Axis, baseline[lows[0]], baseline[highs[0]])
	c.snapped = false
	c.last = Result{Coordinate: c.baseCoord}
	c.phase = PhaseArmed
	return nil
}

// Update applies the pointer displacement accumulated since the drag began.
// Positive structural deltas grow the windows left of or above the divider
// and shrink the ones on the other side. Calling Update while idle returns an
// empty result.
func (c *Controller) Update(raw geometry.Point) Result {
	if c.phase == PhaseIdle {
		return Result{}
	}
	c.phase = PhaseDragging

	delta := c.structuralDelta(raw)

	snappedDelta, fraction, snapped := c.snap(delta)
	clamped := c.clamp(snappedDelta)
	if clamped != snappedDelta {
		snapped = false
	}

	res := Result{
		Adjustments: c.apply(clamped),
		Delta:       clamped,
		Coordinate:  c.baseCoord + clamped,
		Snapped:     snapped,
		SnapEntered: snapped && !c.snapped,
	}
	if snapped {
		res.SnapFraction = fraction
	}
	c.snapped = snapped
	c.last = res
	return res
}

// Forget drops a window that disappeared mid-drag so later updates skip it.
// It reports whether both sides of the divider still have a window; when
// they do not, the caller should end the drag.
func (c *Controller) Forget(id grid.WindowID) bool {
	if c.baseline == nil {
		return false
	}
	delete(c.baseline, id)
	c.lowIDs = removeID(c.lowIDs, id)
	c.highIDs = removeID(c.highIDs, id)
	return len(c.lowIDs) > 0 && len(c.highIDs) > 0
}

// End finishes the drag, clears all baseline state and returns the last
// computed adjustments so the caller can make a final write. The caller
// should rebuild its grid snapshot afterwards.
func (c *Controller) End() []grid.FrameAdjustment {
	var final []grid.FrameAdjustment
	if c.phase == PhaseDragging {
		final = c.last.Adjustments
	}
	c.phase = PhaseIdle
	c.baseline = nil
	c.lowIDs = nil
	c.highIDs = nil
	c.snapped = false
	c.last = Result{}
	return final
}

func (c *Controller) structuralDelta(raw geometry.Point) float64 {
	d := geometry.ConvertDelta(raw, c.opts.PointerConvention, geometry.TopLeft)
	if c.axis == grid.Vertical {
		return d.X
	}
	return d.Y
}

// snap pulls delta so the divider lands exactly on a screen fraction when it
// would otherwise end within the detent of one.
func (c *Controller) snap(delta float64) (float64, float64, bool) {
	if c.opts.SnapDetent <= 0 {
		return delta, 0, false
	}
	origin, length := c.screen.X, c.screen.Width
	if c.axis == grid.Horizontal {
		origin, length = c.screen.Y, c.screen.Height
	}
	if length <= 0 {
		return delta, 0, false
	}

	target := c.baseCoord + delta
	best, bestFraction, found := 0.0, 0.0, false
	bestDist := math.Inf(1)
	for _, f := range c.opts.SnapFractions {
		mark := origin + f*length
		dist := math.Abs(target - mark)
		if dist <= c.opts.SnapDetent && dist < bestDist {
			best, bestFraction, bestDist, found = mark, f, dist, true
		}
	}
	if !found {
		return delta, 0, false
	}
	return best - c.baseCoord, bestFraction, true
}

// clamp shortens delta so no participating window shrinks below MinSize
// along the drag axis. It never lengthens delta, so a window that already
// starts below the limit only blocks further shrinking.
func (c *Controller) clamp(delta float64) float64 {
	lower := math.Inf(-1)
	upper := math.Inf(1)
	for _, id := range c.lowIDs {
		lower = math.Max(lower, c.opts.MinSize-c.size(c.baseline[id]))
	}
	for _, id := range c.highIDs {
		upper = math.Min(upper, c.size(c.baseline[id])-c.opts.MinSize)
	}
	if limit := math.Min(0, lower); delta < limit {
		delta = limit
	}
	if limit := math.Max(0, upper); delta > limit {
		delta = limit
	}
	return delta
}

func (c *Controller) size(r geometry.Rect) float64 {
	if c.axis == grid.Vertical {
		return r.Width
	}
	return r.Height
}

func (c *Controller) apply(delta float64) []grid.FrameAdjustment {
	out := make([]grid.FrameAdjustment, 0, len(c.lowIDs)+len(c.highIDs))
	for _, id := range c.lowIDs {
		frame, ok := c.baseline[id]
		if !ok {
			continue
		}
		if c.axis == grid.Vertical {
			frame.Width += delta
		} else {
			frame.Height += delta
		}
		out = append(out, grid.FrameAdjustment{Window: id, Frame: frame})
	}
	for _, id := range c.highIDs {
		frame, ok := c.baseline[id]
		if !ok {
			continue
		}
		if c.axis == grid.Vertical {
			frame.X += delta
			frame.Width -= delta
		} else {
			frame.Y += delta
			frame.Height -= delta
		}
		out = append(out, grid.FrameAdjustment{Window: id, Frame: frame})
	}
	return out
}

// dividerCoordinate is the midpoint between the low window's far side and
// the high window's near side.
func dividerCoordinate(axis grid.Axis, low, high geometry.Rect) float64 {
	if axis == grid.Vertical {
		return (low.MaxX() + high.MinX()) / 2
	}
	return (low.MaxY() + high.MinY()) / 2
}

func removeID(ids []grid.WindowID, id grid.WindowID) []grid.WindowID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
