package dragresize

// Phase represents the current phase of a divider drag.
type Phase int

const (
	// PhaseIdle means no drag is in progress.
	PhaseIdle Phase = iota
	// PhaseArmed means the pointer went down on a divider and baselines were captured.
	PhaseArmed
	// PhaseDragging means at least one pointer update has been applied.
	PhaseDragging
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}
