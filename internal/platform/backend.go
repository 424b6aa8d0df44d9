package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window contains geometry for a top-level window.
type Window struct {
	ID     WindowID
	Bounds Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	ActiveDisplay() (Display, error)
	ListWindowsOnDisplay(display Display) ([]Window, error)
	WindowBounds(windowID WindowID) (Rect, bool)
	MoveResize(windowID WindowID, bounds Rect) error
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
