package tiling

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/gridresize/internal/platform"
)

// Preset names a placement that leaves windows adjacent, so a grid session
// started afterwards finds a shared edge between every pair of neighbours.
type Preset string

const (
	PresetGrid     Preset = "grid"
	PresetHalves   Preset = "halves"
	PresetThirds   Preset = "thirds"
	PresetQuarters Preset = "quarters"
	PresetColumns  Preset = "columns"
	PresetRows     Preset = "rows"
)

// Presets lists every preset in display order.
func Presets() []Preset {
	return []Preset{PresetGrid, PresetHalves, PresetThirds, PresetQuarters, PresetColumns, PresetRows}
}

// ParsePreset resolves a preset name, ignoring case.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q", name)
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// dimensions returns the grid shape for n windows and whether a short last
// row stretches to fill the width.
func (p Preset) dimensions(n int) (rows, cols int, flexibleLastRow bool, err error) {
	switch p {
	case PresetGrid:
		rows, cols = CalculateGrid(n)
		return rows, cols, true, nil
	case PresetHalves:
		return 1, 2, false, nil
	case PresetThirds:
		return 1, 3, false, nil
	case PresetQuarters:
		return 2, 2, false, nil
	case PresetColumns:
		return 1, n, false, nil
	case PresetRows:
		return n, 1, false, nil
	default:
		return 0, 0, false, fmt.Errorf("unknown preset %q", p)
	}
}

// CalculatePositions lays out up to numWindows windows inside area with gap
// pixels around and between them. Fixed presets place at most their capacity;
// the result is shorter than numWindows when windows are left over.
func CalculatePositions(preset Preset, numWindows int, area platform.Rect, gap int) ([]platform.Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}

	rows, cols, flexibleLastRow, err := preset.dimensions(numWindows)
	if err != nil {
		return nil, err
	}
	if numWindows > rows*cols {
		numWindows = rows * cols
	}

	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for %s layout: area=%dx%d rows=%d cols=%d gap=%d",
			preset, area.Width, area.Height, rows, cols, gap,
		)
	}

	lastRow := rows - 1
	inLastRow := numWindows - lastRow*cols
	lastRowWidth := slotWidth
	if flexibleLastRow && inLastRow < cols {
		lastRowWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	positions := make([]platform.Rect, numWindows)
	for i := range positions {
		row := i / cols
		col := i % cols
		width := slotWidth
		if row == lastRow {
			width = lastRowWidth
		}
		positions[i] = platform.Rect{
			X:      area.X + gap + col*(width+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  width,
			Height: slotHeight,
		}
	}
	return positions, nil
}
