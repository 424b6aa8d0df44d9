// Package config loads the gridresize YAML configuration.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/gridresize/internal/dragresize"
	"github.com/1broseidon/gridresize/internal/grid"
	"github.com/1broseidon/gridresize/internal/tiling"
)

// Config is the effective configuration after defaults, includes and the
// user's file have been merged.
type Config struct {
	SessionHotkey string            `yaml:"session_hotkey"`
	UndoHotkey    string            `yaml:"undo_hotkey"`
	TileHotkeys   map[string]string `yaml:"tile_hotkeys"`
	Display       string            `yaml:"display"`

	GapSize        int     `yaml:"gap_size"`
	EdgeTolerance  float64 `yaml:"edge_tolerance"`
	MinOverlap     float64 `yaml:"min_overlap"`
	GroupTolerance float64 `yaml:"group_tolerance"`

	MinWindowSize float64   `yaml:"min_window_size"`
	SnapDetent    float64   `yaml:"snap_detent"`
	SnapFractions []float64 `yaml:"snap_fractions"`

	PollHz  int  `yaml:"poll_hz"`
	Cascade bool `yaml:"cascade"`

	HandleThickness int    `yaml:"handle_thickness"`
	HandleColor     string `yaml:"handle_color"`
	HandleSnapColor string `yaml:"handle_snap_color"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SessionHotkey: "Mod4-Mod1-g",
		UndoHotkey:    "Mod4-Mod1-z",
		TileHotkeys: map[string]string{
			string(tiling.PresetHalves):   "Mod4-Mod1-h",
			string(tiling.PresetThirds):   "Mod4-Mod1-t",
			string(tiling.PresetQuarters): "Mod4-Mod1-q",
			string(tiling.PresetGrid):     "Mod4-Mod1-a",
		},
		GapSize:         4,
		EdgeTolerance:   grid.DefaultTolerance,
		MinOverlap:      grid.DefaultMinOverlap,
		GroupTolerance:  grid.DefaultTolerance,
		MinWindowSize:   dragresize.DefaultMinSize,
		SnapDetent:      dragresize.DefaultSnapDetent,
		SnapFractions:   append([]float64(nil), dragresize.DefaultSnapFractions...),
		PollHz:          60,
		Cascade:         true,
		HandleThickness: 8,
		HandleColor:     "#5e81ac",
		HandleSnapColor: "#ebcb8b",
		LogLevel:        "info",
	}
}

// Validate reports the first invalid setting as a *ValidationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SessionHotkey) == "" {
		return &ValidationError{Path: "session_hotkey", Err: fmt.Errorf("session_hotkey is required")}
	}
	for name, key := range c.TileHotkeys {
		if _, err := tiling.ParsePreset(name); err != nil {
			return &ValidationError{Path: "tile_hotkeys." + name, Err: err}
		}
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "tile_hotkeys." + name, Err: fmt.Errorf("hotkey must not be empty")}
		}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.EdgeTolerance <= 0 {
		return &ValidationError{Path: "edge_tolerance", Err: fmt.Errorf("edge_tolerance must be > 0")}
	}
	if float64(c.GapSize) > c.EdgeTolerance {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size %d exceeds edge_tolerance %g; tiled windows would not share edges", c.GapSize, c.EdgeTolerance)}
	}
	if c.MinOverlap <= 0 {
		return &ValidationError{Path: "min_overlap", Err: fmt.Errorf("min_overlap must be > 0")}
	}
	if c.GroupTolerance <= 0 {
		return &ValidationError{Path: "group_tolerance", Err: fmt.Errorf("group_tolerance must be > 0")}
	}
	if c.MinWindowSize < 1 {
		return &ValidationError{Path: "min_window_size", Err: fmt.Errorf("min_window_size must be >= 1")}
	}
	if c.SnapDetent < 0 {
		return &ValidationError{Path: "snap_detent", Err: fmt.Errorf("snap_detent must be >= 0")}
	}
	for i, f := range c.SnapFractions {
		if math.IsNaN(f) || f <= 0 || f >= 1 {
			return &ValidationError{Path: fmt.Sprintf("snap_fractions[%d]", i), Err: fmt.Errorf("fraction %g must be between 0 and 1", f)}
		}
	}
	if c.PollHz < 1 || c.PollHz > 240 {
		return &ValidationError{Path: "poll_hz", Err: fmt.Errorf("poll_hz must be between 1 and 240")}
	}
	if c.HandleThickness < 2 {
		return &ValidationError{Path: "handle_thickness", Err: fmt.Errorf("handle_thickness must be >= 2")}
	}
	if _, err := ParseColor(c.HandleColor); err != nil {
		return &ValidationError{Path: "handle_color", Err: err}
	}
	if _, err := ParseColor(c.HandleSnapColor); err != nil {
		return &ValidationError{Path: "handle_snap_color", Err: err}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// GridOptions returns the shared-edge detection settings.
func (c *Config) GridOptions() grid.Options {
	return grid.Options{Tolerance: c.EdgeTolerance, MinOverlap: c.MinOverlap}
}

// DragOptions returns the divider drag settings.
func (c *Config) DragOptions() dragresize.Options {
	opts := dragresize.DefaultOptions()
	opts.SnapDetent = c.SnapDetent
	opts.SnapFractions = append([]float64(nil), c.SnapFractions...)
	opts.MinSize = c.MinWindowSize
	return opts
}

// PollInterval converts poll_hz to a tick interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.PollHz)
}

// ParseColor parses "#rrggbb" into a 0xRRGGBB pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	return uint32(v), nil
}

// ValidationError points at the setting that failed validation and, when
// known, the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
