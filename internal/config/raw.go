package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors one YAML file. Nil fields were not set by that file.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	SessionHotkey *string           `yaml:"session_hotkey"`
	UndoHotkey    *string           `yaml:"undo_hotkey"`
	TileHotkeys   map[string]string `yaml:"tile_hotkeys"`
	Display       *string           `yaml:"display"`

	GapSize        *int     `yaml:"gap_size"`
	EdgeTolerance  *float64 `yaml:"edge_tolerance"`
	MinOverlap     *float64 `yaml:"min_overlap"`
	GroupTolerance *float64 `yaml:"group_tolerance"`

	MinWindowSize *float64  `yaml:"min_window_size"`
	SnapDetent    *float64  `yaml:"snap_detent"`
	SnapFractions []float64 `yaml:"snap_fractions"`

	PollHz  *int  `yaml:"poll_hz"`
	Cascade *bool `yaml:"cascade"`

	HandleThickness *int    `yaml:"handle_thickness"`
	HandleColor     *string `yaml:"handle_color"`
	HandleSnapColor *string `yaml:"handle_snap_color"`

	LogLevel *string `yaml:"log_level"`
}

// merge returns c with every field overlay sets applied on top.
// tile_hotkeys merge per preset; snap_fractions replace as a whole.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	override(&out.SessionHotkey, overlay.SessionHotkey)
	override(&out.UndoHotkey, overlay.UndoHotkey)
	override(&out.Display, overlay.Display)
	override(&out.HandleColor, overlay.HandleColor)
	override(&out.HandleSnapColor, overlay.HandleSnapColor)
	override(&out.LogLevel, overlay.LogLevel)
	override(&out.GapSize, overlay.GapSize)
	override(&out.PollHz, overlay.PollHz)
	override(&out.HandleThickness, overlay.HandleThickness)
	override(&out.EdgeTolerance, overlay.EdgeTolerance)
	override(&out.MinOverlap, overlay.MinOverlap)
	override(&out.GroupTolerance, overlay.GroupTolerance)
	override(&out.MinWindowSize, overlay.MinWindowSize)
	override(&out.SnapDetent, overlay.SnapDetent)
	override(&out.Cascade, overlay.Cascade)
	if overlay.SnapFractions != nil {
		out.SnapFractions = append([]float64(nil), overlay.SnapFractions...)
	}
	if overlay.TileHotkeys != nil {
		merged := make(map[string]string, len(c.TileHotkeys)+len(overlay.TileHotkeys))
		for k, v := range c.TileHotkeys {
			merged[k] = v
		}
		for k, v := range overlay.TileHotkeys {
			merged[k] = v
		}
		out.TileHotkeys = merged
	}
	out.Include = nil
	return out
}

// effective applies raw on top of the defaults.
func (c RawConfig) effective() *Config {
	cfg := DefaultConfig()
	assign(&cfg.SessionHotkey, c.SessionHotkey)
	assign(&cfg.UndoHotkey, c.UndoHotkey)
	assign(&cfg.Display, c.Display)
	assign(&cfg.GapSize, c.GapSize)
	assign(&cfg.EdgeTolerance, c.EdgeTolerance)
	assign(&cfg.MinOverlap, c.MinOverlap)
	assign(&cfg.GroupTolerance, c.GroupTolerance)
	assign(&cfg.MinWindowSize, c.MinWindowSize)
	assign(&cfg.SnapDetent, c.SnapDetent)
	assign(&cfg.PollHz, c.PollHz)
	assign(&cfg.Cascade, c.Cascade)
	assign(&cfg.HandleThickness, c.HandleThickness)
	assign(&cfg.HandleColor, c.HandleColor)
	assign(&cfg.HandleSnapColor, c.HandleSnapColor)
	assign(&cfg.LogLevel, c.LogLevel)
	if c.SnapFractions != nil {
		cfg.SnapFractions = append([]float64(nil), c.SnapFractions...)
	}
	for preset, key := range c.TileHotkeys {
		if key == "" {
			delete(cfg.TileHotkeys, preset)
			continue
		}
		cfg.TileHotkeys[preset] = key
	}
	return cfg
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
