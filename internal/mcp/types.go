package mcp

import "github.com/1broseidon/gridresize/internal/geometry"

// ListEdgesInput is the input for the list_edges tool.
type ListEdgesInput struct {
	IncludeEdges bool `json:"include_edges,omitempty" jsonschema:"When true, also return every pairwise shared edge, not just the grouped dividers"`
}

// WindowInfo is one window taking part in the grid.
type WindowInfo struct {
	ID    uint32        `json:"id"`
	Frame geometry.Rect `json:"frame"`
}

// EdgeInfo is one shared edge between two windows.
type EdgeInfo struct {
	Axis       string  `json:"axis"`
	Low        uint32  `json:"low"`
	High       uint32  `json:"high"`
	Coordinate float64 `json:"coordinate"`
	SpanStart  float64 `json:"span_start"`
	SpanEnd    float64 `json:"span_end"`
}

// DividerInfo is one draggable divider (a group of collinear edges).
type DividerInfo struct {
	Index      int      `json:"index"`
	Axis       string   `json:"axis"`
	Coordinate float64  `json:"coordinate"`
	SpanStart  float64  `json:"span_start"`
	SpanEnd    float64  `json:"span_end"`
	Low        []uint32 `json:"low"`
	High       []uint32 `json:"high"`
}

// ListEdgesOutput is the output for the list_edges tool.
type ListEdgesOutput struct {
	Screen   geometry.Rect `json:"screen"`
	Windows  []WindowInfo  `json:"windows"`
	Dividers []DividerInfo `json:"dividers"`
	Edges    []EdgeInfo    `json:"edges,omitempty"`
}

// MoveDividerInput is the input for the move_divider tool.
type MoveDividerInput struct {
	Index int     `json:"index" jsonschema:"Divider index as returned by list_edges"`
	Delta float64 `json:"delta" jsonschema:"Pixels to move the divider; positive moves right or down"`
	Snap  *bool   `json:"snap,omitempty" jsonschema:"Snap to the configured screen fractions when close (default: true)"`
}

// MoveDividerOutput is the output for the move_divider tool.
type MoveDividerOutput struct {
	Coordinate float64      `json:"coordinate"`
	Applied    float64      `json:"applied"`
	Snapped    bool         `json:"snapped"`
	Windows    []WindowInfo `json:"windows"`
}

// TileInput is the input for the tile tool.
type TileInput struct {
	Preset string `json:"preset" jsonschema:"Layout preset: grid, halves, thirds, quarters, columns or rows"`
}

// TileOutput is the output for the tile tool.
type TileOutput struct {
	Preset string `json:"preset"`
	Placed int    `json:"placed"`
}
