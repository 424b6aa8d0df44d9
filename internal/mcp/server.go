// Package mcp exposes the grid engine as Model Context Protocol tools so an
// assistant can inspect shared edges and move dividers.
package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridresize/internal/config"
	"github.com/1broseidon/gridresize/internal/dragresize"
	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
	"github.com/1broseidon/gridresize/internal/session"
	"github.com/1broseidon/gridresize/internal/tiling"
)

const (
	ServerName    = "gridresize"
	ServerVersion = "0.1.0"
)

// Desktop is the live window system the tools operate on.
type Desktop interface {
	session.WindowSource
	session.FrameIO
	Screen() (geometry.Rect, error)
}

// Tiler applies tiling presets to the active display.
type Tiler interface {
	Tile(preset tiling.Preset) (int, error)
}

// Server is the MCP server for gridresize.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	desktop   Desktop
	tiler     Tiler
	logger    *slog.Logger

	// Tools read then write live frames; one at a time.
	mu sync.Mutex
}

// NewServer creates a new MCP server over desktop.
func NewServer(cfg *config.Config, desktop Desktop, tiler Tiler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		config:  cfg,
		desktop: desktop,
		tiler:   tiler,
		logger:  logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_edges",
		Description: "List the windows on the active display and the dividers between them. Each divider is a line shared by adjacent windows; its index is what move_divider takes.",
	}, s.handleListEdges)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_divider",
		Description: "Move a divider by delta pixels, resizing every window on both sides of it. Windows never shrink below the configured minimum size and the divider snaps to screen thirds and halves when close.",
	}, s.handleMoveDivider)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile",
		Description: "Tile the windows of the active display with a preset so they share edges: grid, halves, thirds, quarters, columns or rows.",
	}, s.handleTile)
}

func (s *Server) snapshot() (*grid.Snapshot, []grid.EdgeGroup, geometry.Rect, error) {
	return snapshot(s.config, s.desktop)
}

func snapshot(cfg *config.Config, desktop Desktop) (*grid.Snapshot, []grid.EdgeGroup, geometry.Rect, error) {
	screen, err := desktop.Screen()
	if err != nil {
		return nil, nil, geometry.Rect{}, err
	}
	windows, err := desktop.ListCandidateWindows()
	if err != nil {
		return nil, nil, geometry.Rect{}, err
	}
	snap := grid.Build(windows, cfg.GridOptions())
	return snap, grid.GroupEdges(snap.Edges(), cfg.GroupTolerance), screen, nil
}

// Report reads the active display and describes its windows and dividers.
// Pairwise edges are included only when includeEdges is set.
func Report(cfg *config.Config, desktop Desktop, includeEdges bool) (ListEdgesOutput, error) {
	snap, groups, screen, err := snapshot(cfg, desktop)
	if err != nil {
		return ListEdgesOutput{}, err
	}

	out := ListEdgesOutput{
		Screen:   screen,
		Windows:  windowInfos(snap.Windows()),
		Dividers: dividerInfos(groups),
	}
	if includeEdges {
		for _, e := range snap.Edges() {
			out.Edges = append(out.Edges, EdgeInfo{
				Axis:       e.Axis.String(),
				Low:        uint32(e.Low),
				High:       uint32(e.High),
				Coordinate: e.Coordinate,
				SpanStart:  e.SpanStart,
				SpanEnd:    e.SpanEnd,
			})
		}
	}
	return out, nil
}

func (s *Server) handleListEdges(_ context.Context, _ *mcpsdk.CallToolRequest, args ListEdgesInput) (*mcpsdk.CallToolResult, ListEdgesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := Report(s.config, s.desktop, args.IncludeEdges)
	if err != nil {
		return nil, ListEdgesOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleMoveDivider(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveDividerInput) (*mcpsdk.CallToolResult, MoveDividerOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, groups, screen, err := s.snapshot()
	if err != nil {
		return nil, MoveDividerOutput{}, err
	}
	if args.Index < 0 || args.Index >= len(groups) {
		return nil, MoveDividerOutput{}, fmt.Errorf("divider %d out of range (have %d)", args.Index, len(groups))
	}
	group := groups[args.Index]

	opts := s.config.DragOptions()
	if args.Snap != nil && !*args.Snap {
		opts.SnapDetent = 0
	}
	ctrl := dragresize.New(opts)
	if err := ctrl.Begin(group, s.desktop, screen); err != nil {
		return nil, MoveDividerOutput{}, err
	}

	raw := geometry.Point{X: args.Delta}
	if group.Axis == grid.Horizontal {
		raw = geometry.Point{Y: args.Delta}
	}
	res := ctrl.Update(raw)
	adjustments := ctrl.End()

	out := MoveDividerOutput{
		Coordinate: res.Coordinate,
		Applied:    res.Delta,
		Snapped:    res.Snapped,
	}
	for _, adj := range adjustments {
		s.desktop.WriteFrame(adj.Window, adj.Frame)
		out.Windows = append(out.Windows, WindowInfo{ID: uint32(adj.Window), Frame: adj.Frame})
	}
	s.logger.Info("divider moved via mcp",
		"divider", args.Index,
		"requested", args.Delta,
		"applied", res.Delta,
		"snapped", res.Snapped)
	return nil, out, nil
}

func (s *Server) handleTile(_ context.Context, _ *mcpsdk.CallToolRequest, args TileInput) (*mcpsdk.CallToolResult, TileOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset, err := tiling.ParsePreset(args.Preset)
	if err != nil {
		return nil, TileOutput{}, err
	}
	placed, err := s.tiler.Tile(preset)
	if err != nil {
		return nil, TileOutput{}, err
	}
	return nil, TileOutput{Preset: string(preset), Placed: placed}, nil
}

func windowInfos(windows []grid.Window) []WindowInfo {
	out := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		out = append(out, WindowInfo{ID: uint32(w.ID), Frame: w.Frame})
	}
	return out
}

func dividerInfos(groups []grid.EdgeGroup) []DividerInfo {
	out := make([]DividerInfo, 0, len(groups))
	for i, g := range groups {
		out = append(out, DividerInfo{
			Index:      i,
			Axis:       g.Axis.String(),
			Coordinate: g.Coordinate,
			SpanStart:  g.SpanStart,
			SpanEnd:    g.SpanEnd,
			Low:        ids(g.LowIDs),
			High:       ids(g.HighIDs),
		})
	}
	return out
}

func ids(in []grid.WindowID) []uint32 {
	out := make([]uint32, len(in))
	for i, id := range in {
		out[i] = uint32(id)
	}
	return out
}
