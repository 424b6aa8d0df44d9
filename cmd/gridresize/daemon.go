package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/gridresize/internal/config"
	"github.com/1broseidon/gridresize/internal/dragresize"
	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/handles"
	"github.com/1broseidon/gridresize/internal/hotkeys"
	"github.com/1broseidon/gridresize/internal/ipc"
	"github.com/1broseidon/gridresize/internal/platform"
	"github.com/1broseidon/gridresize/internal/runtimepath"
	"github.com/1broseidon/gridresize/internal/session"
	"github.com/1broseidon/gridresize/internal/tiling"
)

// daemon ties hotkeys, divider handles and the control socket to the
// session manager and tiler.
type daemon struct {
	ctx        context.Context
	configPath string
	charm      *log.Logger
	logger     *slog.Logger
	desktop    *platform.Desktop
	tiler      *tiling.Tiler
	manager    *session.Manager
	overlay    *handles.Overlay
	keys       *hotkeys.Handler

	// Serialises hotkey and IPC actions.
	mu sync.Mutex
}

var (
	_ hotkeys.Actions = (*daemon)(nil)
	_ handles.Driver  = (*daemon)(nil)
	_ ipc.Handler     = (*daemon)(nil)
)

func runDaemon() int {
	path, err := config.DefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	charm, logger := newLogger(cfg.LogLevel)

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to X server", "error", err)
		return 1
	}
	defer backend.Disconnect()
	conn := backend.Connection()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := &daemon{
		ctx:        ctx,
		configPath: path,
		charm:      charm,
		logger:     logger,
		desktop:    platform.NewDesktop(backend, int(cfg.MinWindowSize), logger),
		tiler:      tiling.NewTiler(backend, cfg.GapSize, logger),
	}
	style, err := handleStyle(cfg)
	if err != nil {
		logger.Error("invalid handle style", "error", err)
		return 1
	}
	d.overlay = handles.NewOverlay(conn.XUtil, d, style, logger)
	d.manager = session.NewManager(sessionConfig(cfg, logger), d.desktop, d.desktop, d.overlay)

	d.keys = hotkeys.NewHandler(conn.XUtil, d, logger)
	if err := d.keys.Bind(cfg); err != nil {
		logger.Error("failed to bind hotkeys", "error", err)
		return 1
	}

	socket, err := runtimepath.SocketPath()
	if err != nil {
		logger.Error("failed to resolve control socket", "error", err)
		return 1
	}
	control := ipc.NewServer(socket, d, logger)
	if err := control.Start(); err != nil {
		logger.Error("failed to start control socket", "error", err)
		return 1
	}

	logger.Info("gridresize daemon started",
		"config", path,
		"session_hotkey", cfg.SessionHotkey,
		"poll_hz", cfg.PollHz,
		"cascade", cfg.Cascade)

	var quitOnce sync.Once
	quit := func() {
		quitOnce.Do(func() {
			control.Stop()
			d.manager.Stop()
			d.overlay.Cleanup()
			conn.Quit()
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conn.EventLoop()
		if gctx.Err() == nil {
			return errors.New("X event loop exited unexpectedly")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		quit()
		return nil
	})
	g.Go(func() error {
		err := config.Watch(gctx, path, func(res *config.LoadResult, err error) {
			if err != nil {
				logger.Warn("config reload failed; keeping previous settings", "error", err)
				return
			}
			d.apply(res.Config)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watch stopped", "error", err)
		}
		return nil
	})

	err = g.Wait()
	quit()
	if err != nil {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	logger.Info("gridresize daemon stopped")
	return 0
}

// apply pushes a freshly loaded config into every component. Engine options
// reach the running session when it next rebuilds.
func (d *daemon) apply(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.charm.SetLevel(parseLevel(cfg.LogLevel))
	d.manager.SetConfig(sessionConfig(cfg, d.logger))
	d.tiler.SetGap(cfg.GapSize)
	if style, err := handleStyle(cfg); err == nil {
		d.overlay.SetStyle(style)
	}
	if err := d.keys.Bind(cfg); err != nil {
		d.logger.Warn("failed to rebind hotkeys", "error", err)
	}
	d.logger.Info("configuration reloaded")
}

// ToggleSession starts a grid session on the active display, or ends the
// running one.
func (d *daemon) ToggleSession() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.manager.Active() {
		d.manager.Stop()
		return
	}
	if err := d.startSessionLocked(); err != nil {
		d.logSessionError(err)
	}
}

func (d *daemon) startSessionLocked() error {
	screen, err := d.desktop.Screen()
	if err != nil {
		return err
	}
	return d.manager.Start(d.ctx, screen)
}

func (d *daemon) logSessionError(err error) {
	if errors.Is(err, session.ErrTooFewWindows) {
		d.logger.Info("grid session needs at least two windows")
		return
	}
	d.logger.Warn("failed to start grid session", "error", err)
}

// Tile applies preset from a hotkey.
func (d *daemon) Tile(preset tiling.Preset) {
	if _, err := d.tile(preset); err != nil {
		d.logger.Warn("tiling failed", "preset", preset, "error", err)
	}
}

// tile applies preset. A running session is restarted so it picks up the
// new layout.
func (d *daemon) tile(preset tiling.Preset) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return restarting(d, func() (int, error) { return d.tiler.Tile(preset) })
}

// Undo restores the geometry from before the last Tile.
func (d *daemon) Undo() {
	err := d.UndoTile()
	switch {
	case errors.Is(err, tiling.ErrNothingToUndo):
		d.logger.Info("no tile to undo")
	case err != nil:
		d.logger.Warn("undo failed", "error", err)
	}
}

// restarting runs fn with any running session stopped, then starts a fresh
// session over the new layout.
func restarting[T any](d *daemon, fn func() (T, error)) (T, error) {
	active := d.manager.Active()
	if active {
		d.manager.Stop()
	}
	out, err := fn()
	if active {
		if serr := d.startSessionLocked(); serr != nil {
			d.logSessionError(serr)
		}
	}
	return out, err
}

func (d *daemon) SessionStatus() ipc.StatusData {
	return ipc.StatusData{
		SessionActive: d.manager.Active(),
		SessionID:     d.manager.SessionID(),
		Dividers:      len(d.manager.Dividers()),
	}
}

func (d *daemon) StartSession() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.manager.Active() {
		return nil
	}
	return d.startSessionLocked()
}

func (d *daemon) StopSession() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manager.Stop()
}

func (d *daemon) TilePreset(name string) (int, error) {
	preset, err := tiling.ParsePreset(name)
	if err != nil {
		return 0, err
	}
	return d.tile(preset)
}

func (d *daemon) UndoTile() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := restarting(d, func() (struct{}, error) { return struct{}{}, d.tiler.Undo() })
	return err
}

func (d *daemon) ReloadConfig() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	d.apply(res.Config)
	return nil
}

func (d *daemon) BeginDrag(index int) error {
	return d.manager.BeginDrag(index)
}

func (d *daemon) UpdateDrag(delta geometry.Point) dragresize.Result {
	return d.manager.UpdateDrag(delta)
}

func (d *daemon) EndDrag() error {
	err := d.manager.EndDrag()
	if errors.Is(err, session.ErrTooFewWindows) {
		d.logger.Info("grid session ended: fewer than two windows remain")
		return nil
	}
	return err
}

func sessionConfig(cfg *config.Config, logger *slog.Logger) session.Config {
	return session.Config{
		Grid:           cfg.GridOptions(),
		GroupTolerance: cfg.GroupTolerance,
		Drag:           cfg.DragOptions(),
		PollInterval:   cfg.PollInterval(),
		Cascade:        cfg.Cascade,
		Logger:         logger,
	}
}

func handleStyle(cfg *config.Config) (handles.Style, error) {
	color, err := config.ParseColor(cfg.HandleColor)
	if err != nil {
		return handles.Style{}, err
	}
	snap, err := config.ParseColor(cfg.HandleSnapColor)
	if err != nil {
		return handles.Style{}, err
	}
	return handles.Style{Thickness: cfg.HandleThickness, Color: color, SnapColor: snap}, nil
}
