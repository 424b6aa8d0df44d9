package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/gridresize/internal/dragresize"
	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/grid"
)

// Config holds the engine settings for a Manager.
type Config struct {
	Grid           grid.Options
	GroupTolerance float64
	Drag           dragresize.Options
	PollInterval   time.Duration
	Cascade        bool
	Logger         *slog.Logger
}

// Observer is told about layout changes so it can redraw divider handles.
// Methods are called with the manager's lock held and must not call back
// into the Manager.
type Observer interface {
	DividersChanged(groups []grid.EdgeGroup, screen geometry.Rect)
	SnapChanged(group int, snapped bool)
	SessionEnded()
}

// Manager owns the snapshot of one grid session and serialises the poll loop
// with interactive drags: a drag stops polling before it starts and polling
// resumes from a fresh snapshot when the drag ends.
type Manager struct {
	cfg      Config
	source   WindowSource
	frames   FrameIO
	observer Observer
	logger   *slog.Logger

	mu        sync.Mutex
	id        string
	ctx       context.Context
	snap      *grid.Snapshot
	groups    []grid.EdgeGroup
	screen    geometry.Rect
	pollStop  context.CancelFunc
	pollDone  chan struct{}
	drag      *dragresize.Controller
	dragGroup int
	snapped   bool
}

// NewManager creates an idle manager. observer may be nil.
func NewManager(cfg Config, source WindowSource, frames FrameIO, observer Observer) *Manager {
	if cfg.GroupTolerance <= 0 {
		cfg.GroupTolerance = grid.DefaultTolerance
	}
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Manager{
		cfg:       cfg,
		source:    source,
		frames:    frames,
		observer:  observer,
		logger:    logger,
		drag:      dragresize.New(cfg.Drag),
		dragGroup: -1,
	}
}

// SetConfig replaces the engine settings used by the next session.
func (m *Manager) SetConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.GroupTolerance <= 0 {
		cfg.GroupTolerance = grid.DefaultTolerance
	}
	if cfg.Logger == nil {
		cfg.Logger = m.logger
	}
	m.cfg = cfg
	m.logger = cfg.Logger
	if !m.drag.Active() {
		m.drag = dragresize.New(cfg.Drag)
	}
}

// Active reports whether a grid session is running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap != nil
}

// SessionID returns the id of the running session, or "" when idle.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// Dividers returns the draggable dividers of the current session.
func (m *Manager) Dividers() []grid.EdgeGroup {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]grid.EdgeGroup, len(m.groups))
	copy(out, m.groups)
	return out
}

// Start lists the candidate windows, builds the session snapshot and starts
// polling. screen is the area snap fractions are measured against.
func (m *Manager) Start(ctx context.Context, screen geometry.Rect) error {
	windows, err := m.source.ListCandidateWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) < 2 {
		return ErrTooFewWindows
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap != nil {
		return nil
	}

	m.id = uuid.NewString()
	m.ctx = ctx
	m.screen = screen
	m.snap = grid.Build(windows, m.cfg.Grid)
	m.regroupLocked()
	m.logger.Info("grid session started",
		"session", m.id,
		"windows", m.snap.Len(),
		"dividers", len(m.groups))
	m.startPollingLocked()
	return nil
}

// Stop ends the session and discards all snapshot state.
func (m *Manager) Stop() {
	m.mu.Lock()
	done := m.teardownLocked()
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

// BeginDrag stops polling and arms a drag on the divider at index.
func (m *Manager) BeginDrag(index int) error {
	m.mu.Lock()
	if m.snap == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	done := m.stopPollingLocked()
	m.mu.Unlock()
	if done != nil {
		<-done
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return ErrNoSession
	}
	if index < 0 || index >= len(m.groups) {
		m.startPollingLocked()
		return fmt.Errorf("divider %d out of range (have %d)", index, len(m.groups))
	}
	if err := m.drag.Begin(m.groups[index], m.frames, m.screen); err != nil {
		m.startPollingLocked()
		return err
	}
	m.dragGroup = index
	m.logger.Debug("drag armed", "session", m.id, "divider", index, "axis", m.groups[index].Axis)
	return nil
}

// UpdateDrag applies the pointer displacement since BeginDrag and writes
// every resulting frame. Windows that disappeared are dropped from the drag;
// if a whole side of the divider is gone the drag ends as if EndDrag had been
// called and an empty result is returned.
func (m *Manager) UpdateDrag(raw geometry.Point) dragresize.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.drag.Active() {
		return dragresize.Result{}
	}
	res := m.drag.Update(raw)
	if dropped, viable := m.dropVanishedLocked(res.Adjustments); dropped {
		if !viable {
			m.logger.Info("drag ended: a side of the divider has no windows left", "session", m.id)
			m.drag.End()
			if err := m.finishDragLocked(nil); err != nil {
				m.logger.Debug("drag teardown", "session", m.id, "error", err)
			}
			return dragresize.Result{}
		}
		// The clamp depends on every participant, so recompute without them.
		res = m.drag.Update(raw)
	}
	m.writeLocked(res.Adjustments)
	if res.SnapEntered {
		m.logger.Debug("divider snapped", "session", m.id, "fraction", res.SnapFraction)
	}
	if res.Snapped != m.snapped {
		m.snapped = res.Snapped
		if m.observer != nil {
			m.observer.SnapChanged(m.dragGroup, res.Snapped)
		}
	}
	return res
}

// dropVanishedLocked forgets every participant that can no longer be read.
func (m *Manager) dropVanishedLocked(adjustments []grid.FrameAdjustment) (dropped, viable bool) {
	viable = true
	for _, adj := range adjustments {
		if _, ok := m.frames.ReadFrame(adj.Window); ok {
			continue
		}
		m.logger.Debug("drag participant vanished", "session", m.id, "window", adj.Window)
		dropped = true
		viable = m.drag.Forget(adj.Window)
	}
	return dropped, viable
}

// EndDrag finishes the drag, rebuilds the snapshot from live frames and
// resumes polling.
func (m *Manager) EndDrag() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.drag.Active() {
		return nil
	}
	return m.finishDragLocked(m.drag.End())
}

func (m *Manager) finishDragLocked(final []grid.FrameAdjustment) error {
	m.writeLocked(final)
	m.dragGroup = -1
	if m.snapped && m.observer != nil {
		m.observer.SnapChanged(m.dragGroup, false)
	}
	m.snapped = false
	if m.snap == nil {
		return ErrNoSession
	}

	var windows []grid.Window
	for _, w := range m.snap.Windows() {
		frame, ok := m.frames.ReadFrame(w.ID)
		if !ok {
			continue
		}
		windows = append(windows, grid.Window{ID: w.ID, Frame: frame})
	}
	if len(windows) < 2 {
		m.teardownLocked()
		return ErrTooFewWindows
	}
	m.snap = grid.Build(windows, m.cfg.Grid)
	m.regroupLocked()
	m.startPollingLocked()
	return nil
}

func (m *Manager) writeLocked(adjustments []grid.FrameAdjustment) {
	for _, adj := range adjustments {
		m.frames.WriteFrame(adj.Window, adj.Frame)
	}
}

func (m *Manager) regroupLocked() {
	m.groups = grid.GroupEdges(m.snap.Edges(), m.cfg.GroupTolerance)
	if m.observer != nil {
		m.observer.DividersChanged(m.groups, m.screen)
	}
}

func (m *Manager) startPollingLocked() {
	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan struct{})
	snap := m.snap
	poller := NewPoller(PollerConfig{
		Interval:       m.cfg.PollInterval,
		Cascade:        m.cfg.Cascade,
		GroupTolerance: m.cfg.GroupTolerance,
		Lock:           &m.mu,
		OnChange: func() {
			if m.snap == snap {
				m.regroupLocked()
			}
		},
		Logger: m.logger.With("session", m.id),
	}, snap, m.frames)

	m.pollStop = cancel
	m.pollDone = done
	go func() {
		defer close(done)
		err := poller.Run(ctx)
		if errors.Is(err, ErrTooFewWindows) {
			m.mu.Lock()
			if m.snap == snap {
				m.teardownLocked()
			}
			m.mu.Unlock()
		}
	}()
}

// stopPollingLocked cancels the poll loop and returns a channel that closes
// once it has exited. The caller must release the lock before waiting.
func (m *Manager) stopPollingLocked() chan struct{} {
	if m.pollStop == nil {
		return nil
	}
	m.pollStop()
	done := m.pollDone
	m.pollStop = nil
	m.pollDone = nil
	return done
}

func (m *Manager) teardownLocked() chan struct{} {
	if m.snap == nil {
		return nil
	}
	done := m.stopPollingLocked()
	m.drag.End()
	m.dragGroup = -1
	m.logger.Info("grid session ended", "session", m.id)
	m.snap = nil
	m.groups = nil
	m.id = ""
	if m.observer != nil {
		m.observer.SessionEnded()
	}
	return done
}
