package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/gridresize/internal/grid"
)

// DefaultPollInterval is 60 Hz.
const DefaultPollInterval = time.Second / 60

// PollerConfig holds configuration for the poll loop.
type PollerConfig struct {
	Interval time.Duration
	// Cascade keeps collinear dividers straight by moving sibling pairs too.
	Cascade        bool
	GroupTolerance float64
	// Lock, when set, is held for the duration of every tick.
	Lock sync.Locker
	// OnChange runs after a tick that changed the snapshot, with Lock held.
	OnChange func()
	Logger   *slog.Logger
}

// Poller watches every window in a snapshot and propagates frame drift to
// neighbours. It owns the snapshot while running.
type Poller struct {
	cfg  PollerConfig
	snap *grid.Snapshot
	io   FrameIO
}

// NewPoller creates a poller over snap.
func NewPoller(cfg PollerConfig, snap *grid.Snapshot, frames FrameIO) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.GroupTolerance <= 0 {
		cfg.GroupTolerance = grid.DefaultTolerance
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	return &Poller{cfg: cfg, snap: snap, io: frames}
}

// Run polls until ctx is cancelled (returning nil) or fewer than two windows
// remain (returning ErrTooFewWindows).
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.cfg.Logger.Debug("poller started", "interval", p.cfg.Interval, "windows", p.snap.Len())

	for {
		select {
		case <-ctx.Done():
			p.cfg.Logger.Debug("poller stopped")
			return nil
		case <-ticker.C:
			if err := p.lockedTick(); err != nil {
				p.cfg.Logger.Info("poller ended", "reason", err)
				return err
			}
		}
	}
}

func (p *Poller) lockedTick() error {
	if p.cfg.Lock != nil {
		p.cfg.Lock.Lock()
		defer p.cfg.Lock.Unlock()
	}
	changed, err := p.Tick()
	if changed && p.cfg.OnChange != nil {
		p.cfg.OnChange()
	}
	return err
}

// Tick runs one poll cycle and reports whether the snapshot changed.
//
// The cycle clears every adjusting flag, reads all live frames before
// computing anything, propagates drift from windows the engine did not move
// itself, writes the resulting frames and flags those windows as adjusting.
func (p *Poller) Tick() (bool, error) {
	s := p.snap
	s.ClearAdjusting()

	changed := false
	windows := s.Windows()
	live := make(map[grid.WindowID]grid.Window, len(windows))
	for _, w := range windows {
		frame, ok := p.io.ReadFrame(w.ID)
		if !ok {
			p.cfg.Logger.Debug("window vanished", "window", w.ID)
			s.Remove(w.ID)
			changed = true
			continue
		}
		live[w.ID] = grid.Window{ID: w.ID, Frame: frame}
	}
	if s.Len() < 2 {
		return changed, ErrTooFewWindows
	}

	for _, w := range windows {
		current, ok := live[w.ID]
		if !ok || s.IsAdjusting(w.ID) {
			continue
		}
		stored, ok := s.Frame(w.ID)
		if !ok || stored.ApproxEqual(current.Frame, grid.MovementThreshold) {
			continue
		}

		s.UpdateFrame(w.ID, current.Frame)
		changed = true

		var adjustments []grid.FrameAdjustment
		if p.cfg.Cascade {
			adjustments = grid.ComputeCascade(s, w.ID, stored, current.Frame, p.cfg.GroupTolerance)
		} else {
			adjustments = grid.ComputePropagation(s, w.ID, stored, current.Frame)
		}
		adjustments = grid.Coalesce(adjustments)
		for _, adj := range adjustments {
			p.io.WriteFrame(adj.Window, adj.Frame)
			s.UpdateFrame(adj.Window, adj.Frame)
			s.SetAdjusting(adj.Window, true)
		}
		if len(adjustments) > 0 {
			p.cfg.Logger.Debug("propagated resize", "window", w.ID, "adjustments", len(adjustments))
		}
	}

	if changed {
		s.Rebuild()
	}
	return changed, nil
}
