package hotkeys

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/gridresize/internal/config"
	"github.com/1broseidon/gridresize/internal/tiling"
)

// Actions are what the global shortcuts trigger.
type Actions interface {
	ToggleSession()
	Tile(preset tiling.Preset)
	Undo()
}

// Binding pairs a key sequence with a named action.
type Binding struct {
	Keys   string
	Action string
	Preset tiling.Preset
}

const (
	ActionSession = "session"
	ActionUndo    = "undo"
	ActionTile    = "tile"
)

// Bindings lists the shortcuts cfg asks for: the session toggle first, then
// undo, then tile presets in name order.
func Bindings(cfg *config.Config) ([]Binding, error) {
	var out []Binding
	if cfg.SessionHotkey != "" {
		out = append(out, Binding{Keys: cfg.SessionHotkey, Action: ActionSession})
	}
	if cfg.UndoHotkey != "" {
		out = append(out, Binding{Keys: cfg.UndoHotkey, Action: ActionUndo})
	}

	names := make([]string, 0, len(cfg.TileHotkeys))
	for name := range cfg.TileHotkeys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		preset, err := tiling.ParsePreset(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Keys: cfg.TileHotkeys[name], Action: ActionTile, Preset: preset})
	}

	seen := make(map[string]string, len(out))
	for _, b := range out {
		label := b.Action
		if b.Preset != "" {
			label = string(b.Preset)
		}
		if prev, ok := seen[b.Keys]; ok {
			return nil, fmt.Errorf("hotkey %s is bound to both %s and %s", b.Keys, prev, label)
		}
		seen[b.Keys] = label
	}
	return out, nil
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(xu *xgbutil.XUtil, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{
		xu:      xu,
		root:    xu.RootWin(),
		actions: actions,
		logger:  logger,
	}
}

// Bind replaces every shortcut on the root window with the ones in cfg.
func (h *Handler) Bind(cfg *config.Config) error {
	bindings, err := Bindings(cfg)
	if err != nil {
		return err
	}
	keybind.Detach(h.xu, h.root)

	for _, b := range bindings {
		b := b
		if err := h.RegisterFunc(b.Keys, func() { h.dispatch(b) }); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.Action, b.Keys, err)
		}
		h.logger.Debug("hotkey bound", "keys", b.Keys, "action", b.Action, "preset", b.Preset)
	}
	return nil
}

func (h *Handler) dispatch(b Binding) {
	h.logger.Debug("hotkey triggered", "keys", b.Keys, "action", b.Action)
	switch b.Action {
	case ActionSession:
		h.actions.ToggleSession()
	case ActionUndo:
		h.actions.Undo()
	case ActionTile:
		h.actions.Tile(b.Preset)
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes shortcuts fire regardless of CapsLock, NumLock
// and ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = lockCombinations(base)
}

// lockCombinations returns every OR-combination of masks, including zero.
func lockCombinations(masks []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(masks))
	for subset := 0; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
