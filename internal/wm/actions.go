package wm

import (
	"fmt"
	"unicode"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/movemode"
)

// Action names accepted by RunAction, matching the shortcuts section of the
// config.
const (
	ActionCycleFocus        = "cycle_focus"
	ActionCycleFocusReverse = "cycle_focus_reverse"
	ActionCloseFrame        = "close_frame"
	ActionNewFrame          = "new_frame"
	ActionTileFrames        = "tile_frames"
	ActionCycleLayout       = "cycle_layout"
	ActionUndoTile          = "undo_tile"
	ActionMoveMode          = "move_mode"
	ActionFocusLeft         = "focus_left"
	ActionFocusRight        = "focus_right"
	ActionFocusUp           = "focus_up"
	ActionFocusDown         = "focus_down"
)

var focusDirections = map[string]movemode.Direction{
	ActionFocusLeft:  movemode.DirLeft,
	ActionFocusRight: movemode.DirRight,
	ActionFocusUp:    movemode.DirUp,
	ActionFocusDown:  movemode.DirDown,
}

type keyID struct {
	key  event.Key
	char rune
}

func idOf(e event.KeyEvent) keyID {
	return keyID{key: e.Key, char: unicode.ToLower(e.Rune)}
}

// handleShortcut gets every key before the focused frame does. The release
// of a key whose press was consumed here is consumed too.
func (w *WM) handleShortcut(e event.KeyEvent) bool {
	id := idOf(e)
	if !e.Down {
		if _, ok := w.held[id]; ok {
			delete(w.held, id)
			return true
		}
	}
	if !w.shortcut(e) {
		return false
	}
	if e.Down {
		w.held[id] = struct{}{}
	}
	return true
}

// shortcut lets move mode swallow the keyboard while active and reserves
// Escape for clearing the modal frame.
func (w *WM) shortcut(e event.KeyEvent) bool {
	if w.move.Active() {
		return w.move.HandleKey(e)
	}
	if modal := w.stack.Modal(); modal != nil && e.Key == event.KeyEscape && w.cfg.Input.EscapeClearsModal {
		if e.Down {
			w.CloseFrame(modal)
		}
		return true
	}
	if !e.Down {
		return false
	}
	for _, b := range w.shortcuts {
		if !b.shortcut.Matches(e) {
			continue
		}
		if err := w.RunAction(b.action); err != nil {
			w.logger.Warn("shortcut failed", "action", b.action, "error", err)
		}
		return true
	}
	return false
}

// RunAction performs a named window manager action.
func (w *WM) RunAction(action string) error {
	w.logger.Debug("action", "name", action)
	switch action {
	case ActionCycleFocus:
		w.stack.Cycle(w.owner, 1)
	case ActionCycleFocusReverse:
		w.stack.Cycle(w.owner, -1)
	case ActionCloseFrame:
		f := w.stack.Focused()
		if f == nil || !f.Closable() {
			return nil
		}
		w.CloseFrame(f)
	case ActionNewFrame:
		if w.NewFrame() == nil {
			return fmt.Errorf("no frame factory configured")
		}
	case ActionTileFrames:
		_, err := w.Tile()
		return err
	case ActionCycleLayout:
		_, err := w.CycleLayout(1)
		return err
	case ActionUndoTile:
		w.UndoTile()
	case ActionMoveMode:
		return w.move.Enter()
	default:
		dir, ok := focusDirections[action]
		if !ok {
			return fmt.Errorf("unknown action %q", action)
		}
		w.FocusDirection(dir)
	}
	return nil
}
