// Package movemode implements keyboard-driven frame selection, movement and
// resizing, plus directional focus between frames.
package movemode

import (
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
)

// DefaultTimeout is used when the configured timeout is zero.
const DefaultTimeout = 10 * time.Second

var (
	ErrNoFrames    = errors.New("move mode: no frames")
	ErrModalActive = errors.New("move mode: a modal frame is active")
)

// Mode is the move mode controller. It is driven from the window manager's
// update loop and, like the stack it edits, has a single owner.
type Mode struct {
	owner   *frame.Owner
	stack   *frame.Stack
	state   *State
	step    int
	timeout time.Duration
	expires time.Time
	logger  *slog.Logger

	// Now is the clock used for the idle timeout.
	Now func() time.Time
	// OnClose is asked to close a frame confirmed for closing.
	OnClose func(f *frame.Frame)
	// OnNewFrame is asked to create a frame.
	OnNewFrame func()
	// OnCommit fires when a grabbed frame is released at new bounds.
	OnCommit func(f *frame.Frame, from geom.Rect)
}

func New(o *frame.Owner, stack *frame.Stack, cfg *config.Config, logger *slog.Logger) *Mode {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mode{
		owner:  o,
		stack:  stack,
		state:  NewState(),
		logger: logger,
		Now:    time.Now,
	}
	m.UpdateConfig(cfg)
	return m
}

// UpdateConfig applies the move step and idle timeout.
func (m *Mode) UpdateConfig(cfg *config.Config) {
	m.step = cfg.Input.MoveStep
	if m.step <= 0 {
		m.step = 1
	}
	m.timeout = DefaultTimeout
	if cfg.Input.MoveModeTimeout > 0 {
		m.timeout = time.Duration(cfg.Input.MoveModeTimeout) * time.Second
	}
}

func (m *Mode) Active() bool { return m.state.Phase != PhaseInactive }

func (m *Mode) Phase() Phase { return m.state.Phase }

// Selected returns the highlighted frame while the mode is active.
func (m *Mode) Selected() *frame.Frame {
	if !m.Active() {
		return nil
	}
	return m.stack.ByID(m.state.SelectedID())
}

// Enter starts selecting, with the focused frame highlighted.
func (m *Mode) Enter() error {
	if m.Active() {
		return nil
	}
	if m.stack.Modal() != nil {
		return ErrModalActive
	}
	if m.stack.Len() == 0 {
		return ErrNoFrames
	}

	m.state.Reset()
	m.state.Phase = PhaseSelecting
	m.refresh()
	if f := m.stack.Focused(); f != nil {
		m.selectID(f.ID())
	}
	m.touch()
	m.logger.Debug("move mode entered", "frames", len(m.state.Frames))
	return nil
}

// Exit leaves move mode, keeping any geometry already applied.
func (m *Mode) Exit() {
	if !m.Active() {
		return
	}
	m.state.Reset()
	m.logger.Debug("move mode exited")
}

// Tick exits the mode once it has been idle longer than the timeout.
func (m *Mode) Tick(now time.Time) {
	if !m.Active() || now.Before(m.expires) {
		return
	}
	m.logger.Info("move mode timed out")
	if m.state.Phase == PhaseGrabbed {
		m.restoreGrabbed()
	}
	m.Exit()
}

// HandleKey consumes every key while the mode is active.
func (m *Mode) HandleKey(e event.KeyEvent) bool {
	if !m.Active() {
		return false
	}
	if !e.Down {
		return true
	}
	m.touch()
	m.refresh()
	if !m.Active() {
		return true
	}

	switch e.Key {
	case event.KeyEscape:
		m.handleCancel()
	case event.KeyEnter:
		m.handleConfirm()
	case event.KeyTab:
		dir := DirRight
		if e.Mods&event.ModShift != 0 {
			dir = DirLeft
		}
		if m.state.Phase == PhaseSelecting {
			m.state.SelectedIndex = NavigateCycle(m.state.SelectedIndex, dir, len(m.state.Frames))
		}
	case event.KeyRune:
		if action, ok := actionFromRune(e.Rune); ok {
			m.handleAction(action)
		}
	default:
		if dir, ok := DirectionFromKey(e.Key); ok {
			m.handleArrow(dir, e.Mods&event.ModShift != 0)
		}
	}
	return true
}

func (m *Mode) handleArrow(dir Direction, shift bool) {
	switch m.state.Phase {
	case PhaseSelecting:
		m.state.SelectedIndex = NavigateSpatial(m.state.SelectedIndex, dir, m.state.Rects)

	case PhaseConfirmClose:
		// Keep the close target stable until Enter/Escape.

	case PhaseGrabbed:
		f := m.stack.ByID(m.state.Grabbed)
		if f == nil {
			return
		}
		resize := shift
		if resize && !f.Resizable() {
			return
		}
		f.SetBounds(m.owner, Nudge(f.Bounds(), dir, m.step, resize))
		m.refresh()
	}
}

func (m *Mode) handleConfirm() {
	switch m.state.Phase {
	case PhaseSelecting:
		f := m.stack.ByID(m.state.SelectedID())
		if f == nil {
			return
		}
		m.stack.Foreground(m.owner, f)
		m.state.Phase = PhaseGrabbed
		m.state.Grabbed = f.ID()
		m.state.Original = f.Bounds()
		m.refresh()
		m.logger.Debug("move mode grabbed frame", "frame", f.ID())

	case PhaseGrabbed:
		f := m.stack.ByID(m.state.Grabbed)
		from := m.state.Original
		m.Exit()
		if f != nil && f.Bounds() != from && m.OnCommit != nil {
			m.OnCommit(f, from)
		}

	case PhaseConfirmClose:
		f := m.stack.ByID(m.state.SelectedID())
		m.state.Phase = PhaseSelecting
		if f != nil && m.OnClose != nil {
			m.OnClose(f)
		}
		m.refresh()
	}
}

func (m *Mode) handleCancel() {
	switch m.state.Phase {
	case PhaseConfirmClose:
		m.state.Phase = PhaseSelecting
	case PhaseGrabbed:
		m.restoreGrabbed()
		m.Exit()
	default:
		m.Exit()
	}
}

func (m *Mode) handleAction(action Action) {
	if m.state.Phase != PhaseSelecting {
		return
	}
	switch action {
	case ActionCloseSelected:
		f := m.stack.ByID(m.state.SelectedID())
		if f == nil || !f.Closable() {
			return
		}
		m.state.Phase = PhaseConfirmClose
	case ActionNewFrame:
		if m.OnNewFrame == nil {
			return
		}
		m.OnNewFrame()
		m.refresh()
		if f := m.stack.Focused(); f != nil {
			m.selectID(f.ID())
		}
	}
}

func (m *Mode) restoreGrabbed() {
	if f := m.stack.ByID(m.state.Grabbed); f != nil {
		f.SetBounds(m.owner, m.state.Original)
	}
}

// refresh re-reads frames from the stack, keeping the selection on the same
// frame when it still exists. The mode exits when nothing is left to select
// or the grabbed frame disappeared.
func (m *Mode) refresh() {
	selected := m.state.SelectedID()
	frames := m.stack.FrontToBack()

	m.state.Frames = m.state.Frames[:0]
	m.state.Rects = m.state.Rects[:0]
	for _, f := range frames {
		m.state.Frames = append(m.state.Frames, f.ID())
		m.state.Rects = append(m.state.Rects, f.Bounds())
	}

	if len(m.state.Frames) == 0 || m.stack.Modal() != nil {
		m.Exit()
		return
	}
	if m.state.Phase == PhaseGrabbed && m.stack.ByID(m.state.Grabbed) == nil {
		m.Exit()
		return
	}
	if m.state.Phase == PhaseGrabbed {
		selected = m.state.Grabbed
	}
	if !m.selectID(selected) && m.state.SelectedIndex >= len(m.state.Frames) {
		m.state.SelectedIndex = len(m.state.Frames) - 1
	}
}

func (m *Mode) selectID(id uint64) bool {
	for i, fid := range m.state.Frames {
		if fid == id {
			m.state.SelectedIndex = i
			return true
		}
	}
	return false
}

func (m *Mode) touch() {
	m.expires = m.Now().Add(m.timeout)
}

// Neighbor returns the frame next to from in direction dir. With no
// starting frame it picks the frame closest to (px, py).
func Neighbor(frames []*frame.Frame, from *frame.Frame, dir Direction, px, py int) *frame.Frame {
	if len(frames) == 0 {
		return nil
	}
	rects := make([]geom.Rect, len(frames))
	current := -1
	for i, f := range frames {
		rects[i] = f.Bounds()
		if f == from {
			current = i
		}
	}
	if current < 0 {
		return frames[FindClosest(px, py, rects)]
	}
	if len(frames) == 1 {
		return from
	}
	return frames[NavigateSpatial(current, dir, rects)]
}
