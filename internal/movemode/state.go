package movemode

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
)

// Phase represents the current phase of move mode
type Phase int

const (
	// PhaseInactive means move mode is not active
	PhaseInactive Phase = iota
	// PhaseSelecting means the user is choosing which frame to move
	PhaseSelecting
	// PhaseGrabbed means a frame is grabbed and arrows move or resize it
	PhaseGrabbed
	// PhaseConfirmClose waits for Enter before closing the selected frame
	PhaseConfirmClose
)

func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseSelecting:
		return "selecting"
	case PhaseGrabbed:
		return "grabbed"
	case PhaseConfirmClose:
		return "confirm-close"
	default:
		return "unknown"
	}
}

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionFromKey maps arrow keys to directions.
func DirectionFromKey(k event.Key) (Direction, bool) {
	switch k {
	case event.KeyUp:
		return DirUp, true
	case event.KeyDown:
		return DirDown, true
	case event.KeyLeft:
		return DirLeft, true
	case event.KeyRight:
		return DirRight, true
	}
	return 0, false
}

// Action is a single-key command available while selecting.
type Action int

const (
	ActionCloseSelected Action = iota
	ActionNewFrame
)

func (a Action) String() string {
	switch a {
	case ActionCloseSelected:
		return "close"
	case ActionNewFrame:
		return "new"
	default:
		return "unknown"
	}
}

func actionFromRune(r rune) (Action, bool) {
	switch r {
	case 'd', 'D', 'x', 'X':
		return ActionCloseSelected, true
	case 'n', 'N':
		return ActionNewFrame, true
	}
	return 0, false
}

// State holds the current move mode state
type State struct {
	Phase         Phase
	SelectedIndex int         // index into Frames
	Frames        []uint64    // selectable frame IDs, topmost first
	Rects         []geom.Rect // bounds of Frames at the last refresh
	Grabbed       uint64      // ID of the grabbed frame, 0 if none
	Original      geom.Rect   // bounds of the grabbed frame before the grab
}

func NewState() *State {
	return &State{Phase: PhaseInactive}
}

// Reset resets the state to inactive
func (s *State) Reset() {
	s.Phase = PhaseInactive
	s.SelectedIndex = 0
	s.Frames = nil
	s.Rects = nil
	s.Grabbed = 0
	s.Original = geom.Rect{}
}

// SelectedID returns the highlighted frame, or 0 if none.
func (s *State) SelectedID() uint64 {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Frames) {
		return 0
	}
	return s.Frames[s.SelectedIndex]
}

// SelectedRect returns the bounds of the highlighted frame.
func (s *State) SelectedRect() (geom.Rect, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Rects) {
		return geom.Rect{}, false
	}
	return s.Rects[s.SelectedIndex], true
}
