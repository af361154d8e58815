package input

import "github.com/1broseidon/framewm/internal/config"

// State is the left button's interaction state.
type State uint8

const (
	StateIdle     State = iota // button up, nothing pending
	StatePressed               // button down, not yet moved enough to drag
	StateClicking              // released without a drag during this update
	StateDragging              // moving, resizing or dragging inside content
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateClicking:
		return "clicking"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type edge uint8

const (
	edgeNone edge = iota
	edgeDown
	edgeUp
)

type transition struct {
	from  State
	edge  edge
	moved bool
}

// transitions lists every state change. Pairs that are absent keep the
// current state.
var transitions = map[transition]State{
	{StateIdle, edgeDown, false}: StatePressed,
	{StateIdle, edgeDown, true}:  StatePressed,

	{StatePressed, edgeNone, true}: StateDragging,
	{StatePressed, edgeUp, false}:  StateClicking,

	{StateDragging, edgeUp, false}: StateIdle,
	{StateDragging, edgeUp, true}:  StateIdle,

	{StateClicking, edgeNone, false}: StateIdle,
	{StateClicking, edgeNone, true}:  StateIdle,
	{StateClicking, edgeDown, false}: StatePressed,
	{StateClicking, edgeDown, true}:  StatePressed,
}

func next(s State, e edge, moved bool) State {
	if to, ok := transitions[transition{s, e, moved}]; ok {
		return to
	}
	return s
}

// DragPredicate decides whether a pointer offset from the press position
// starts a drag.
type DragPredicate func(dx, dy int) bool

// DragEitherAxis starts a drag once the pointer moved along any axis.
func DragEitherAxis(dx, dy int) bool { return dx != 0 || dy != 0 }

// DragBothAxes starts a drag only once the pointer moved along both axes.
func DragBothAxes(dx, dy int) bool { return dx != 0 && dy != 0 }

// PredicateFor maps the config value to a predicate, defaulting to
// DragEitherAxis.
func PredicateFor(t config.DragThreshold) DragPredicate {
	if t == config.DragBoth {
		return DragBothAxes
	}
	return DragEitherAxis
}
