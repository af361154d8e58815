// Package event defines the raw and translated input events shared by the
// input machine, the widget tree and the hosts.
package event

import "strings"

// Key identifies a non-printable key. Printable input arrives as KeyRune with
// the character in KeyEvent.Rune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
)

var keyNames = map[Key]string{
	KeyEscape:    "Escape",
	KeyEnter:     "Return",
	KeyTab:       "Tab",
	KeyBackspace: "BackSpace",
	KeyDelete:    "Delete",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "Prior",
	KeyPageDown:  "Next",
	KeyF1:        "F1",
}

func (k Key) String() string {
	if k == KeyRune {
		return "Rune"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "None"
}

// KeyByName resolves a key name as written in shortcut sequences.
func KeyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return KeyNone, false
}

// Mod is a modifier bitmask.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// KeyEvent is a key transition. Rune is set for printable keys.
type KeyEvent struct {
	Key    Key
	Rune   rune
	Mods   Mod
	Down   bool
	Repeat bool
}

// Printable reports whether the event carries a character to insert.
func (e KeyEvent) Printable() bool {
	return e.Key == KeyRune && e.Rune != 0 && e.Mods&(ModCtrl|ModAlt|ModSuper) == 0
}

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
	buttonCount
)

// ButtonCount is the number of tracked buttons.
const ButtonCount = int(buttonCount)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	default:
		return "unknown"
	}
}

// IsWheel reports whether b is a scroll wheel notch rather than a held button.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown
}

// MouseEvent is a button transition at an absolute position.
type MouseEvent struct {
	Button Button
	Down   bool
	X, Y   int
	Mods   Mod
}

// PointerAction is what a widget sees for a pointer interaction translated
// into its local coordinate space.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerDrag
	PointerRelease
	PointerClick
	PointerScroll
)

func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerDrag:
		return "drag"
	case PointerRelease:
		return "release"
	case PointerClick:
		return "click"
	case PointerScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Pointer is a pointer event in a widget's local coordinates.
type Pointer struct {
	Action PointerAction
	Button Button
	X, Y   int
	// StartX/StartY hold the press position for drags, in the same space.
	StartX, StartY int
	// Scroll is -1 for wheel up and +1 for wheel down.
	Scroll int
	Mods   Mod
}

// Translate returns p shifted into a child's space at offset (dx, dy).
func (p Pointer) Translate(dx, dy int) Pointer {
	p.X -= dx
	p.Y -= dy
	p.StartX -= dx
	p.StartY -= dy
	return p
}

// Hit is the point used to pick the receiving widget: the press position
// for drags and releases, so a drag stays with the widget it started on.
func (p Pointer) Hit() (x, y int) {
	if p.Action == PointerDrag || p.Action == PointerRelease {
		return p.StartX, p.StartY
	}
	return p.X, p.Y
}
