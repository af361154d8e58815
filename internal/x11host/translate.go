package x11host

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// keysymKeys maps keysym names as returned by keybind.LookupString.
var keysymKeys = map[string]event.Key{
	"Escape":    event.KeyEscape,
	"Return":    event.KeyEnter,
	"KP_Enter":  event.KeyEnter,
	"Tab":       event.KeyTab,
	"BackSpace": event.KeyBackspace,
	"Delete":    event.KeyDelete,
	"Left":      event.KeyLeft,
	"Right":     event.KeyRight,
	"Up":        event.KeyUp,
	"Down":      event.KeyDown,
	"Home":      event.KeyHome,
	"End":       event.KeyEnd,
	"Prior":     event.KeyPageUp,
	"Next":      event.KeyPageDown,
	"F1":        event.KeyF1,
}

func modsFrom(state uint16) event.Mod {
	var m event.Mod
	if state&xproto.ModMaskShift != 0 {
		m |= event.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		m |= event.ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		m |= event.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		m |= event.ModSuper
	}
	return m
}

// keyFromName turns a keysym name into a key event. Modifier keys and
// unknown keysyms report false.
func keyFromName(name string, state uint16) (event.KeyEvent, bool) {
	mods := modsFrom(state)
	switch name {
	case "":
		return event.KeyEvent{}, false
	case "ISO_Left_Tab":
		return event.KeyEvent{Key: event.KeyTab, Mods: mods | event.ModShift}, true
	case "space":
		return event.KeyEvent{Key: event.KeyRune, Rune: ' ', Mods: mods}, true
	}
	if k, ok := keysymKeys[name]; ok {
		return event.KeyEvent{Key: k, Mods: mods}, true
	}
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError {
		return event.KeyEvent{Key: event.KeyRune, Rune: r, Mods: mods}, true
	}
	return event.KeyEvent{}, false
}

// buttonFrom maps core protocol buttons; 4 and 5 are the wheel.
func buttonFrom(detail byte) (event.Button, bool) {
	switch detail {
	case 1:
		return event.ButtonLeft, true
	case 2:
		return event.ButtonMiddle, true
	case 3:
		return event.ButtonRight, true
	case 4:
		return event.ButtonWheelUp, true
	case 5:
		return event.ButtonWheelDown, true
	}
	return 0, false
}

func mouseEvent(b event.Button, state uint16, x, y int, down bool) event.MouseEvent {
	return event.MouseEvent{Button: b, Down: down, X: x, Y: y, Mods: modsFrom(state)}
}

// textItems encodes s as PolyText8 items. Characters outside Latin-1 become
// '?'; each item holds at most 254 bytes.
func textItems(s string) []byte {
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		raw = append(raw, byte(r))
	}
	var items []byte
	for len(raw) > 0 {
		n := min(len(raw), 254)
		items = append(items, byte(n), 0)
		items = append(items, raw[:n]...)
		raw = raw[n:]
	}
	return items
}

func rectangle(r geom.Rect) xproto.Rectangle {
	return xproto.Rectangle{
		X:      int16(r.X),
		Y:      int16(r.Y),
		Width:  uint16(max(r.Width, 0)),
		Height: uint16(max(r.Height, 0)),
	}
}

func cursorGlyph(icon render.CursorIcon) uint16 {
	switch icon {
	case render.CursorMove:
		return xcursor.Fleur
	case render.CursorResizeN:
		return xcursor.TopSide
	case render.CursorResizeS:
		return xcursor.BottomSide
	case render.CursorResizeE:
		return xcursor.RightSide
	case render.CursorResizeW:
		return xcursor.LeftSide
	case render.CursorResizeNE:
		return xcursor.TopRightCorner
	case render.CursorResizeNW:
		return xcursor.TopLeftCorner
	case render.CursorResizeSE:
		return xcursor.BottomRightCorner
	case render.CursorResizeSW:
		return xcursor.BottomLeftCorner
	default:
		return xcursor.LeftPtr
	}
}
