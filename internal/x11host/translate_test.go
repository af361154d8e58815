package x11host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name  string
		sym   string
		state uint16
		want  event.KeyEvent
		ok    bool
	}{
		{"letter", "a", 0, event.KeyEvent{Key: event.KeyRune, Rune: 'a'}, true},
		{"alt letter", "n", xproto.ModMask1, event.KeyEvent{Key: event.KeyRune, Rune: 'n', Mods: event.ModAlt}, true},
		{"return", "Return", 0, event.KeyEvent{Key: event.KeyEnter}, true},
		{"keypad enter", "KP_Enter", 0, event.KeyEvent{Key: event.KeyEnter}, true},
		{"shift tab", "ISO_Left_Tab", xproto.ModMaskShift, event.KeyEvent{Key: event.KeyTab, Mods: event.ModShift}, true},
		{"ctrl arrow", "Left", xproto.ModMaskControl, event.KeyEvent{Key: event.KeyLeft, Mods: event.ModCtrl}, true},
		{"space", "space", 0, event.KeyEvent{Key: event.KeyRune, Rune: ' '}, true},
		{"super page", "Next", xproto.ModMask4, event.KeyEvent{Key: event.KeyPageDown, Mods: event.ModSuper}, true},
		{"modifier key", "Shift_L", xproto.ModMaskShift, event.KeyEvent{}, false},
		{"empty", "", 0, event.KeyEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyFromName(tt.sym, tt.state)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("keyFromName(%q) = %+v, %v; want %+v, %v", tt.sym, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestButtonFrom(t *testing.T) {
	tests := []struct {
		detail byte
		want   event.Button
		ok     bool
	}{
		{1, event.ButtonLeft, true},
		{2, event.ButtonMiddle, true},
		{3, event.ButtonRight, true},
		{4, event.ButtonWheelUp, true},
		{5, event.ButtonWheelDown, true},
		{8, 0, false},
	}
	for _, tt := range tests {
		got, ok := buttonFrom(tt.detail)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("buttonFrom(%d) = %v, %v", tt.detail, got, ok)
		}
	}
}

func TestMouseEventCarriesMods(t *testing.T) {
	e := mouseEvent(event.ButtonLeft, xproto.ModMaskShift|xproto.ModMaskControl, 3, 4, true)
	want := event.MouseEvent{Button: event.ButtonLeft, Down: true, X: 3, Y: 4, Mods: event.ModShift | event.ModCtrl}
	if e != want {
		t.Fatalf("mouseEvent = %+v, want %+v", e, want)
	}
}

func TestTextItems(t *testing.T) {
	got := textItems("hé世")
	want := []byte{3, 0, 'h', 0xe9, '?'}
	if !bytes.Equal(got, want) {
		t.Fatalf("textItems = %v, want %v", got, want)
	}

	long := textItems(strings.Repeat("x", 300))
	if long[0] != 254 || long[256] != 46 {
		t.Fatalf("long text split as %d then %d", long[0], long[256])
	}
	if len(long) != 300+4 {
		t.Fatalf("encoded length = %d", len(long))
	}
}

func TestRectangleClampsSize(t *testing.T) {
	got := rectangle(geom.R(-5, 7, -1, 9))
	if got.X != -5 || got.Y != 7 || got.Width != 0 || got.Height != 9 {
		t.Fatalf("rectangle = %+v", got)
	}
}

func TestCursorGlyph(t *testing.T) {
	if cursorGlyph(render.CursorPointer) != xcursor.LeftPtr {
		t.Fatal("pointer should use the left arrow")
	}
	if cursorGlyph(render.CursorMove) != xcursor.Fleur {
		t.Fatal("move should use the fleur")
	}
	seen := map[uint16]render.CursorIcon{}
	for icon := render.CursorPointer; icon <= render.CursorResizeSW; icon++ {
		g := cursorGlyph(icon)
		if prev, dup := seen[g]; dup {
			t.Fatalf("%v and %v share glyph %d", prev, icon, g)
		}
		seen[g] = icon
	}
}
