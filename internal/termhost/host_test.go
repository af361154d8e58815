package termhost

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

func newSimHost(t *testing.T) (*Host, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := NewWithScreen(screen, Options{})
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	screen.SetSize(40, 12)
	t.Cleanup(func() { h.Close() })
	return h, screen
}

func cell(s tcell.SimulationScreen, x, y int) (rune, tcell.Color, tcell.Color) {
	r, _, style, _ := s.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	return r, fg, bg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFillAndText(t *testing.T) {
	h, s := newSimHost(t)
	red := render.RGB(0xff0000)
	white := render.RGB(0xffffff)

	h.FillRect(geom.R(2, 1, 10, 3), red, 1)
	h.Text(3, 2, "hi", render.FontDefault, white, 1)
	if err := h.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	if _, _, bg := cell(s, 2, 1); bg != tcell.NewRGBColor(0xff, 0, 0) {
		t.Fatalf("fill bg = %v", bg)
	}
	r, fg, bg := cell(s, 4, 2)
	if r != 'i' || fg != tcell.NewRGBColor(0xff, 0xff, 0xff) {
		t.Fatalf("text cell = %q fg %v", r, fg)
	}
	if bg != tcell.NewRGBColor(0xff, 0, 0) {
		t.Fatalf("text should keep the fill background, got %v", bg)
	}
	if _, _, bg := cell(s, 12, 1); bg == tcell.NewRGBColor(0xff, 0, 0) {
		t.Fatal("fill leaked past its right edge")
	}
}

func TestStrokeRectCorners(t *testing.T) {
	h, s := newSimHost(t)
	h.StrokeRect(geom.R(1, 1, 5, 4), render.RGB(0x00ff00), 1)
	h.Present()

	tests := []struct {
		x, y int
		want rune
	}{
		{1, 1, tcell.RuneULCorner},
		{5, 1, tcell.RuneURCorner},
		{1, 4, tcell.RuneLLCorner},
		{5, 4, tcell.RuneLRCorner},
		{3, 1, tcell.RuneHLine},
		{1, 2, tcell.RuneVLine},
	}
	for _, tt := range tests {
		if r, _, _ := cell(s, tt.x, tt.y); r != tt.want {
			t.Errorf("cell %d,%d = %q, want %q", tt.x, tt.y, r, tt.want)
		}
	}
}

func TestClipLimitsDrawing(t *testing.T) {
	h, s := newSimHost(t)
	h.SetClip(geom.R(0, 0, 3, 1))
	h.Text(0, 0, "abcdef", render.FontDefault, render.RGB(0xffffff), 1)
	h.ClearClip()
	h.Text(0, 1, "xyz", render.FontDefault, render.RGB(0xffffff), 1)
	h.Present()

	if r, _, _ := cell(s, 2, 0); r != 'c' {
		t.Fatalf("inside clip = %q", r)
	}
	if r, _, _ := cell(s, 3, 0); r == 'd' {
		t.Fatal("text drawn outside the clip")
	}
	if r, _, _ := cell(s, 2, 1); r != 'z' {
		t.Fatalf("after ClearClip = %q", r)
	}
}

func TestAlphaBlendsOverBackground(t *testing.T) {
	h, s := newSimHost(t)
	h.FillRect(geom.R(0, 0, 1, 1), render.RGB(0x000000), 1)
	h.FillRect(geom.R(0, 0, 1, 1), render.RGB(0xffffff), 0.5)
	h.Present()

	_, _, bg := cell(s, 0, 0)
	r, g, b := bg.RGB()
	if r < 100 || r > 160 || r != g || g != b {
		t.Fatalf("blended bg = %d,%d,%d", r, g, b)
	}
}

func TestFontsMeasureCells(t *testing.T) {
	h, _ := newSimHost(t)
	if got := h.StringWidth(render.FontDefault, "ab世"); got != 4 {
		t.Fatalf("StringWidth = %d, want 4", got)
	}
	if got := h.LineHeight(render.FontTitle); got != 1 {
		t.Fatalf("LineHeight = %d", got)
	}
}

func TestKeyEventsReachQueue(t *testing.T) {
	h, s := newSimHost(t)
	s.InjectKey(tcell.KeyRune, 'n', tcell.ModAlt)

	var keys []event.KeyEvent
	waitFor(t, "key events", func() bool {
		keys = append(keys, h.Source().PollKeys()...)
		return len(keys) >= 2
	})
	want := event.KeyEvent{Key: event.KeyRune, Rune: 'n', Mods: event.ModAlt, Down: true}
	if keys[0] != want {
		t.Fatalf("key = %+v, want %+v", keys[0], want)
	}
	if keys[1].Down {
		t.Fatal("second event should be the release")
	}
}

func TestMouseEdges(t *testing.T) {
	h, s := newSimHost(t)
	s.InjectMouse(5, 3, tcell.Button1, tcell.ModNone)
	s.InjectMouse(7, 4, tcell.Button1, tcell.ModNone)
	s.InjectMouse(7, 4, tcell.ButtonNone, tcell.ModNone)

	var got []event.MouseEvent
	waitFor(t, "mouse events", func() bool {
		got = append(got, h.Source().PollMouse()...)
		return len(got) >= 2
	})
	if !got[0].Down || got[0].X != 5 || got[0].Y != 3 || got[0].Button != event.ButtonLeft {
		t.Fatalf("press = %+v", got[0])
	}
	if got[1].Down || got[1].X != 7 {
		t.Fatalf("release = %+v", got[1])
	}
	if x, y := h.Source().Pointer(); x != 7 || y != 4 {
		t.Fatalf("pointer = %d,%d", x, y)
	}
}

func TestQuitKeyClosesDone(t *testing.T) {
	h, s := newSimHost(t)
	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after the quit key")
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want event.KeyEvent
		ok   bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), event.KeyEvent{Key: event.KeyRune, Rune: 'x'}, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), event.KeyEvent{Key: event.KeyEnter}, true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), event.KeyEvent{Key: event.KeyTab, Mods: event.ModShift}, true},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl), event.KeyEvent{Key: event.KeyRune, Rune: 'w', Mods: event.ModCtrl}, true},
		{"alt arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModAlt), event.KeyEvent{Key: event.KeyLeft, Mods: event.ModAlt}, true},
		{"unmapped", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), event.KeyEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.ev)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("translateKey = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCursorShownWhileResizing(t *testing.T) {
	h, _ := newSimHost(t)
	h.SetCursor(render.CursorResizeSE)
	if h.Cursor() != render.CursorResizeSE {
		t.Fatalf("cursor = %v", h.Cursor())
	}
	if err := h.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
}
