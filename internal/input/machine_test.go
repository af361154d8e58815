package input

import (
	"testing"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/region"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/render/rendertest"
	"github.com/1broseidon/framewm/internal/widget"
)

// recorder is a focusable content widget that claims every event.
type recorder struct {
	widget.Base
	pointers []event.Pointer
	keys     []event.KeyEvent
	focused  bool
}

func (r *recorder) Render(*render.Context) {}

func (r *recorder) HandlePointer(_ *widget.Env, p event.Pointer) bool {
	r.pointers = append(r.pointers, p)
	return true
}

func (r *recorder) HandleKey(_ *widget.Env, e event.KeyEvent) bool {
	r.keys = append(r.keys, e)
	return true
}

func (r *recorder) SetFocused(v bool) { r.focused = v }
func (r *recorder) Focused() bool     { return r.focused }

func (r *recorder) actions() []event.PointerAction {
	var out []event.PointerAction
	for _, p := range r.pointers {
		out = append(out, p.Action)
	}
	return out
}

type fixture struct {
	o      *frame.Owner
	s      *frame.Stack
	q      *Queue
	cursor *rendertest.Cursor
	m      *Machine

	clicks         []region.Region
	dragEnds       []geom.Rect
	unhandledMouse []event.MouseEvent
	unhandledKeys  []event.KeyEvent
	shortcut       func(event.KeyEvent) bool
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	fx := &fixture{
		o:      frame.NewOwner("test"),
		q:      &Queue{},
		cursor: &rendertest.Cursor{},
	}
	fx.s = frame.NewStack(fx.o)
	cb := Callbacks{
		Shortcut: func(e event.KeyEvent) bool {
			return fx.shortcut != nil && fx.shortcut(e)
		},
		UnhandledKey:   func(e event.KeyEvent) { fx.unhandledKeys = append(fx.unhandledKeys, e) },
		UnhandledMouse: func(e event.MouseEvent) { fx.unhandledMouse = append(fx.unhandledMouse, e) },
		Click:          func(_ *frame.Frame, r region.Region, _ geom.Point) { fx.clicks = append(fx.clicks, r) },
		DragEnd:        func(_ *frame.Frame, from geom.Rect) { fx.dragEnds = append(fx.dragEnds, from) },
	}
	fx.m = New(fx.o, fx.s, fx.q, rendertest.Fonts{CharWidth: 8, Height: 16}, fx.cursor, cb, opts)
	return fx
}

func (fx *fixture) add(id uint64, r geom.Rect, fixed bool) *frame.Frame {
	f := frame.New(fx.o, id, frame.Options{
		Title:    "test",
		Bounds:   r,
		MinSize:  geom.Size{Width: 40, Height: 30},
		Border:   5,
		Titlebar: 20,
		Fixed:    fixed,
	})
	fx.s.Add(fx.o, f)
	return f
}

func (fx *fixture) down(x, y int) {
	fx.q.PushMouse(event.MouseEvent{Button: event.ButtonLeft, Down: true, X: x, Y: y})
}

func (fx *fixture) up(x, y int) {
	fx.q.PushMouse(event.MouseEvent{Button: event.ButtonLeft, Down: false, X: x, Y: y})
}

func TestDragPredicates(t *testing.T) {
	tests := []struct {
		dx, dy      int
		either, both bool
	}{
		{0, 0, false, false},
		{3, 0, true, false},
		{0, -3, true, false},
		{2, 2, true, true},
	}
	for _, tt := range tests {
		if got := DragEitherAxis(tt.dx, tt.dy); got != tt.either {
			t.Errorf("DragEitherAxis(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.either)
		}
		if got := DragBothAxes(tt.dx, tt.dy); got != tt.both {
			t.Errorf("DragBothAxes(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.both)
		}
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		from  State
		edge  edge
		moved bool
		want  State
	}{
		{StateIdle, edgeNone, true, StateIdle},
		{StateIdle, edgeDown, false, StatePressed},
		{StatePressed, edgeNone, false, StatePressed},
		{StatePressed, edgeNone, true, StateDragging},
		{StatePressed, edgeUp, false, StateClicking},
		{StateDragging, edgeNone, false, StateDragging},
		{StateDragging, edgeUp, false, StateIdle},
		{StateClicking, edgeNone, false, StateIdle},
		{StateClicking, edgeDown, false, StatePressed},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			if got := next(tt.from, tt.edge, tt.moved); got != tt.want {
				t.Errorf("next(%v, %d, %v) = %v, want %v", tt.from, tt.edge, tt.moved, got, tt.want)
			}
		})
	}
}

func TestResizeRect(t *testing.T) {
	r := geom.R(100, 100, 100, 80)
	minSize := geom.Size{Width: 40, Height: 30}
	tests := []struct {
		name   string
		reg    region.Region
		dx, dy int
		want   geom.Rect
	}{
		{"right grows", region.Right, 20, 0, geom.R(100, 100, 120, 80)},
		{"right clamps at minimum", region.Right, -200, 0, geom.R(100, 100, 40, 80)},
		{"left grows and moves origin", region.Left, -20, 0, geom.R(80, 100, 120, 80)},
		{"left clamps and keeps right edge", region.Left, 200, 0, geom.R(160, 100, 40, 80)},
		{"top clamps and keeps bottom edge", region.Top, 0, 100, geom.R(100, 150, 100, 30)},
		{"bottom grows", region.Bot, 0, 10, geom.R(100, 100, 100, 90)},
		{"corner combines axes", region.TopLeft, 10, -10, geom.R(110, 90, 90, 90)},
		{"bottom-right", region.BotRight, -5, 5, geom.R(100, 100, 95, 85)},
		{"content is a no-op", region.Content, 50, 50, r},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResizeRect(r, minSize, tt.reg, tt.dx, tt.dy); got != tt.want {
				t.Errorf("ResizeRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClickWithoutMovementNeverDrags(t *testing.T) {
	fx := newFixture(t, Options{})
	a := fx.add(1, geom.R(0, 0, 100, 80), false)
	b := fx.add(2, geom.R(200, 0, 100, 80), false)

	// Press and release on a's title within one poll.
	fx.down(50, 10)
	fx.up(50, 10)
	fx.m.Update()

	if a.Dragged() || a.Resized() {
		t.Fatal("zero-delta click set dragged/resized")
	}
	if len(fx.clicks) != 1 || fx.clicks[0] != region.Title {
		t.Fatalf("clicks = %v, want one title click", fx.clicks)
	}
	if fx.s.Head() != a || !a.Focused() || b.Focused() {
		t.Fatal("title click should foreground and focus the frame")
	}
	if fx.m.State() != StateClicking {
		t.Fatalf("state = %v, want clicking", fx.m.State())
	}

	fx.m.Update()
	if fx.m.State() != StateIdle || len(fx.clicks) != 1 {
		t.Fatalf("after next update: state=%v clicks=%d", fx.m.State(), len(fx.clicks))
	}
}

func TestClickAcrossTicksNeverDrags(t *testing.T) {
	fx := newFixture(t, Options{})
	a := fx.add(1, geom.R(0, 0, 100, 80), false)
	btn := widget.NewButton("ok", "ok")
	a.SetContent(fx.o, btn)

	fx.down(50, 50)
	fx.m.Update()
	fx.m.Update()
	if fx.m.State() != StatePressed {
		t.Fatalf("state = %v, want pressed", fx.m.State())
	}
	fx.up(50, 50)
	fx.m.Update()

	if a.Dragged() || a.Resized() {
		t.Fatal("zero-delta click set dragged/resized")
	}
	if btn.Clicks() != 1 || len(fx.clicks) != 1 {
		t.Fatalf("button clicks = %d, machine clicks = %d; want exactly one", btn.Clicks(), len(fx.clicks))
	}
}

func TestTitleDragMovesFrame(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(100, 100, 100, 80), false)

	fx.down(150, 110)
	fx.m.Update()
	fx.q.MoveTo(170, 130)
	fx.m.Update()

	if !f.Dragged() || fx.m.State() != StateDragging {
		t.Fatalf("dragged=%v state=%v", f.Dragged(), fx.m.State())
	}
	if got := f.Bounds(); got != geom.R(120, 120, 100, 80) {
		t.Fatalf("bounds = %+v", got)
	}
	if fx.cursor.Icon != render.CursorMove {
		t.Fatalf("cursor = %v, want move", fx.cursor.Icon)
	}

	fx.up(180, 140)
	fx.q.MoveTo(500, 500)
	fx.m.Update()
	if f.Dragged() || fx.m.State() != StateIdle {
		t.Fatalf("after release dragged=%v state=%v", f.Dragged(), fx.m.State())
	}
	if got := f.Bounds(); got != geom.R(130, 130, 100, 80) {
		t.Fatalf("release position should apply, got %+v", got)
	}
	if fx.cursor.Icon != render.CursorPointer {
		t.Fatalf("cursor = %v, want pointer restored", fx.cursor.Icon)
	}
	if len(fx.dragEnds) != 1 || fx.dragEnds[0] != geom.R(100, 100, 100, 80) {
		t.Fatalf("dragEnds = %v", fx.dragEnds)
	}
	if len(fx.clicks) != 0 {
		t.Fatal("a drag must not report a click")
	}
}

func TestResizeFloor(t *testing.T) {
	tests := []struct {
		name        string
		press, move geom.Point
		want        geom.Rect
		icon        render.CursorIcon
	}{
		{"right by -200", geom.Point{X: 197, Y: 150}, geom.Point{X: -3, Y: 150}, geom.R(100, 100, 40, 80), render.CursorResizeE},
		{"left shrinking by 200", geom.Point{X: 102, Y: 150}, geom.Point{X: 302, Y: 150}, geom.R(160, 100, 40, 80), render.CursorResizeW},
		{"bottom-right corner", geom.Point{X: 197, Y: 177}, geom.Point{X: 0, Y: 0}, geom.R(100, 100, 40, 30), render.CursorResizeSE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, Options{})
			f := fx.add(1, geom.R(100, 100, 100, 80), false)

			fx.down(tt.press.X, tt.press.Y)
			fx.m.Update()
			fx.q.MoveTo(tt.move.X, tt.move.Y)
			fx.m.Update()
			if !f.Resized() {
				t.Fatal("resize flag not set")
			}
			if fx.cursor.Icon != tt.icon {
				t.Fatalf("cursor = %v, want %v", fx.cursor.Icon, tt.icon)
			}
			if got := f.Bounds(); got != tt.want {
				t.Fatalf("bounds = %+v, want %+v", got, tt.want)
			}

			fx.up(tt.move.X, tt.move.Y)
			fx.m.Update()
			if f.Resized() {
				t.Fatal("resize flag not cleared on release")
			}
		})
	}
}

func TestDragBothAxesPredicate(t *testing.T) {
	fx := newFixture(t, Options{Drag: DragBothAxes})
	f := fx.add(1, geom.R(100, 100, 100, 80), false)

	fx.down(150, 110)
	fx.m.Update()
	fx.q.MoveTo(170, 110)
	fx.m.Update()
	if f.Dragged() || f.Bounds().X != 100 {
		t.Fatal("horizontal-only motion started a drag under DragBothAxes")
	}

	fx.q.MoveTo(170, 115)
	fx.m.Update()
	if !f.Dragged() || f.Bounds() != geom.R(120, 105, 100, 80) {
		t.Fatalf("diagonal motion should drag, bounds=%+v", f.Bounds())
	}
}

func TestPressForegroundsUnfocusedFrame(t *testing.T) {
	fx := newFixture(t, Options{})
	a := fx.add(1, geom.R(0, 0, 100, 80), false)
	b := fx.add(2, geom.R(50, 40, 100, 80), false)
	rec := &recorder{}
	a.SetContent(fx.o, rec)

	fx.down(20, 50)
	fx.m.Update()
	if fx.s.Head() != a || !a.Focused() || b.Focused() {
		t.Fatal("press on an unfocused frame should foreground it")
	}
	if len(rec.pointers) != 1 || rec.pointers[0].Action != event.PointerPress {
		t.Fatalf("content got %v", rec.actions())
	}
	// Content origin is (5, 25).
	if p := rec.pointers[0]; p.X != 15 || p.Y != 25 {
		t.Fatalf("press at local %d,%d, want 15,25", p.X, p.Y)
	}
}

func TestContentDragForwardsPressDragRelease(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(0, 0, 100, 80), false)
	rec := &recorder{}
	f.SetContent(fx.o, rec)

	fx.down(20, 40)
	fx.m.Update()
	fx.q.MoveTo(30, 45)
	fx.m.Update()
	fx.m.Update()
	fx.up(30, 45)
	fx.m.Update()

	want := []event.PointerAction{event.PointerPress, event.PointerDrag, event.PointerRelease}
	got := rec.actions()
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}
	if d := rec.pointers[1]; d.StartX != 15 || d.StartY != 15 || d.X != 25 || d.Y != 20 {
		t.Fatalf("drag pointer = %+v", d)
	}
	if f.Dragged() || f.Bounds() != geom.R(0, 0, 100, 80) {
		t.Fatal("content drag must not move the frame")
	}
}

func TestFixedFrameBorderPassesThrough(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(100, 100, 100, 80), true)

	fx.q.MoveTo(102, 150)
	fx.m.Update()
	if fx.cursor.Icon != render.CursorPointer {
		t.Fatalf("hovering a fixed frame's border shows %v", fx.cursor.Icon)
	}

	fx.down(102, 150)
	fx.m.Update()
	fx.q.MoveTo(302, 150)
	fx.m.Update()
	if f.Resized() || f.Bounds() != geom.R(100, 100, 100, 80) {
		t.Fatalf("fixed frame resized: %+v", f.Bounds())
	}
}

func TestFocusFollowsPointerDoesNotReorder(t *testing.T) {
	fx := newFixture(t, Options{FocusFollowsPointer: true})
	a := fx.add(1, geom.R(0, 0, 100, 80), false)
	b := fx.add(2, geom.R(200, 0, 100, 80), false)

	fx.q.MoveTo(50, 50)
	fx.m.Update()
	if !a.Focused() || b.Focused() {
		t.Fatal("hovered frame should take focus")
	}
	if fx.s.Head() != b {
		t.Fatal("focus follows pointer must not reorder")
	}
}

func TestModalCapturesInput(t *testing.T) {
	fx := newFixture(t, Options{})
	a := fx.add(1, geom.R(0, 0, 100, 80), false)
	modal := frame.New(fx.o, 9, frame.Options{Bounds: geom.R(300, 300, 100, 80), Border: 5, Titlebar: 20})
	rec := &recorder{}
	modal.SetContent(fx.o, rec)
	modal.Tree().SetFocus(rec)
	fx.s.SetModal(fx.o, modal)

	fx.down(50, 50)
	fx.up(50, 50)
	fx.q.PushKey(event.KeyEvent{Key: event.KeyRune, Rune: 'x', Down: true})
	fx.m.Update()

	if a.Focused() || fx.s.Head() != modal || !modal.Focused() {
		t.Fatal("press outside the modal changed focus")
	}
	if len(fx.unhandledMouse) != 0 || len(fx.clicks) != 0 {
		t.Fatalf("press outside the modal leaked: unhandled=%v clicks=%v", fx.unhandledMouse, fx.clicks)
	}
	if len(rec.keys) != 1 || rec.keys[0].Rune != 'x' {
		t.Fatalf("modal content keys = %v", rec.keys)
	}
}

func TestKeyRouting(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(0, 0, 100, 80), false)
	rec := &recorder{}
	f.SetContent(fx.o, rec)

	fx.shortcut = func(e event.KeyEvent) bool { return e.Key == event.KeyF1 }
	fx.q.PushKey(event.KeyEvent{Key: event.KeyF1, Down: true})
	fx.q.PushKey(event.KeyEvent{Key: event.KeyRune, Rune: 'a', Down: true})
	fx.m.Update()
	if len(rec.keys) != 0 {
		t.Fatal("unfocused content widget received keys")
	}
	if len(fx.unhandledKeys) != 1 || fx.unhandledKeys[0].Rune != 'a' {
		t.Fatalf("unhandled keys = %v", fx.unhandledKeys)
	}

	f.Tree().SetFocus(rec)
	fx.q.PushKey(event.KeyEvent{Key: event.KeyF1, Down: true})
	fx.q.PushKey(event.KeyEvent{Key: event.KeyRune, Rune: 'b', Down: true})
	fx.m.Update()
	if len(rec.keys) != 1 || rec.keys[0].Rune != 'b' {
		t.Fatalf("shortcut should win and the rest reach the focused widget, got %v", rec.keys)
	}
}

func TestWheelScrollsContentUnderPointer(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(0, 0, 100, 80), false)
	rec := &recorder{}
	f.SetContent(fx.o, rec)

	fx.q.PushMouse(event.MouseEvent{Button: event.ButtonWheelDown, Down: true, X: 20, Y: 40})
	fx.q.PushMouse(event.MouseEvent{Button: event.ButtonWheelUp, Down: true, X: 300, Y: 300})
	fx.m.Update()

	if len(rec.pointers) != 1 || rec.pointers[0].Action != event.PointerScroll || rec.pointers[0].Scroll != 1 {
		t.Fatalf("content got %+v", rec.pointers)
	}
	if len(fx.unhandledMouse) != 1 || fx.unhandledMouse[0].Button != event.ButtonWheelUp {
		t.Fatalf("wheel over the desktop should be unhandled, got %v", fx.unhandledMouse)
	}
}

func TestFrameRemovedMidDrag(t *testing.T) {
	fx := newFixture(t, Options{})
	f := fx.add(1, geom.R(100, 100, 100, 80), false)

	fx.down(150, 110)
	fx.m.Update()
	fx.q.MoveTo(160, 120)
	fx.m.Update()
	fx.s.Remove(fx.o, f)
	fx.m.Update()
	if fx.m.State() != StateIdle {
		t.Fatalf("state = %v, want idle after the dragged frame vanished", fx.m.State())
	}
	fx.up(160, 120)
	fx.m.Update()
	if len(fx.clicks) != 0 || len(fx.dragEnds) != 0 {
		t.Fatal("callbacks fired for a removed frame")
	}
}

func TestDesktopPressIsUnhandled(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.add(1, geom.R(0, 0, 100, 80), false)

	fx.down(500, 500)
	fx.up(500, 500)
	fx.m.Update()
	if len(fx.unhandledMouse) != 1 || !fx.unhandledMouse[0].Down {
		t.Fatalf("unhandled = %v", fx.unhandledMouse)
	}
}

func TestQueueDrains(t *testing.T) {
	q := &Queue{}
	q.PushKey(event.KeyEvent{Key: event.KeyEnter, Down: true})
	q.PushMouse(event.MouseEvent{X: 3, Y: 4, Down: true})
	if len(q.PollKeys()) != 1 || len(q.PollMouse()) != 1 {
		t.Fatal("poll should return queued events")
	}
	if len(q.PollKeys()) != 0 || len(q.PollMouse()) != 0 {
		t.Fatal("poll should drain")
	}
	if x, y := q.Pointer(); x != 3 || y != 4 {
		t.Fatalf("pointer = %d,%d", x, y)
	}
}
