package widget

import (
	"fmt"
	"strings"
	"testing"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/render/rendertest"
)

var fonts = rendertest.Fonts{CharWidth: 8, Height: 16}

// block is a fixed-size leaf that records the pointer events it receives.
type block struct {
	Base
	hits []event.Pointer
}

func newBlock(w, h int) *block {
	b := &block{}
	b.Hint = geom.Size{Width: w, Height: h}
	return b
}

func (b *block) Render(ctx *render.Context) {
	ctx.Fill(geom.R(0, 0, b.Bounds().Width, b.Bounds().Height), "widget.bg")
}

func (b *block) HandlePointer(_ *Env, p event.Pointer) bool {
	b.hits = append(b.hits, p)
	return true
}

func TestDistribute(t *testing.T) {
	tests := []struct {
		avail   int
		weights []int
		want    []int
	}{
		{101, []int{1, 1, 1}, []int{33, 34, 34}},
		{100, []int{1, 3}, []int{25, 75}},
		{7, []int{0, 0}, []int{3, 4}},
		{10, []int{2, -1, 3}, []int{4, 0, 6}},
		{0, []int{1, 1}, []int{0, 0}},
		{-5, []int{1}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%v", tt.avail, tt.weights), func(t *testing.T) {
			got := Distribute(tt.avail, tt.weights)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Distribute(%d, %v) = %v, want %v", tt.avail, tt.weights, got, tt.want)
			}
		})
	}
}

func TestDistribute_SumIsExact(t *testing.T) {
	for avail := 0; avail < 300; avail += 7 {
		for _, weights := range [][]int{{1, 1, 1}, {3, 5, 7, 11}, {1}, {2, 2, 9, 1, 1}} {
			sum := 0
			for _, v := range Distribute(avail, weights) {
				sum += v
			}
			if sum != avail {
				t.Fatalf("Distribute(%d, %v) sums to %d", avail, weights, sum)
			}
		}
	}
}

func TestBox_LayoutWithGap(t *testing.T) {
	box := NewBox(Horizontal, 2)
	a, b, c := newBlock(0, 0), newBlock(0, 0), newBlock(0, 0)
	box.Add(a, 1)
	box.Add(b, 1)
	box.Add(c, 1)
	box.SetBounds(geom.R(0, 0, 105, 20))
	box.Layout(fonts)

	want := []geom.Rect{geom.R(0, 0, 33, 20), geom.R(35, 0, 34, 20), geom.R(71, 0, 34, 20)}
	for i, w := range []*block{a, b, c} {
		if w.Bounds() != want[i] {
			t.Errorf("child %d bounds = %+v, want %+v", i, w.Bounds(), want[i])
		}
	}
	if last := c.Bounds(); last.Right() != 105 {
		t.Errorf("last child ends at %d, want 105", last.Right())
	}
}

func TestReparentDetachesFromPreviousContainer(t *testing.T) {
	first := NewBox(Vertical, 0)
	second := NewBox(Vertical, 0)
	l := NewLabel("moved")

	first.Add(l, 1)
	second.Add(l, 1)

	if len(first.Children()) != 0 {
		t.Errorf("first box still has %d children", len(first.Children()))
	}
	if l.Parent() != Container(second) {
		t.Error("label parent should be the second box")
	}

	var tree Tree
	tree.SetContent(l)
	if len(second.Children()) != 0 || l.Parent() != nil {
		t.Error("SetContent should detach the widget from its box")
	}
}

func TestReparentDetachesTreeContent(t *testing.T) {
	l := NewLabel("root")
	var first, second Tree

	first.SetContent(l)
	box := NewBox(Vertical, 0)
	box.Add(l, 1)
	if first.Content() != nil {
		t.Fatal("tree still holds content that was added to a box")
	}
	if len(box.Children()) != 1 || l.Parent() != Container(box) {
		t.Fatal("label should belong to the box only")
	}

	first.SetContent(l)
	if len(box.Children()) != 0 || first.Content() != l {
		t.Fatal("SetContent should take the label back from the box")
	}

	second.SetContent(l)
	if first.Content() != nil || second.Content() != l {
		t.Fatalf("first=%v second=%v, want label in second tree only", first.Content(), second.Content())
	}

	first.SetContent(NewLabel("other"))
	if second.Content() != l {
		t.Fatal("replacing another tree's content must not touch the label")
	}
	second.SetContent(nil)
	box.Add(l, 1)
	if second.Content() != nil || len(box.Children()) != 1 {
		t.Fatal("cleared tree should not keep a stale claim on the label")
	}
}

func TestFlowBox_ExpanderOmittedWhenNoSpace(t *testing.T) {
	fb := NewFlowBox(Horizontal, 2)
	lead := newBlock(30, 10)
	trail := newBlock(20, 10)
	fill := newBlock(5, 10)
	fb.AddLeading(lead)
	fb.AddTrailing(trail)
	fb.SetExpander(fill)

	fb.SetBounds(geom.R(0, 0, 100, 10))
	fb.Layout(fonts)
	if got := fill.Bounds(); got != geom.R(32, 0, 46, 10) {
		t.Errorf("expander bounds = %+v", got)
	}
	if got := trail.Bounds(); got != geom.R(80, 0, 20, 10) {
		t.Errorf("trailing bounds = %+v", got)
	}

	fb.SetBounds(geom.R(0, 0, 54, 10))
	fb.Layout(fonts)
	if fb.Expanded() {
		t.Error("expander should be omitted when remaining space is zero")
	}
	for _, w := range fb.visibleChildren() {
		if w == Widget(fill) {
			t.Error("omitted expander must not be visible")
		}
	}
}

func TestNeedBars_TwoPass(t *testing.T) {
	tests := []struct {
		name       string
		pref       geom.Size
		wantH, wantV bool
	}{
		{"fits", geom.Size{Width: 90, Height: 90}, false, false},
		{"tall", geom.Size{Width: 80, Height: 200}, false, true},
		{"tall squeezes width", geom.Size{Width: 95, Height: 105}, true, true},
		{"wide", geom.Size{Width: 300, Height: 50}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, v := needBars(tt.pref, geom.Size{Width: 100, Height: 100}, 10)
			if h != tt.wantH || v != tt.wantV {
				t.Errorf("needBars = (%v, %v), want (%v, %v)", h, v, tt.wantH, tt.wantV)
			}
		})
	}
}

func TestThumbLength(t *testing.T) {
	if got := ThumbLength(100, 400); got != 25 {
		t.Errorf("ThumbLength(100, 400) = %d, want 25", got)
	}
	if got := ThumbLength(100, 50); got != 100 {
		t.Errorf("ThumbLength(100, 50) = %d, want 100", got)
	}
	if got := ThumbLength(10, 100000); got != 1 {
		t.Errorf("ThumbLength(10, 100000) = %d, want 1", got)
	}
}

func TestScrollBox_ThumbDrag(t *testing.T) {
	s := NewScrollBox(newBlock(50, 400))
	s.BarSize = 10
	s.SetBounds(geom.R(0, 0, 100, 100))
	s.Layout(fonts)

	if h, v := s.Bars(); h || !v {
		t.Fatalf("Bars() = (%v, %v), want vertical only", h, v)
	}
	if th := s.VThumb(); th != geom.R(90, 0, 10, 25) {
		t.Fatalf("VThumb() = %+v", th)
	}

	env := &Env{Fonts: fonts}
	press := event.Pointer{Action: event.PointerPress, X: 95, Y: 5, StartX: 95, StartY: 5}
	if !s.HandlePointer(env, press) {
		t.Fatal("press on thumb not handled")
	}
	drag := press
	drag.Action = event.PointerDrag
	for _, tt := range []struct {
		y    int
		want float64
	}{{80, 1}, {200, 1}, {5, 0}, {-50, 0}} {
		drag.Y = tt.y
		s.HandlePointer(env, drag)
		if _, fy := s.Scroll(); fy != tt.want {
			t.Errorf("drag to y=%d: fracY = %v, want %v", tt.y, fy, tt.want)
		}
	}
	drag.Y = 42
	s.HandlePointer(env, drag)
	if _, fy := s.Scroll(); fy <= 0.45 || fy >= 0.55 {
		t.Errorf("drag to y=42: fracY = %v, want about 0.5", fy)
	}

	s.SetScroll(0, 1)
	s.Layout(fonts)
	if got := s.Child().Bounds().Y; got != -300 {
		t.Errorf("child Y at full scroll = %d, want -300", got)
	}
}

func TestScrollBox_WheelScrolls(t *testing.T) {
	s := NewScrollBox(NewLabel("x"))
	s.Child().(*Label).Hint = geom.Size{Width: 10, Height: 1000}
	s.BarSize = 10
	s.Step = 90
	s.SetBounds(geom.R(0, 0, 100, 100))
	s.Layout(fonts)

	env := &Env{Fonts: fonts}
	s.HandlePointer(env, event.Pointer{Action: event.PointerScroll, Button: event.ButtonWheelDown, X: 5, Y: 5, Scroll: 1})
	if _, fy := s.Scroll(); fy != 0.1 {
		t.Errorf("fracY after one notch = %v, want 0.1", fy)
	}
}

func TestScrollBox_FollowsCaret(t *testing.T) {
	ed := NewTextEditor(true)
	var lines []string
	for i := range 30 {
		lines = append(lines, fmt.Sprintf("line %02d", i))
	}
	ed.SetText(strings.Join(lines, "\n"))

	s := NewScrollBox(ed)
	s.SetBounds(geom.R(0, 0, 200, 100))
	s.Layout(fonts)

	caret := ed.CaretRect(fonts).Translate(0, ed.Bounds().Y)
	if caret.Y < 0 || caret.Bottom() > s.View().Height {
		t.Errorf("caret %+v not inside viewport of height %d", caret, s.View().Height)
	}

	ed.SetCaret(0, 0)
	s.Layout(fonts)
	caret = ed.CaretRect(fonts).Translate(0, ed.Bounds().Y)
	if caret.Y < 0 {
		t.Errorf("caret %+v above viewport after moving to the first line", caret)
	}
	if _, fy := s.Scroll(); fy > 0.01 {
		t.Errorf("fracY after caret moved to top = %v, want near 0", fy)
	}
}

func TestTabs_HitTestAndStatePreserved(t *testing.T) {
	tabs := NewTabs()
	first := NewTextEditor(false)
	first.SetText("keep me")
	second := newBlock(0, 0)
	tabs.AddTab("One", first)
	tabs.AddTab("Two", second)
	tabs.SetBounds(geom.R(0, 0, 200, 100))
	tabs.Layout(fonts)

	if got := tabs.TabAt(fonts, 40, 5); got != 1 {
		t.Errorf("TabAt(40, 5) = %d, want 1", got)
	}
	if got := tabs.TabAt(fonts, 35, 5); got != 0 {
		t.Errorf("TabAt(35, 5) = %d, want 0", got)
	}
	if got := tabs.TabAt(fonts, 100, 5); got != -1 {
		t.Errorf("TabAt past last label = %d, want -1", got)
	}
	if got := tabs.TabAt(fonts, 10, 30); got != -1 {
		t.Errorf("TabAt below the bar = %d, want -1", got)
	}

	before := first.Bounds()
	env := &Env{Fonts: fonts}
	tabs.HandlePointer(env, event.Pointer{Action: event.PointerPress, X: 40, Y: 5, StartX: 40, StartY: 5})
	tabs.Layout(fonts)
	if tabs.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", tabs.Active())
	}
	if first.Bounds() != before || first.Text() != "keep me" {
		t.Error("switching tabs changed the inactive page")
	}
	if second.Bounds() != geom.R(0, 20, 200, 80) {
		t.Errorf("active page bounds = %+v", second.Bounds())
	}
}

func TestTextEditor_WordNavigation(t *testing.T) {
	ed := NewTextEditor(false)
	ed.SetText("hello, world  foo")

	steps := []struct {
		move func()
		want int
	}{
		{ed.WordLeft, 14},
		{ed.WordLeft, 7},
		{ed.WordLeft, 0},
		{ed.WordLeft, 0},
		{ed.WordRight, 5},
		{ed.WordRight, 12},
		{ed.WordRight, 17},
	}
	for i, s := range steps {
		s.move()
		if _, col := ed.Caret(); col != s.want {
			t.Fatalf("step %d: caret col = %d, want %d", i, col, s.want)
		}
	}
}

func TestTextEditor_MultilineEditing(t *testing.T) {
	ed := NewTextEditor(true)
	ed.Insert("ab\ncd")
	if ed.Lines() != 2 {
		t.Fatalf("Lines() = %d, want 2", ed.Lines())
	}
	if l, c := ed.Caret(); l != 1 || c != 2 {
		t.Fatalf("Caret() = (%d, %d), want (1, 2)", l, c)
	}
	ed.SetCaret(1, 0)
	ed.Backspace()
	if ed.Text() != "abcd" {
		t.Errorf("Text() = %q after join, want abcd", ed.Text())
	}
	if l, c := ed.Caret(); l != 0 || c != 2 {
		t.Errorf("Caret() = (%d, %d), want (0, 2)", l, c)
	}
	ed.Delete()
	if ed.Text() != "abd" {
		t.Errorf("Text() = %q after delete, want abd", ed.Text())
	}

	env := &Env{Fonts: fonts}
	ed.HandleKey(env, event.KeyEvent{Key: event.KeyEnter, Down: true})
	ed.HandleKey(env, event.KeyEvent{Key: event.KeyRune, Rune: 'x', Down: true})
	if ed.Text() != "ab\nxd" {
		t.Errorf("Text() = %q, want %q", ed.Text(), "ab\nxd")
	}
}

func TestTextEditor_CaretMeasurement(t *testing.T) {
	ed := NewTextEditor(false)
	ed.SetText("hello")
	ed.SetCaret(0, 3)
	if got := ed.CaretX(fonts); got != 24 {
		t.Errorf("CaretX = %d, want 24", got)
	}
	if got := ed.ColumnAt(fonts, 0, 13); got != 2 {
		t.Errorf("ColumnAt(13) = %d, want 2", got)
	}
	if got := ed.ColumnAt(fonts, 0, 1000); got != 5 {
		t.Errorf("ColumnAt past end = %d, want 5", got)
	}
}

func TestSingleLineEditorEmitsActionOnEnter(t *testing.T) {
	ed := NewTextEditor(false)
	ed.Action = "submit"
	var got []string
	var tree Tree
	tree.SetContent(ed)
	tree.OnAction(func(action string, origin Widget) {
		if origin != Widget(ed) {
			t.Error("action origin is not the editor")
		}
		got = append(got, action)
	})
	tree.SetFocus(ed)
	tree.HandleKey(fonts, event.KeyEvent{Key: event.KeyEnter, Down: true})
	if len(got) != 1 || got[0] != "submit" {
		t.Errorf("actions = %v, want [submit]", got)
	}
}

func TestButtonClickEmitsOnce(t *testing.T) {
	box := NewBox(Horizontal, 0)
	btn := NewButton("OK", "ok")
	box.Add(btn, 1)
	box.Add(newBlock(0, 0), 1)

	var tree Tree
	tree.SetContent(box)
	var actions []string
	tree.OnAction(func(action string, _ Widget) { actions = append(actions, action) })
	tree.Arrange(fonts, geom.Size{Width: 200, Height: 50})

	p := event.Pointer{Button: event.ButtonLeft, X: 10, Y: 10, StartX: 10, StartY: 10}
	for _, a := range []event.PointerAction{event.PointerPress, event.PointerRelease, event.PointerClick} {
		p.Action = a
		tree.HandlePointer(fonts, p)
	}
	if len(actions) != 1 || actions[0] != "ok" {
		t.Errorf("actions = %v, want [ok]", actions)
	}
	if btn.Clicks() != 1 || btn.Pressed() {
		t.Errorf("Clicks() = %d, Pressed() = %v", btn.Clicks(), btn.Pressed())
	}
}

func TestCheckboxToggles(t *testing.T) {
	cb := NewCheckbox("Wrap", "wrap")
	var tree Tree
	tree.SetContent(cb)
	tree.Arrange(fonts, geom.Size{Width: 100, Height: 16})
	click := event.Pointer{Action: event.PointerClick, Button: event.ButtonLeft, X: 2, Y: 2}
	tree.HandlePointer(fonts, click)
	if !cb.Checked {
		t.Error("checkbox should be checked after one click")
	}
	tree.HandlePointer(fonts, click)
	if cb.Checked {
		t.Error("checkbox should be unchecked after two clicks")
	}
}

func TestTreeFocusCycling(t *testing.T) {
	box := NewBox(Vertical, 0)
	a, b := NewTextEditor(false), NewTextEditor(false)
	box.Add(a, 1)
	box.Add(NewLabel("between"), 1)
	box.Add(b, 1)
	var tree Tree
	tree.SetContent(box)

	tab := event.KeyEvent{Key: event.KeyTab, Down: true}
	tree.HandleKey(fonts, tab)
	if tree.Focused() != Widget(a) || !a.Focused() {
		t.Fatal("first Tab should focus the first editor")
	}
	tree.HandleKey(fonts, tab)
	if tree.Focused() != Widget(b) || a.Focused() {
		t.Fatal("second Tab should move focus to the second editor")
	}
	tab.Mods = event.ModShift
	tree.HandleKey(fonts, tab)
	if tree.Focused() != Widget(a) {
		t.Fatal("Shift-Tab should move focus back")
	}

	box.Remove(a)
	if tree.Focused() != nil {
		t.Error("focus should clear once the widget leaves the tree")
	}
}

func TestRenderTranslatesAndClipsChildren(t *testing.T) {
	box := NewBox(Horizontal, 0)
	box.Add(NewLabel("left"), 1)
	box.Add(NewLabel("right"), 1)
	var tree Tree
	tree.SetContent(box)

	ctx, p := rendertest.NewContext(geom.R(0, 0, 400, 300))
	ctx.Translated(50, 20, func() {
		tree.Render(ctx, geom.Size{Width: 200, Height: 16})
	})

	texts := p.Kind("text")
	if len(texts) != 2 {
		t.Fatalf("got %d text ops, want 2", len(texts))
	}
	if texts[1].Text != "right" || texts[1].Rect.X != 150 || texts[1].Rect.Y != 20 {
		t.Errorf("second label drawn at %v", texts[1])
	}
	if texts[1].Clip != geom.R(150, 20, 100, 16) {
		t.Errorf("second label clip = %+v", texts[1].Clip)
	}
	if tr, cl := ctx.Stack.Depth(); tr != 0 || cl != 0 {
		t.Errorf("stack not balanced after render: %d translates, %d clips", tr, cl)
	}
}
