package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// ActionFunc receives named actions raised by interactive widgets.
type ActionFunc func(action string, origin Widget)

// Env is handed to widgets during input dispatch.
type Env struct {
	Fonts render.Fonts
	tree  *Tree
}

// Emit raises a named action from origin.
func (e *Env) Emit(action string, origin Widget) {
	if action == "" || e.tree == nil || e.tree.actions == nil {
		return
	}
	e.tree.actions(action, origin)
}

// Focus moves keyboard focus within the tree to w.
func (e *Env) Focus(w Widget) {
	if e.tree != nil {
		e.tree.SetFocus(w)
	}
}

// Tree is the widget root of one frame. It tracks which widget holds
// keyboard focus and routes input into the content widget.
type Tree struct {
	content Widget
	focus   Widget
	actions ActionFunc
}

// SetContent replaces the root content widget. w is detached from its
// container or previous tree first.
func (t *Tree) SetContent(w Widget) {
	if w != nil {
		Detach(w)
	}
	if t.content != nil {
		t.content.node().root = nil
	}
	t.SetFocus(nil)
	t.content = w
	if w != nil {
		w.node().root = t
	}
}

// release drops w if it is the content.
func (t *Tree) release(w Widget) {
	w.node().root = nil
	if t.content == w {
		t.SetFocus(nil)
		t.content = nil
	}
}

// Content returns the root content widget, or nil.
func (t *Tree) Content() Widget { return t.content }

// OnAction sets the receiver of actions raised inside the tree.
func (t *Tree) OnAction(fn ActionFunc) { t.actions = fn }

// Focused returns the widget holding keyboard focus, or nil.
func (t *Tree) Focused() Widget {
	if t.focus != nil && !t.contains(t.focus) {
		t.focus = nil
	}
	return t.focus
}

// SetFocus moves keyboard focus to w. A nil w clears it.
func (t *Tree) SetFocus(w Widget) {
	if t.focus == w {
		return
	}
	if f, ok := t.focus.(Focusable); ok {
		f.SetFocused(false)
	}
	t.focus = w
	if f, ok := w.(Focusable); ok {
		f.SetFocused(true)
	}
}

func (t *Tree) contains(w Widget) bool {
	if t.content == nil {
		return false
	}
	for n := w; n != nil; {
		if n == t.content {
			return true
		}
		p := n.Parent()
		if p == nil {
			return false
		}
		n = p
	}
	return false
}

func (t *Tree) env(f render.Fonts) *Env {
	return &Env{Fonts: f, tree: t}
}

// Arrange sizes the content to fill size and lays it out.
func (t *Tree) Arrange(f render.Fonts, size geom.Size) {
	if t.content == nil {
		return
	}
	layoutChild(f, t.content, geom.R(0, 0, size.Width, size.Height))
}

// Render draws the content at the current origin of ctx.
func (t *Tree) Render(ctx *render.Context, size geom.Size) {
	if t.content == nil {
		return
	}
	t.Arrange(ctx.Fonts, size)
	renderChild(ctx, t.content)
}

// HandlePointer routes p, given relative to the content origin.
func (t *Tree) HandlePointer(f render.Fonts, p event.Pointer) bool {
	if t.content == nil {
		return false
	}
	hx, hy := p.Hit()
	if !t.content.Bounds().Contains(hx, hy) && p.Action != event.PointerRelease {
		return false
	}
	return deliver(t.env(f), t.content, p)
}

// HandleKey offers e to the focused widget and then to its ancestors. An
// unclaimed Tab moves focus to the next focusable widget.
func (t *Tree) HandleKey(f render.Fonts, e event.KeyEvent) bool {
	env := t.env(f)
	for w := t.Focused(); w != nil; {
		if kh, ok := w.(KeyHandler); ok && kh.HandleKey(env, e) {
			return true
		}
		p := w.Parent()
		if p == nil {
			break
		}
		w = p
	}
	if e.Down && e.Key == event.KeyTab && e.Mods&^event.ModShift == 0 {
		return t.cycleFocus(e.Mods&event.ModShift != 0)
	}
	return false
}

// Focusables lists the focusable widgets currently visible, in tree order.
func (t *Tree) Focusables() []Widget {
	var out []Widget
	var walk func(w Widget)
	walk = func(w Widget) {
		if _, ok := w.(Focusable); ok {
			out = append(out, w)
		}
		if c, ok := w.(Container); ok {
			for _, child := range visible(c) {
				walk(child)
			}
		}
	}
	if t.content != nil {
		walk(t.content)
	}
	return out
}

func (t *Tree) cycleFocus(backward bool) bool {
	list := t.Focusables()
	if len(list) == 0 {
		return false
	}
	cur := -1
	for i, w := range list {
		if w == t.Focused() {
			cur = i
			break
		}
	}
	next := 0
	switch {
	case cur < 0 && backward:
		next = len(list) - 1
	case cur >= 0 && backward:
		next = (cur - 1 + len(list)) % len(list)
	case cur >= 0:
		next = (cur + 1) % len(list)
	}
	t.SetFocus(list[next])
	return true
}
