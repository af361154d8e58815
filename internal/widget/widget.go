// Package widget implements the retained widget tree rendered inside frames.
//
// Widgets are composed from small capability interfaces. Every widget embeds
// Base, which carries its bounds (relative to the parent's origin), its size
// hints and a non-owning parent link. Containers own their children; the
// parent link only exists so that adding a widget to a new container can
// detach it from the old one.
package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// Renderable draws itself at local origin (0, 0) through ctx.
type Renderable interface {
	Render(ctx *render.Context)
}

// Resizable has bounds assigned by its parent and reports the size it wants.
type Resizable interface {
	Bounds() geom.Rect
	SetBounds(r geom.Rect)
	PreferredSize(f render.Fonts) geom.Size
}

// Clickable receives pointer events in local coordinates.
type Clickable interface {
	HandlePointer(env *Env, p event.Pointer) bool
}

// Focusable can hold keyboard focus within a frame.
type Focusable interface {
	SetFocused(focused bool)
	Focused() bool
}

// KeyHandler receives key events while it, or a descendant, has focus.
type KeyHandler interface {
	HandleKey(env *Env, e event.KeyEvent) bool
}

// Layouter positions its children after its own bounds are set.
type Layouter interface {
	Layout(f render.Fonts)
}

// Widget is the minimum every tree node provides. Implement it by embedding
// Base.
type Widget interface {
	Renderable
	Resizable
	Parent() Container
	node() *Base
}

// Container is a widget that owns children.
type Container interface {
	Widget
	Children() []Widget
	removeChild(w Widget)
}

// visibler is implemented by containers that hide some of their children.
type visibler interface {
	visibleChildren() []Widget
}

// Orientation is the main axis of a box.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) main(s geom.Size) int {
	if o == Horizontal {
		return s.Width
	}
	return s.Height
}

func (o Orientation) cross(s geom.Size) int {
	if o == Horizontal {
		return s.Height
	}
	return s.Width
}

// rect builds a rectangle from main/cross axis coordinates.
func (o Orientation) rect(pos, length, cross int) geom.Rect {
	if o == Horizontal {
		return geom.R(pos, 0, length, cross)
	}
	return geom.R(0, pos, cross, length)
}

// Base carries the state shared by all widgets.
type Base struct {
	bounds geom.Rect
	parent Container
	// root is the tree holding this widget as its content, if any.
	root *Tree

	// Hint overrides the intrinsic preferred size on each nonzero axis.
	Hint geom.Size
	// MinSize is a floor applied to the preferred size.
	MinSize geom.Size
}

// Bounds returns the widget rectangle relative to its parent.
func (b *Base) Bounds() geom.Rect { return b.bounds }

// SetBounds assigns the widget rectangle. Negative sizes clamp to zero.
func (b *Base) SetBounds(r geom.Rect) { b.bounds = r.Clamp() }

// Parent returns the owning container, or nil.
func (b *Base) Parent() Container { return b.parent }

func (b *Base) node() *Base { return b }

// PreferredSize returns the hint clamped to the minimum size.
func (b *Base) PreferredSize(render.Fonts) geom.Size {
	return b.hinted(geom.Size{})
}

func (b *Base) hinted(s geom.Size) geom.Size {
	if b.Hint.Width > 0 {
		s.Width = b.Hint.Width
	}
	if b.Hint.Height > 0 {
		s.Height = b.Hint.Height
	}
	s.Width = max(s.Width, b.MinSize.Width)
	s.Height = max(s.Height, b.MinSize.Height)
	return s.Clamp()
}

// attach links child to parent, first detaching it from any previous owner.
func attach(parent Container, child Widget) {
	Detach(child)
	child.node().parent = parent
}

// detachFrom removes w from list and clears its parent link.
func detachFrom(list []Widget, w Widget) ([]Widget, bool) {
	for i, c := range list {
		if c == w {
			c.node().parent = nil
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// Detach removes w from its container or from the tree it is the content
// of.
func Detach(w Widget) {
	n := w.node()
	if n.parent != nil {
		n.parent.removeChild(w)
	}
	if n.root != nil {
		n.root.release(w)
	}
}

// layoutChild sets the bounds of child and lays it out if it is a container.
func layoutChild(f render.Fonts, child Widget, r geom.Rect) {
	child.SetBounds(r)
	if l, ok := child.(Layouter); ok {
		l.Layout(f)
	}
}

// renderChild draws child translated to its origin and clipped to its bounds.
func renderChild(ctx *render.Context, child Widget) {
	b := child.Bounds()
	if b.Empty() {
		return
	}
	ctx.Translated(b.X, b.Y, func() {
		ctx.Clipped(geom.R(0, 0, b.Width, b.Height), func() {
			child.Render(ctx)
		})
	})
}

// deliver hands p, given in the parent's space, to child.
func deliver(env *Env, child Widget, p event.Pointer) bool {
	b := child.Bounds()
	if p.Action == event.PointerPress {
		if _, ok := child.(Focusable); ok {
			env.Focus(child)
		}
	}
	c, ok := child.(Clickable)
	if !ok {
		return false
	}
	return c.HandlePointer(env, p.Translate(b.X, b.Y))
}

// route delivers p to the last child whose bounds contain the hit point.
func route(env *Env, children []Widget, p event.Pointer) bool {
	hx, hy := p.Hit()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.Bounds().Contains(hx, hy) {
			return deliver(env, c, p)
		}
	}
	return false
}

func visible(c Container) []Widget {
	if v, ok := c.(visibler); ok {
		return v.visibleChildren()
	}
	return c.Children()
}
