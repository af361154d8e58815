package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// FlowBox packs fixed-size children against both ends of its main axis and
// gives whatever is left to one optional expanding child.
type FlowBox struct {
	Base
	Orient Orientation
	Gap    int

	leading  []Widget
	trailing []Widget
	expander Widget
	expanded bool
}

// NewFlowBox creates an empty flow box.
func NewFlowBox(orient Orientation, gap int) *FlowBox {
	return &FlowBox{Orient: orient, Gap: gap}
}

// AddLeading appends w to the children packed at the start.
func (b *FlowBox) AddLeading(w Widget) {
	attach(b, w)
	b.leading = append(b.leading, w)
}

// AddTrailing appends w to the children packed at the end.
func (b *FlowBox) AddTrailing(w Widget) {
	attach(b, w)
	b.trailing = append(b.trailing, w)
}

// SetExpander sets the child that receives the remaining space. nil clears it.
func (b *FlowBox) SetExpander(w Widget) {
	if b.expander != nil {
		b.removeChild(b.expander)
	}
	if w == nil {
		return
	}
	attach(b, w)
	b.expander = w
}

// Expanded reports whether the expander got any space in the last layout.
func (b *FlowBox) Expanded() bool { return b.expander != nil && b.expanded }

func (b *FlowBox) Children() []Widget {
	out := make([]Widget, 0, len(b.leading)+len(b.trailing)+1)
	out = append(out, b.leading...)
	out = append(out, b.trailing...)
	if b.expander != nil {
		out = append(out, b.expander)
	}
	return out
}

func (b *FlowBox) visibleChildren() []Widget {
	out := append([]Widget(nil), b.leading...)
	out = append(out, b.trailing...)
	if b.Expanded() {
		out = append(out, b.expander)
	}
	return out
}

func (b *FlowBox) removeChild(w Widget) {
	if b.expander == w {
		w.node().parent = nil
		b.expander = nil
		b.expanded = false
		return
	}
	var ok bool
	if b.leading, ok = detachFrom(b.leading, w); ok {
		return
	}
	b.trailing, _ = detachFrom(b.trailing, w)
}

func (b *FlowBox) Layout(f render.Fonts) {
	size := b.Bounds().Size()
	length := b.Orient.main(size)
	cross := b.Orient.cross(size)

	pos := 0
	for _, c := range b.leading {
		l := b.Orient.main(c.PreferredSize(f))
		layoutChild(f, c, b.Orient.rect(pos, l, cross))
		pos += l + b.Gap
	}

	trailLen := 0
	lens := make([]int, len(b.trailing))
	for i, c := range b.trailing {
		lens[i] = b.Orient.main(c.PreferredSize(f))
		trailLen += lens[i]
	}
	if n := len(b.trailing); n > 0 {
		trailLen += b.Gap * (n - 1)
	}
	end := length - trailLen
	at := end
	for i, c := range b.trailing {
		layoutChild(f, c, b.Orient.rect(at, lens[i], cross))
		at += lens[i] + b.Gap
	}

	if b.expander == nil {
		return
	}
	remaining := end - pos
	if len(b.trailing) > 0 {
		remaining -= b.Gap
	}
	b.expanded = remaining > 0
	if !b.expanded {
		b.expander.SetBounds(geom.Rect{})
		return
	}
	layoutChild(f, b.expander, b.Orient.rect(pos, remaining, cross))
}

func (b *FlowBox) PreferredSize(f render.Fonts) geom.Size {
	main, cross := 0, 0
	for i, c := range b.Children() {
		ps := c.PreferredSize(f)
		main += b.Orient.main(ps)
		if i > 0 {
			main += b.Gap
		}
		cross = max(cross, b.Orient.cross(ps))
	}
	if b.Orient == Horizontal {
		return b.hinted(geom.Size{Width: main, Height: cross})
	}
	return b.hinted(geom.Size{Width: cross, Height: main})
}

func (b *FlowBox) Render(ctx *render.Context) {
	for _, c := range b.visibleChildren() {
		renderChild(ctx, c)
	}
}

func (b *FlowBox) HandlePointer(env *Env, p event.Pointer) bool {
	return route(env, b.visibleChildren(), p)
}
