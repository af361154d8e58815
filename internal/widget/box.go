package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// Box lays children out along one axis in proportion to their weights.
type Box struct {
	Base
	Orient Orientation
	// Gap is the fixed spacing between adjacent children.
	Gap int

	children []Widget
	weights  []int
}

// NewBox creates an empty box.
func NewBox(orient Orientation, gap int) *Box {
	return &Box{Orient: orient, Gap: gap}
}

// Add appends w with the given weight. A widget owned elsewhere is detached
// first.
func (b *Box) Add(w Widget, weight int) {
	attach(b, w)
	b.children = append(b.children, w)
	b.weights = append(b.weights, weight)
}

// Remove detaches w from the box.
func (b *Box) Remove(w Widget) { b.removeChild(w) }

func (b *Box) Children() []Widget { return b.children }

func (b *Box) removeChild(w Widget) {
	for i, c := range b.children {
		if c == w {
			c.node().parent = nil
			b.children = append(b.children[:i], b.children[i+1:]...)
			b.weights = append(b.weights[:i], b.weights[i+1:]...)
			return
		}
	}
}

// Distribute splits avail among weights so the lengths sum to avail exactly.
// All-zero weights split evenly.
func Distribute(avail int, weights []int) []int {
	return geom.Distribute(avail, weights)
}

func (b *Box) Layout(f render.Fonts) {
	n := len(b.children)
	if n == 0 {
		return
	}
	size := b.Bounds().Size()
	avail := max(b.Orient.main(size)-b.Gap*(n-1), 0)
	cross := b.Orient.cross(size)
	pos := 0
	for i, length := range Distribute(avail, b.weights) {
		layoutChild(f, b.children[i], b.Orient.rect(pos, length, cross))
		pos += length + b.Gap
	}
}

func (b *Box) PreferredSize(f render.Fonts) geom.Size {
	main, cross := 0, 0
	for i, c := range b.children {
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

func (b *Box) Render(ctx *render.Context) {
	for _, c := range b.children {
		renderChild(ctx, c)
	}
}

func (b *Box) HandlePointer(env *Env, p event.Pointer) bool {
	return route(env, b.children, p)
}
