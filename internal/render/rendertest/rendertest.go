// Package rendertest provides recording fakes for the render collaborators.
package rendertest

import (
	"fmt"
	"unicode/utf8"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// Op is one recorded painter call.
type Op struct {
	Kind string // fill, stroke, loop, quad, text, clip, noclip
	Rect geom.Rect
	Text string
	Clip geom.Rect
}

func (o Op) String() string {
	switch o.Kind {
	case "text":
		return fmt.Sprintf("text %q at %d,%d", o.Text, o.Rect.X, o.Rect.Y)
	default:
		return fmt.Sprintf("%s %+v", o.Kind, o.Rect)
	}
}

// Painter records every call along with the clip active at the time.
type Painter struct {
	Ops  []Op
	clip *geom.Rect
}

var _ render.Painter = (*Painter)(nil)

func (p *Painter) current() geom.Rect {
	if p.clip == nil {
		return geom.Rect{}
	}
	return *p.clip
}

func (p *Painter) FillRect(r geom.Rect, _ render.Color, _ float64) {
	p.Ops = append(p.Ops, Op{Kind: "fill", Rect: r, Clip: p.current()})
}

func (p *Painter) StrokeRect(r geom.Rect, _ render.Color, _ float64) {
	p.Ops = append(p.Ops, Op{Kind: "stroke", Rect: r, Clip: p.current()})
}

func (p *Painter) LineLoop(pts []geom.Point, _ render.Color, _ float64) {
	if len(pts) == 0 {
		return
	}
	p.Ops = append(p.Ops, Op{Kind: "loop", Rect: geom.R(pts[0].X, pts[0].Y, 0, 0), Clip: p.current()})
}

func (p *Painter) TexturedQuad(v [4]geom.Point, _ [4]render.Color, _ [4]render.UV, _ render.Texture) {
	p.Ops = append(p.Ops, Op{Kind: "quad", Rect: geom.R(v[0].X, v[0].Y, v[2].X-v[0].X, v[2].Y-v[0].Y), Clip: p.current()})
}

func (p *Painter) Text(x, y int, s string, _ render.Font, _ render.Color, _ float64) {
	p.Ops = append(p.Ops, Op{Kind: "text", Rect: geom.R(x, y, 0, 0), Text: s, Clip: p.current()})
}

func (p *Painter) SetClip(r geom.Rect) {
	p.clip = &r
	p.Ops = append(p.Ops, Op{Kind: "clip", Rect: r})
}

func (p *Painter) ClearClip() {
	p.clip = nil
	p.Ops = append(p.Ops, Op{Kind: "noclip"})
}

// Kind returns the recorded ops of one kind.
func (p *Painter) Kind(kind string) []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns every drawn string in order.
func (p *Painter) Texts() []string {
	var out []string
	for _, op := range p.Kind("text") {
		out = append(out, op.Text)
	}
	return out
}

// Reset forgets recorded ops.
func (p *Painter) Reset() {
	p.Ops = nil
}

// Fonts measures every rune as CharWidth pixels.
type Fonts struct {
	CharWidth int
	Height    int
}

func (f Fonts) StringWidth(_ render.Font, s string) int {
	return utf8.RuneCountInString(s) * f.CharWidth
}

func (f Fonts) LineHeight(_ render.Font) int {
	return f.Height
}

// Theme returns black for every name and full opacity.
type Theme struct{}

func (Theme) Color(string) render.Color { return render.Color{} }
func (Theme) Alpha(string) float64      { return 1 }

// Cursor records the most recent icon.
type Cursor struct {
	Icon    render.CursorIcon
	Changes int
}

func (c *Cursor) SetCursor(icon render.CursorIcon) {
	c.Icon = icon
	c.Changes++
}

// NewContext builds a render context over fakes with a fixed-width font.
func NewContext(viewport geom.Rect) (*render.Context, *Painter) {
	p := &Painter{}
	ctx := render.NewContext(p, Fonts{CharWidth: 8, Height: 16}, Theme{}, &Cursor{}, viewport)
	return ctx, p
}
