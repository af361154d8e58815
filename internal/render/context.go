package render

import "github.com/1broseidon/framewm/internal/geom"

// Context bundles the collaborators every render and layout call needs. It is
// built once by the host and passed down explicitly; only Stack changes
// during a pass.
type Context struct {
	Painter Painter
	Fonts   Fonts
	Theme   Theme
	Cursor  CursorSetter
	Stack   *CoordStack
}

// NewContext wires a coordinate stack to the painter.
func NewContext(p Painter, fonts Fonts, theme Theme, cursor CursorSetter, viewport geom.Rect) *Context {
	return &Context{
		Painter: p,
		Fonts:   fonts,
		Theme:   theme,
		Cursor:  cursor,
		Stack:   NewCoordStack(p, viewport),
	}
}

func (c *Context) abs(r geom.Rect) (geom.Rect, bool) {
	t := c.Stack.Translation()
	a := r.Clamp().Translate(t.X, t.Y)
	if a.Intersect(c.Stack.Clip()).Empty() {
		return a, false
	}
	return a, true
}

// Fill draws a filled rectangle in local coordinates using a theme color.
func (c *Context) Fill(r geom.Rect, colorName string) {
	c.FillColor(r, c.Theme.Color(colorName), c.Theme.Alpha(colorName))
}

// FillColor draws a filled rectangle in local coordinates.
func (c *Context) FillColor(r geom.Rect, col Color, alpha float64) {
	if a, ok := c.abs(r); ok {
		c.Painter.FillRect(a, col, alpha)
	}
}

// Stroke outlines a rectangle in local coordinates using a theme color.
func (c *Context) Stroke(r geom.Rect, colorName string) {
	if a, ok := c.abs(r); ok {
		c.Painter.StrokeRect(a, c.Theme.Color(colorName), c.Theme.Alpha(colorName))
	}
}

// LineLoop draws a closed polyline through local points.
func (c *Context) LineLoop(pts []geom.Point, colorName string) {
	if len(pts) < 2 {
		return
	}
	t := c.Stack.Translation()
	abs := make([]geom.Point, len(pts))
	for i, p := range pts {
		abs[i] = p.Add(t)
	}
	c.Painter.LineLoop(abs, c.Theme.Color(colorName), c.Theme.Alpha(colorName))
}

// TexturedQuad draws a textured quad given local vertices.
func (c *Context) TexturedQuad(vertices [4]geom.Point, colors [4]Color, uv [4]UV, tex Texture) {
	t := c.Stack.Translation()
	for i := range vertices {
		vertices[i] = vertices[i].Add(t)
	}
	c.Painter.TexturedQuad(vertices, colors, uv, tex)
}

// Text draws s with its top-left corner at the local point (x, y).
func (c *Context) Text(x, y int, s string, font Font, colorName string) {
	if s == "" {
		return
	}
	w := c.Fonts.StringWidth(font, s)
	h := c.Fonts.LineHeight(font)
	if _, ok := c.abs(geom.R(x, y, w, h)); !ok {
		return
	}
	t := c.Stack.Translation()
	c.Painter.Text(x+t.X, y+t.Y, s, font, c.Theme.Color(colorName), c.Theme.Alpha(colorName))
}

// SetCursor forwards to the host cursor setter if one is configured.
func (c *Context) SetCursor(icon CursorIcon) {
	if c.Cursor != nil {
		c.Cursor.SetCursor(icon)
	}
}

// Translated runs fn with an extra translation and always pops it.
func (c *Context) Translated(dx, dy int, fn func()) {
	c.Stack.PushTranslate(dx, dy)
	defer c.Stack.PopTranslate()
	fn()
}

// Clipped runs fn inside a scissor for the local rectangle r. fn is skipped
// when the resulting clip has no area.
func (c *Context) Clipped(r geom.Rect, fn func()) {
	c.Stack.PushScissor(r.X, r.Y, r.Width, r.Height)
	defer c.Stack.PopScissor()
	if c.Stack.Clip().Empty() {
		return
	}
	fn()
}
