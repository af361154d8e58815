package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

// Label is a single line of static text.
type Label struct {
	Base
	Text  string
	Font  render.Font
	Color string
}

// NewLabel creates a label in the default font.
func NewLabel(text string) *Label {
	return &Label{Text: text, Font: render.FontDefault, Color: theme.WidgetText}
}

func (l *Label) PreferredSize(f render.Fonts) geom.Size {
	return l.hinted(geom.Size{
		Width:  f.StringWidth(l.Font, l.Text),
		Height: f.LineHeight(l.Font),
	})
}

func (l *Label) Render(ctx *render.Context) {
	lh := ctx.Fonts.LineHeight(l.Font)
	ctx.Text(0, (l.Bounds().Height-lh)/2, l.Text, l.Font, l.Color)
}

// Button raises Action when clicked.
type Button struct {
	Base
	Label  string
	Action string
	// OnClick runs before the action is emitted.
	OnClick func()

	pressed bool
	clicks  int
}

const buttonPad = 4

// NewButton creates a button that emits action.
func NewButton(label, action string) *Button {
	return &Button{Label: label, Action: action}
}

// Pressed reports whether the button is held down.
func (b *Button) Pressed() bool { return b.pressed }

// Clicks counts completed clicks.
func (b *Button) Clicks() int { return b.clicks }

func (b *Button) PreferredSize(f render.Fonts) geom.Size {
	return b.hinted(geom.Size{
		Width:  f.StringWidth(render.FontDefault, b.Label) + 2*buttonPad,
		Height: f.LineHeight(render.FontDefault) + buttonPad,
	})
}

func (b *Button) HandlePointer(env *Env, p event.Pointer) bool {
	if p.Button != event.ButtonLeft {
		return false
	}
	inside := geom.R(0, 0, b.Bounds().Width, b.Bounds().Height).Contains(p.X, p.Y)
	switch p.Action {
	case event.PointerPress:
		b.pressed = true
	case event.PointerDrag:
		b.pressed = inside
	case event.PointerRelease:
		b.pressed = false
	case event.PointerClick:
		b.pressed = false
		b.clicks++
		if b.OnClick != nil {
			b.OnClick()
		}
		env.Emit(b.Action, b)
	default:
		return false
	}
	return true
}

func (b *Button) Render(ctx *render.Context) {
	r := geom.R(0, 0, b.Bounds().Width, b.Bounds().Height)
	bg := theme.ButtonBackground
	if b.pressed {
		bg = theme.ButtonPressed
	}
	ctx.Fill(r, bg)
	ctx.Stroke(r, theme.WidgetBorder)
	tw := ctx.Fonts.StringWidth(render.FontDefault, b.Label)
	lh := ctx.Fonts.LineHeight(render.FontDefault)
	ctx.Text((r.Width-tw)/2, (r.Height-lh)/2, b.Label, render.FontDefault, theme.ButtonText)
}

// Checkbox toggles on click and raises Action with the new state available
// through Checked.
type Checkbox struct {
	Base
	Label   string
	Action  string
	Checked bool
	// OnToggle runs after the state changes.
	OnToggle func(checked bool)
}

// NewCheckbox creates an unchecked checkbox.
func NewCheckbox(label, action string) *Checkbox {
	return &Checkbox{Label: label, Action: action}
}

func (c *Checkbox) box(f render.Fonts) int {
	return f.LineHeight(render.FontDefault)
}

func (c *Checkbox) PreferredSize(f render.Fonts) geom.Size {
	sz := c.box(f)
	return c.hinted(geom.Size{
		Width:  sz + buttonPad + f.StringWidth(render.FontDefault, c.Label),
		Height: sz,
	})
}

func (c *Checkbox) HandlePointer(env *Env, p event.Pointer) bool {
	if p.Button != event.ButtonLeft {
		return false
	}
	switch p.Action {
	case event.PointerClick:
		c.Checked = !c.Checked
		if c.OnToggle != nil {
			c.OnToggle(c.Checked)
		}
		env.Emit(c.Action, c)
	case event.PointerPress, event.PointerDrag, event.PointerRelease:
	default:
		return false
	}
	return true
}

func (c *Checkbox) Render(ctx *render.Context) {
	sz := c.box(ctx.Fonts)
	lh := ctx.Fonts.LineHeight(render.FontDefault)
	y := (c.Bounds().Height - sz) / 2
	box := geom.R(0, y, sz, sz)
	ctx.Fill(box, theme.WidgetBackground)
	ctx.Stroke(box, theme.WidgetBorder)
	if c.Checked {
		ctx.Fill(box.Inset(max(sz/4, 1)), theme.CheckboxMark)
	}
	ctx.Text(sz+buttonPad, (c.Bounds().Height-lh)/2, c.Label, render.FontDefault, theme.WidgetText)
}

// TitleBorder draws a border with a caption around a single child.
type TitleBorder struct {
	Base
	Title  string
	Border int

	child Widget
}

// NewTitleBorder wraps child in a titled border.
func NewTitleBorder(title string, child Widget) *TitleBorder {
	t := &TitleBorder{Title: title, Border: 1}
	if child != nil {
		t.SetChild(child)
	}
	return t
}

// SetChild replaces the wrapped widget.
func (t *TitleBorder) SetChild(w Widget) {
	if t.child != nil {
		t.removeChild(t.child)
	}
	if w != nil {
		attach(t, w)
	}
	t.child = w
}

func (t *TitleBorder) Child() Widget { return t.child }

func (t *TitleBorder) Children() []Widget {
	if t.child == nil {
		return nil
	}
	return []Widget{t.child}
}

func (t *TitleBorder) removeChild(w Widget) {
	if t.child == w {
		w.node().parent = nil
		t.child = nil
	}
}

func (t *TitleBorder) inner(f render.Fonts) geom.Rect {
	b := t.Bounds()
	top := f.LineHeight(render.FontDefault)
	return geom.R(t.Border, top, b.Width-2*t.Border, b.Height-top-t.Border).Clamp()
}

func (t *TitleBorder) Layout(f render.Fonts) {
	if t.child != nil {
		layoutChild(f, t.child, t.inner(f))
	}
}

func (t *TitleBorder) PreferredSize(f render.Fonts) geom.Size {
	var ps geom.Size
	if t.child != nil {
		ps = t.child.PreferredSize(f)
	}
	lh := f.LineHeight(render.FontDefault)
	return t.hinted(geom.Size{
		Width:  max(ps.Width+2*t.Border, f.StringWidth(render.FontDefault, t.Title)+lh+2),
		Height: ps.Height + lh + t.Border,
	})
}

func (t *TitleBorder) Render(ctx *render.Context) {
	b := t.Bounds()
	lh := ctx.Fonts.LineHeight(render.FontDefault)
	ctx.Stroke(geom.R(0, lh/2, b.Width, b.Height-lh/2), theme.WidgetBorder)
	if t.Title != "" {
		tw := ctx.Fonts.StringWidth(render.FontDefault, t.Title)
		ctx.Fill(geom.R(lh/2, 0, tw+2, lh), theme.WidgetBackground)
		ctx.Text(lh/2+1, 0, t.Title, render.FontDefault, theme.WidgetText)
	}
	if t.child != nil {
		renderChild(ctx, t.child)
	}
}

func (t *TitleBorder) HandlePointer(env *Env, p event.Pointer) bool {
	if t.child == nil {
		return false
	}
	return route(env, []Widget{t.child}, p)
}
