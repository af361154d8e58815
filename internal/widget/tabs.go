package widget

import (
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

// Tabs shows one of several pages selected through a row of labels.
// Inactive pages keep their bounds and state untouched.
type Tabs struct {
	Base
	// Padding is added on both sides of every tab label.
	Padding int
	// OnChange is called after the active tab changes.
	OnChange func(index int)

	titles []string
	pages  []Widget
	active int
}

// NewTabs creates an empty tab container.
func NewTabs() *Tabs {
	return &Tabs{Padding: 6}
}

// AddTab appends a page. The first page added becomes active.
func (t *Tabs) AddTab(title string, page Widget) {
	attach(t, page)
	t.titles = append(t.titles, title)
	t.pages = append(t.pages, page)
}

// Len returns the number of tabs.
func (t *Tabs) Len() int { return len(t.pages) }

// Active returns the index of the visible page, or -1 when empty.
func (t *Tabs) Active() int {
	if len(t.pages) == 0 {
		return -1
	}
	return t.active
}

// Page returns the page at index i.
func (t *Tabs) Page(i int) Widget { return t.pages[i] }

// Title returns the label of tab i.
func (t *Tabs) Title(i int) string { return t.titles[i] }

// SetActive switches to tab i. Out-of-range indexes are ignored.
func (t *Tabs) SetActive(i int) {
	if i < 0 || i >= len(t.pages) || i == t.active {
		return
	}
	t.active = i
	if t.OnChange != nil {
		t.OnChange(i)
	}
}

func (t *Tabs) Children() []Widget { return t.pages }

func (t *Tabs) visibleChildren() []Widget {
	if len(t.pages) == 0 {
		return nil
	}
	return t.pages[t.active : t.active+1]
}

func (t *Tabs) removeChild(w Widget) {
	for i, p := range t.pages {
		if p != w {
			continue
		}
		p.node().parent = nil
		t.pages = append(t.pages[:i], t.pages[i+1:]...)
		t.titles = append(t.titles[:i], t.titles[i+1:]...)
		if t.active > i || t.active >= len(t.pages) {
			t.active = max(t.active-1, 0)
		}
		return
	}
}

// BarHeight is the height of the label row.
func (t *Tabs) BarHeight(f render.Fonts) int {
	return f.LineHeight(render.FontDefault) + 4
}

func (t *Tabs) tabWidth(f render.Fonts, i int) int {
	return f.StringWidth(render.FontDefault, t.titles[i]) + 2*t.Padding
}

// TabAt returns the tab whose label contains the local point, or -1.
func (t *Tabs) TabAt(f render.Fonts, x, y int) int {
	if y < 0 || y >= t.BarHeight(f) || x < 0 {
		return -1
	}
	acc := 0
	for i := range t.titles {
		w := t.tabWidth(f, i)
		if x < acc+w {
			return i
		}
		acc += w
	}
	return -1
}

func (t *Tabs) pageRect(f render.Fonts) geom.Rect {
	b := t.Bounds()
	bh := t.BarHeight(f)
	return geom.R(0, bh, b.Width, b.Height-bh).Clamp()
}

func (t *Tabs) Layout(f render.Fonts) {
	if len(t.pages) == 0 {
		return
	}
	layoutChild(f, t.pages[t.active], t.pageRect(f))
}

func (t *Tabs) PreferredSize(f render.Fonts) geom.Size {
	barW := 0
	for i := range t.titles {
		barW += t.tabWidth(f, i)
	}
	var page geom.Size
	for _, p := range t.pages {
		ps := p.PreferredSize(f)
		page.Width = max(page.Width, ps.Width)
		page.Height = max(page.Height, ps.Height)
	}
	return t.hinted(geom.Size{
		Width:  max(barW, page.Width),
		Height: t.BarHeight(f) + page.Height,
	})
}

func (t *Tabs) Render(ctx *render.Context) {
	b := t.Bounds()
	bh := t.BarHeight(ctx.Fonts)
	lh := ctx.Fonts.LineHeight(render.FontDefault)
	ctx.Fill(geom.R(0, 0, b.Width, bh), theme.TabBackground)
	x := 0
	for i, title := range t.titles {
		w := t.tabWidth(ctx.Fonts, i)
		if i == t.active {
			ctx.Fill(geom.R(x, 0, w, bh), theme.TabActive)
		}
		ctx.Text(x+t.Padding, (bh-lh)/2, title, render.FontDefault, theme.TabText)
		x += w
	}
	if len(t.pages) > 0 {
		renderChild(ctx, t.pages[t.active])
	}
}

func (t *Tabs) HandlePointer(env *Env, p event.Pointer) bool {
	hx, hy := p.Hit()
	if hy < t.BarHeight(env.Fonts) {
		if p.Action == event.PointerPress {
			if i := t.TabAt(env.Fonts, hx, hy); i >= 0 {
				t.SetActive(i)
			}
		}
		return true
	}
	return route(env, t.visibleChildren(), p)
}

// HandleKey switches tabs on Control-PageUp and Control-PageDown.
func (t *Tabs) HandleKey(_ *Env, e event.KeyEvent) bool {
	if !e.Down || e.Mods != event.ModCtrl || len(t.pages) == 0 {
		return false
	}
	switch e.Key {
	case event.KeyPageUp:
		t.SetActive((t.active - 1 + len(t.pages)) % len(t.pages))
	case event.KeyPageDown:
		t.SetActive((t.active + 1) % len(t.pages))
	default:
		return false
	}
	return true
}
