package wm

import (
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

const closeGlyph = " x "

// Render draws the desktop, every frame back to front, then the move mode
// overlay.
func (w *WM) Render() {
	ctx := w.ctx
	if ctx.Stack.Reset() {
		w.logger.Warn("coordinate stack was not empty at the start of a render pass")
	}
	ctx.Fill(w.viewport, theme.Desktop)
	for _, f := range w.stack.BackToFront() {
		w.renderFrame(ctx, f)
	}
	w.move.Render(ctx, w.viewport)
}

func (w *WM) renderFrame(ctx *render.Context, f *frame.Frame) {
	b := f.Bounds()
	if !ctx.Stack.Visible(b) {
		return
	}
	ctx.Fill(b, theme.FrameBackground)

	border := theme.FrameBorder
	switch {
	case f == w.stack.Modal():
		border = theme.FrameBorderModal
	case f.Focused():
		border = theme.FrameBorderFocused
	}
	for i := range f.Border() {
		ctx.Stroke(b.Inset(i), border)
	}

	if f.HasTitlebar() {
		w.renderTitle(ctx, f)
	}

	cr := f.ContentRect()
	if cr.Empty() {
		return
	}
	ctx.Clipped(cr, func() {
		ctx.Translated(cr.X, cr.Y, func() {
			f.Tree().Render(ctx, cr.Size())
		})
	})
}

func (w *WM) renderTitle(ctx *render.Context, f *frame.Frame) {
	tr := f.TitleRect()
	if tr.Empty() {
		return
	}
	bg := theme.TitleBackground
	if f.Focused() {
		bg = theme.TitleFocused
	}
	ctx.Fill(tr, bg)

	lh := ctx.Fonts.LineHeight(render.FontTitle)
	y := tr.Y + (tr.Height-lh)/2
	text := tr
	if f.Closable() {
		cb := w.closeBox(f)
		text.Width = max(cb.X-tr.X, 0)
		ctx.Clipped(cb, func() {
			ctx.Text(cb.X, y, closeGlyph, render.FontTitle, theme.TitleText)
		})
	}
	pad := ctx.Fonts.StringWidth(render.FontTitle, " ")
	ctx.Clipped(text, func() {
		ctx.Text(text.X+pad, y, f.Title(), render.FontTitle, theme.TitleText)
	})
}

// closeBox is the absolute rectangle of the close button at the right end of
// the title bar.
func (w *WM) closeBox(f *frame.Frame) geom.Rect {
	tr := f.TitleRect()
	cw := min(w.ctx.Fonts.StringWidth(render.FontTitle, closeGlyph), tr.Width)
	return geom.R(tr.Right()-cw, tr.Y, cw, tr.Height)
}
