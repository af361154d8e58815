package widget

import (
	"math"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

// CaretFollower is implemented by children whose caret a scroll box keeps in
// view.
type CaretFollower interface {
	CaretRect(f render.Fonts) geom.Rect
	// TakeCaretMoved reports and clears whether the caret moved since the
	// last call.
	TakeCaretMoved() bool
}

type axis int

const (
	axisNone axis = iota
	axisX
	axisY
)

// ScrollBox shows a viewport onto a single child that may be larger than the
// box, with scrollbars on the axes that overflow.
type ScrollBox struct {
	Base
	// BarSize is the scrollbar thickness.
	BarSize int
	// Step is the scroll distance of one wheel notch. Zero uses three lines.
	Step int

	child   Widget
	fracX   float64
	fracY   float64
	hbar    bool
	vbar    bool
	view    geom.Size
	content geom.Size

	grab       axis
	grabOffset int
}

// NewScrollBox wraps child in a scroll viewport.
func NewScrollBox(child Widget) *ScrollBox {
	s := &ScrollBox{BarSize: 8}
	if child != nil {
		s.SetChild(child)
	}
	return s
}

// SetChild replaces the scrolled child and resets the scroll position.
func (s *ScrollBox) SetChild(w Widget) {
	if s.child != nil {
		s.removeChild(s.child)
	}
	if w != nil {
		attach(s, w)
	}
	s.child = w
	s.fracX, s.fracY = 0, 0
}

func (s *ScrollBox) Child() Widget { return s.child }

func (s *ScrollBox) Children() []Widget {
	if s.child == nil {
		return nil
	}
	return []Widget{s.child}
}

func (s *ScrollBox) removeChild(w Widget) {
	if s.child == w {
		w.node().parent = nil
		s.child = nil
	}
}

// Scroll returns the normalized scroll position on each axis.
func (s *ScrollBox) Scroll() (x, y float64) { return s.fracX, s.fracY }

// SetScroll sets the normalized scroll position, clamped to [0, 1].
func (s *ScrollBox) SetScroll(x, y float64) {
	s.fracX = clampFrac(x)
	s.fracY = clampFrac(y)
}

// Bars reports which scrollbars the last layout needed.
func (s *ScrollBox) Bars() (horizontal, vertical bool) { return s.hbar, s.vbar }

// View returns the viewport size left after scrollbars.
func (s *ScrollBox) View() geom.Size { return s.view }

func clampFrac(v float64) float64 {
	return min(max(v, 0), 1)
}

// ThumbLength is the scrollbar thumb length for a viewport of length view
// over content of length content. It fills the track when nothing overflows.
func ThumbLength(view, content int) int {
	if view <= 0 {
		return 0
	}
	if content <= view {
		return view
	}
	return max(view*view/content, 1)
}

func thumbPos(track, length int, frac float64) int {
	return int(frac*float64(track-length) + 0.5)
}

// needBars decides scrollbar visibility. Showing one bar shrinks the space
// for the other axis, so the check runs twice.
func needBars(pref, box geom.Size, bar int) (h, v bool) {
	for range 2 {
		availW := box.Width
		if v {
			availW -= bar
		}
		availH := box.Height
		if h {
			availH -= bar
		}
		h = pref.Width > availW
		v = pref.Height > availH
	}
	return h, v
}

func (s *ScrollBox) offset() geom.Point {
	return geom.Point{
		X: int(math.Round(s.fracX * float64(s.content.Width-s.view.Width))),
		Y: int(math.Round(s.fracY * float64(s.content.Height-s.view.Height))),
	}
}

func (s *ScrollBox) Layout(f render.Fonts) {
	if s.child == nil {
		s.hbar, s.vbar = false, false
		s.view = s.Bounds().Size()
		return
	}
	box := s.Bounds().Size()
	pref := s.child.PreferredSize(f)
	s.hbar, s.vbar = needBars(pref, box, s.BarSize)

	s.view = box
	if s.vbar {
		s.view.Width -= s.BarSize
	}
	if s.hbar {
		s.view.Height -= s.BarSize
	}
	s.view = s.view.Clamp()
	s.content = geom.Size{
		Width:  max(pref.Width, s.view.Width),
		Height: max(pref.Height, s.view.Height),
	}
	if !s.hbar {
		s.fracX = 0
	}
	if !s.vbar {
		s.fracY = 0
	}

	if cf, ok := s.child.(CaretFollower); ok && cf.TakeCaretMoved() {
		// The caret rect depends on the child's text, not its bounds, so it
		// can be read before the child is positioned.
		s.follow(cf.CaretRect(f))
	}

	off := s.offset()
	layoutChild(f, s.child, geom.R(-off.X, -off.Y, s.content.Width, s.content.Height))
}

// follow scrolls the minimum distance that brings r, in content
// coordinates, into the viewport.
func (s *ScrollBox) follow(r geom.Rect) {
	off := s.offset()
	if over := s.content.Width - s.view.Width; over > 0 {
		x := off.X
		if r.X < x {
			x = r.X
		} else if r.Right() > x+s.view.Width {
			x = r.Right() - s.view.Width
		}
		s.fracX = clampFrac(float64(x) / float64(over))
	}
	if over := s.content.Height - s.view.Height; over > 0 {
		y := off.Y
		if r.Y < y {
			y = r.Y
		} else if r.Bottom() > y+s.view.Height {
			y = r.Bottom() - s.view.Height
		}
		s.fracY = clampFrac(float64(y) / float64(over))
	}
}

func (s *ScrollBox) vtrack() geom.Rect {
	return geom.R(s.view.Width, 0, s.BarSize, s.view.Height)
}

func (s *ScrollBox) htrack() geom.Rect {
	return geom.R(0, s.view.Height, s.view.Width, s.BarSize)
}

// VThumb returns the vertical thumb rectangle in local coordinates.
func (s *ScrollBox) VThumb() geom.Rect {
	t := s.vtrack()
	l := ThumbLength(s.view.Height, s.content.Height)
	return geom.R(t.X, thumbPos(t.Height, l, s.fracY), t.Width, l)
}

// HThumb returns the horizontal thumb rectangle in local coordinates.
func (s *ScrollBox) HThumb() geom.Rect {
	t := s.htrack()
	l := ThumbLength(s.view.Width, s.content.Width)
	return geom.R(thumbPos(t.Width, l, s.fracX), t.Y, l, t.Height)
}

func (s *ScrollBox) PreferredSize(f render.Fonts) geom.Size {
	var ps geom.Size
	if s.child != nil {
		ps = s.child.PreferredSize(f)
	}
	return s.hinted(ps)
}

func (s *ScrollBox) Render(ctx *render.Context) {
	if s.child != nil {
		ctx.Clipped(geom.R(0, 0, s.view.Width, s.view.Height), func() {
			renderChild(ctx, s.child)
		})
	}
	if s.vbar {
		ctx.Fill(s.vtrack(), theme.ScrollTrack)
		ctx.Fill(s.VThumb(), theme.ScrollThumb)
	}
	if s.hbar {
		ctx.Fill(s.htrack(), theme.ScrollTrack)
		ctx.Fill(s.HThumb(), theme.ScrollThumb)
	}
	if s.vbar && s.hbar {
		ctx.Fill(geom.R(s.view.Width, s.view.Height, s.BarSize, s.BarSize), theme.ScrollTrack)
	}
}

func (s *ScrollBox) step(f render.Fonts) int {
	if s.Step > 0 {
		return s.Step
	}
	if f == nil {
		return 3
	}
	return 3 * f.LineHeight(render.FontDefault)
}

// scrollBy moves the scroll position by px pixels along a.
func (s *ScrollBox) scrollBy(a axis, px int) bool {
	switch a {
	case axisY:
		over := s.content.Height - s.view.Height
		if over <= 0 {
			return false
		}
		s.fracY = clampFrac(s.fracY + float64(px)/float64(over))
	case axisX:
		over := s.content.Width - s.view.Width
		if over <= 0 {
			return false
		}
		s.fracX = clampFrac(s.fracX + float64(px)/float64(over))
	default:
		return false
	}
	return true
}

func (s *ScrollBox) HandlePointer(env *Env, p event.Pointer) bool {
	if s.grab != axisNone {
		switch p.Action {
		case event.PointerDrag:
			s.dragThumb(p)
			return true
		case event.PointerRelease, event.PointerClick:
			if p.Action == event.PointerRelease {
				s.grab = axisNone
			}
			return true
		}
	}

	hx, hy := p.Hit()
	switch {
	case s.vbar && s.vtrack().Contains(hx, hy):
		return s.pressBar(p, axisY)
	case s.hbar && s.htrack().Contains(hx, hy):
		return s.pressBar(p, axisX)
	}

	if s.child != nil && geom.R(0, 0, s.view.Width, s.view.Height).Contains(hx, hy) {
		if deliver(env, s.child, p) {
			return true
		}
	}
	if p.Action == event.PointerScroll {
		a := axisY
		if !s.vbar || p.Mods&event.ModShift != 0 {
			a = axisX
		}
		return s.scrollBy(a, p.Scroll*s.step(env.Fonts))
	}
	return false
}

func (s *ScrollBox) pressBar(p event.Pointer, a axis) bool {
	if p.Action == event.PointerScroll {
		return s.scrollBy(a, p.Scroll*s.step(nil))
	}
	if p.Action != event.PointerPress {
		return true
	}
	thumb, view := s.VThumb(), s.view.Height
	at, start := p.Y, thumb.Y
	end := thumb.Bottom()
	if a == axisX {
		thumb, view = s.HThumb(), s.view.Width
		at, start, end = p.X, thumb.X, thumb.Right()
	}
	switch {
	case at < start:
		s.scrollBy(a, -view)
	case at >= end:
		s.scrollBy(a, view)
	default:
		s.grab = a
		s.grabOffset = at - start
	}
	return true
}

func (s *ScrollBox) dragThumb(p event.Pointer) {
	switch s.grab {
	case axisY:
		t := s.vtrack()
		l := ThumbLength(s.view.Height, s.content.Height)
		if free := t.Height - l; free > 0 {
			s.fracY = clampFrac(float64(p.Y-s.grabOffset) / float64(free))
		}
	case axisX:
		t := s.htrack()
		l := ThumbLength(s.view.Width, s.content.Width)
		if free := t.Width - l; free > 0 {
			s.fracX = clampFrac(float64(p.X-s.grabOffset) / float64(free))
		}
	}
}
