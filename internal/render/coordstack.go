package render

import (
	"errors"

	"github.com/1broseidon/framewm/internal/geom"
)

// ErrUnbalanced is the panic value raised when a pop has no matching push.
// It signals corrupted render-state nesting and is never recovered.
var ErrUnbalanced = errors.New("render: coordinate stack pop without matching push")

// Clipper receives the effective scissor rectangle whenever it changes.
type Clipper interface {
	SetClip(r geom.Rect)
	ClearClip()
}

// CoordStack tracks cumulative translation and nested clip rectangles.
//
// Every pushed clip is the intersection of the requested rectangle with the
// clip beneath it, so a child clip never escapes its ancestors.
type CoordStack struct {
	clipper    Clipper
	viewport   geom.Rect
	translates []geom.Point
	clips      []geom.Rect
}

// NewCoordStack creates an empty stack clipping against viewport.
func NewCoordStack(clipper Clipper, viewport geom.Rect) *CoordStack {
	return &CoordStack{clipper: clipper, viewport: viewport}
}

// SetViewport updates the outermost clip. Only valid while the stack is empty.
func (s *CoordStack) SetViewport(r geom.Rect) {
	s.viewport = r
}

// Viewport returns the outermost clip.
func (s *CoordStack) Viewport() geom.Rect {
	return s.viewport
}

// Translation returns the cumulative translation.
func (s *CoordStack) Translation() geom.Point {
	if len(s.translates) == 0 {
		return geom.Point{}
	}
	return s.translates[len(s.translates)-1]
}

// Clip returns the effective clip rectangle in absolute coordinates.
func (s *CoordStack) Clip() geom.Rect {
	if len(s.clips) == 0 {
		return s.viewport
	}
	return s.clips[len(s.clips)-1]
}

// Depth returns the number of pushed translations and clips.
func (s *CoordStack) Depth() (translates, clips int) {
	return len(s.translates), len(s.clips)
}

// PushTranslate adds (dx, dy) to the cumulative translation.
func (s *CoordStack) PushTranslate(dx, dy int) {
	t := s.Translation()
	s.translates = append(s.translates, geom.Point{X: t.X + dx, Y: t.Y + dy})
}

// PopTranslate restores the previous translation.
func (s *CoordStack) PopTranslate() {
	if len(s.translates) == 0 {
		panic(ErrUnbalanced)
	}
	s.translates = s.translates[:len(s.translates)-1]
}

// PushScissor clips subsequent drawing to the local rectangle (x, y, w, h)
// intersected with the current clip.
func (s *CoordStack) PushScissor(x, y, w, h int) {
	t := s.Translation()
	req := geom.Rect{X: x + t.X, Y: y + t.Y, Width: w, Height: h}.Clamp()
	clip := req.Intersect(s.Clip())
	s.clips = append(s.clips, clip)
	if s.clipper != nil {
		s.clipper.SetClip(clip)
	}
}

// PopScissor restores the previous clip and reissues it to the clipper, or
// disables clipping when the stack becomes empty.
func (s *CoordStack) PopScissor() {
	if len(s.clips) == 0 {
		panic(ErrUnbalanced)
	}
	s.clips = s.clips[:len(s.clips)-1]
	if s.clipper == nil {
		return
	}
	if len(s.clips) == 0 {
		s.clipper.ClearClip()
		return
	}
	s.clipper.SetClip(s.clips[len(s.clips)-1])
}

// Visible reports whether the local rectangle r overlaps the current clip.
func (s *CoordStack) Visible(r geom.Rect) bool {
	t := s.Translation()
	return !r.Translate(t.X, t.Y).Intersect(s.Clip()).Empty()
}

// ToAbsolute converts a local point to absolute coordinates.
func (s *CoordStack) ToAbsolute(p geom.Point) geom.Point {
	return p.Add(s.Translation())
}

// Reset drops every entry. Called by the renderer at the start of a pass;
// a non-empty stack at that point means the previous pass leaked a push.
func (s *CoordStack) Reset() (leaked bool) {
	leaked = len(s.translates) != 0 || len(s.clips) != 0
	s.translates = s.translates[:0]
	s.clips = s.clips[:0]
	if s.clipper != nil {
		s.clipper.ClearClip()
	}
	return leaked
}
