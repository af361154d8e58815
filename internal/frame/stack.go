package frame

import "slices"

// Stack orders frames by z-order with the head (index 0) topmost. At most
// one frame is focused. A modal frame, when set, is both focused and at the
// head until it is cleared.
type Stack struct {
	owner   *Owner
	frames  []*Frame
	focused *Frame
	modal   *Frame
}

// NewStack creates an empty stack owned by o.
func NewStack(o *Owner) *Stack {
	return &Stack{owner: o}
}

// Owner returns the token required for mutation.
func (s *Stack) Owner() *Owner { return s.owner }

func (s *Stack) Len() int        { return len(s.frames) }
func (s *Stack) Focused() *Frame { return s.focused }
func (s *Stack) Modal() *Frame   { return s.modal }
func (s *Stack) Head() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[0]
}

// Contains reports whether f is in the stack.
func (s *Stack) Contains(f *Frame) bool {
	return f != nil && slices.Contains(s.frames, f)
}

// ByID returns the frame with the given id, or nil.
func (s *Stack) ByID(id uint64) *Frame {
	for _, f := range s.frames {
		if f.id == id {
			return f
		}
	}
	return nil
}

// FrontToBack returns the frames head first, the order used for hit-testing.
func (s *Stack) FrontToBack() []*Frame {
	return slices.Clone(s.frames)
}

// BackToFront returns the frames head last, the order used for painting.
func (s *Stack) BackToFront() []*Frame {
	out := slices.Clone(s.frames)
	slices.Reverse(out)
	return out
}

// FindTopmost returns the first frame in z-order whose bounds contain the
// point, or nil.
func (s *Stack) FindTopmost(x, y int) *Frame {
	for _, f := range s.frames {
		if f.bounds.Contains(x, y) {
			return f
		}
	}
	return nil
}

func (s *Stack) index(f *Frame) int {
	return slices.Index(s.frames, f)
}

// Add inserts f at the head and focuses it. While a modal frame is set, f
// goes directly below the modal and does not take focus. Adding a frame that
// is already present moves it as Foreground would.
func (s *Stack) Add(o *Owner, f *Frame) {
	check(s.owner, o, "Add", f.id)
	check(s.owner, f.owner, "Add", f.id)
	if i := s.index(f); i >= 0 {
		s.frames = slices.Delete(s.frames, i, i+1)
	}
	if s.modal != nil && f != s.modal {
		s.frames = slices.Insert(s.frames, 1, f)
		return
	}
	s.frames = slices.Insert(s.frames, 0, f)
	s.setFocus(f)
}

// Remove takes f out of the stack. Removing the focused frame focuses the
// new head; removing the modal frame clears the modal.
func (s *Stack) Remove(o *Owner, f *Frame) {
	check(s.owner, o, "Remove", f.id)
	i := s.index(f)
	if i < 0 {
		return
	}
	s.frames = slices.Delete(s.frames, i, i+1)
	if s.modal == f {
		s.modal = nil
	}
	f.dragged, f.resized = false, false
	if s.focused == f {
		f.setFocused(false)
		s.focused = nil
		s.setFocus(s.Head())
	}
}

// Foreground focuses f and moves it to the head. While a modal frame is set
// only the modal itself can be foregrounded.
func (s *Stack) Foreground(o *Owner, f *Frame) {
	check(s.owner, o, "Foreground", f.id)
	if !s.allowed(f) {
		return
	}
	i := s.index(f)
	if i > 0 {
		s.frames = slices.Delete(s.frames, i, i+1)
		s.frames = slices.Insert(s.frames, 0, f)
	}
	s.setFocus(f)
}

// Focus focuses f without changing z-order. While a modal frame is set only
// the modal itself can take focus.
func (s *Stack) Focus(o *Owner, f *Frame) {
	check(s.owner, o, "Focus", f.id)
	if !s.allowed(f) {
		return
	}
	s.setFocus(f)
}

// Unfocus clears focus unless a modal frame holds it.
func (s *Stack) Unfocus(o *Owner) {
	check(s.owner, o, "Unfocus", 0)
	if s.modal != nil {
		return
	}
	s.setFocus(nil)
}

func (s *Stack) allowed(f *Frame) bool {
	if s.index(f) < 0 {
		return false
	}
	return s.modal == nil || s.modal == f
}

// setFocus clears the previous focus before setting the new one.
func (s *Stack) setFocus(f *Frame) {
	if s.focused != nil {
		s.focused.setFocused(false)
	}
	s.focused = f
	if f != nil {
		f.setFocused(true)
	}
}

// SetModal replaces the modal frame. The previous modal is removed from the
// stack; the new one is added, foregrounded and focused. A nil f clears the
// modal and removes the previous modal frame.
func (s *Stack) SetModal(o *Owner, f *Frame) {
	var id uint64
	if f != nil {
		id = f.id
	}
	check(s.owner, o, "SetModal", id)
	if prev := s.modal; prev != nil && prev != f {
		s.modal = nil
		s.Remove(o, prev)
	}
	if f == nil {
		return
	}
	s.modal = nil
	s.Add(o, f)
	s.modal = f
}

// Cycle moves focus to the next (dir > 0) or previous frame in z-order and
// foregrounds it. It does nothing while a modal frame is set.
func (s *Stack) Cycle(o *Owner, dir int) *Frame {
	check(s.owner, o, "Cycle", 0)
	n := len(s.frames)
	if n == 0 || s.modal != nil {
		return s.focused
	}
	if n == 1 {
		s.Foreground(o, s.frames[0])
		return s.frames[0]
	}
	var next *Frame
	if dir >= 0 {
		// The old head drops to the bottom.
		head := s.frames[0]
		s.frames = append(s.frames[1:], head)
		next = s.frames[0]
	} else {
		next = s.frames[n-1]
		s.frames = slices.Insert(s.frames[:n-1], 0, next)
	}
	s.setFocus(next)
	return next
}
