// Package input turns raw key and mouse transitions into frame focus, move
// and resize operations, and forwards the rest to the widget trees.
package input

import (
	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/region"
	"github.com/1broseidon/framewm/internal/render"
)

// Callbacks connect the machine to the window manager. Nil fields are
// skipped.
type Callbacks struct {
	// Shortcut gets first refusal on every key event.
	Shortcut func(e event.KeyEvent) bool
	// UnhandledKey receives keys neither a shortcut nor the focused frame
	// consumed.
	UnhandledKey func(e event.KeyEvent)
	// UnhandledMouse receives button events that hit no frame or that the
	// content under the pointer ignored.
	UnhandledMouse func(e event.MouseEvent)
	// Click fires once per press and release without a drag, with the
	// release point.
	Click func(f *frame.Frame, r region.Region, at geom.Point)
	// DragEnd fires when a move or resize finished with new bounds.
	DragEnd func(f *frame.Frame, from geom.Rect)
}

// Options tune the machine.
type Options struct {
	Drag                DragPredicate
	FocusFollowsPointer bool
}

// OptionsFrom reads the input section of the config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Drag:                PredicateFor(cfg.Input.DragThreshold),
		FocusFollowsPointer: cfg.Input.FocusFollowsPointer,
	}
}

type dragKind uint8

const (
	dragNone dragKind = iota
	dragMove
	dragResize
	dragContent
)

// press snapshots what was under the pointer when a button went down.
type press struct {
	frame  *frame.Frame
	region region.Region
	pos    geom.Point
	bounds geom.Rect
}

// Machine is the per-tick input state machine. Every method must be called
// by the owner of the frame stack.
type Machine struct {
	owner  *frame.Owner
	stack  *frame.Stack
	source Source
	fonts  render.Fonts
	cursor render.CursorSetter
	cb     Callbacks
	opts   Options

	state       State
	down        bool
	pos         geom.Point
	hover       *frame.Frame
	hoverRegion region.Region

	click    press
	kind     dragKind
	orig     geom.Rect
	lastDrag geom.Point

	others [event.ButtonCount]press

	icon    render.CursorIcon
	iconSet bool
}

func New(o *frame.Owner, stack *frame.Stack, src Source, fonts render.Fonts, cursor render.CursorSetter, cb Callbacks, opts Options) *Machine {
	m := &Machine{
		owner:  o,
		stack:  stack,
		source: src,
		fonts:  fonts,
		cursor: cursor,
		cb:     cb,
	}
	m.SetOptions(opts)
	return m
}

// SetOptions replaces the drag predicate and focus policy.
func (m *Machine) SetOptions(opts Options) {
	if opts.Drag == nil {
		opts.Drag = DragEitherAxis
	}
	m.opts = opts
}

func (m *Machine) State() State { return m.state }

// Pointer is the last known pointer position.
func (m *Machine) Pointer() geom.Point { return m.pos }

// Hover returns the frame and region under the pointer.
func (m *Machine) Hover() (*frame.Frame, region.Region) { return m.hover, m.hoverRegion }

// Update drains the source and applies one tick of input.
func (m *Machine) Update() {
	if m.state == StateClicking {
		m.state = next(m.state, edgeNone, false)
	}

	for _, e := range m.source.PollKeys() {
		m.dispatchKey(e)
	}
	for _, e := range m.source.PollMouse() {
		m.dispatchMouse(e)
	}

	x, y := m.source.Pointer()
	m.pos = geom.Point{X: x, Y: y}
	m.updateHover()

	if m.click.frame != nil && !m.stack.Contains(m.click.frame) {
		m.Cancel()
	}
	switch m.state {
	case StatePressed:
		if m.moved(m.pos) {
			m.state = next(m.state, edgeNone, true)
			m.beginDrag()
			m.applyDrag(m.pos)
		}
	case StateDragging:
		m.applyDrag(m.pos)
	}

	m.followFocus()
	m.updateCursor()
}

// Cancel abandons a pending press or drag without applying more geometry.
func (m *Machine) Cancel() {
	if f := m.click.frame; f != nil && m.stack.Contains(f) {
		switch m.kind {
		case dragMove:
			f.SetDragged(m.owner, false)
		case dragResize:
			f.SetResized(m.owner, false)
		}
	}
	if m.state == StatePressed || m.state == StateDragging {
		m.state = StateIdle
	}
	m.kind = dragNone
	m.click = press{}
}

func (m *Machine) dispatchKey(e event.KeyEvent) {
	if m.cb.Shortcut != nil && m.cb.Shortcut(e) {
		return
	}
	target := m.stack.Modal()
	if target == nil {
		target = m.stack.Focused()
	}
	if target != nil && target.Tree().HandleKey(m.fonts, e) {
		return
	}
	if m.cb.UnhandledKey != nil {
		m.cb.UnhandledKey(e)
	}
}

func (m *Machine) dispatchMouse(e event.MouseEvent) {
	m.pos = geom.Point{X: e.X, Y: e.Y}
	switch {
	case e.Button.IsWheel():
		if e.Down {
			m.scroll(e)
		}
	case e.Button != event.ButtonLeft:
		m.otherButton(e)
	case e.Down && !m.down:
		m.down = true
		m.press(e)
	case !e.Down && m.down:
		m.down = false
		m.release(e)
	}
}

// target is the topmost frame at (x, y) that may receive pointer input.
func (m *Machine) target(x, y int) *frame.Frame {
	f := m.stack.FindTopmost(x, y)
	if modal := m.stack.Modal(); modal != nil && f != modal {
		return nil
	}
	return f
}

// passthrough reports whether a press at r goes to the widget tree. Border
// regions of fixed-size frames behave like content.
func (m *Machine) passthrough(f *frame.Frame, r region.Region) bool {
	return r == region.Content || (r.IsBorder() && !f.Resizable())
}

func (m *Machine) snapshot(x, y int) press {
	p := press{region: region.Out, pos: geom.Point{X: x, Y: y}}
	if f := m.target(x, y); f != nil {
		p.frame = f
		p.region = f.Classify(x, y)
		p.bounds = f.Bounds()
	}
	return p
}

func (m *Machine) press(e event.MouseEvent) {
	m.state = next(m.state, edgeDown, false)
	m.click = m.snapshot(e.X, e.Y)
	m.kind = dragNone

	f := m.click.frame
	if f == nil {
		if m.stack.Modal() == nil {
			m.unhandledMouse(e)
		}
		return
	}
	if !f.Focused() {
		m.stack.Foreground(m.owner, f)
	}
	if m.passthrough(f, m.click.region) {
		if !m.forward(f, event.PointerPress, e.Button, m.click.pos, m.click.pos, e.Mods) {
			m.unhandledMouse(e)
		}
	}
}

func (m *Machine) release(e event.MouseEvent) {
	pt := geom.Point{X: e.X, Y: e.Y}
	if m.state == StatePressed && m.moved(pt) {
		// The whole drag happened between two updates.
		m.state = next(m.state, edgeNone, true)
		m.beginDrag()
	}

	switch m.state {
	case StatePressed:
		m.state = next(m.state, edgeUp, false)
		m.clicked(e)
	case StateDragging:
		m.applyDrag(pt)
		m.endDrag(e)
		m.state = next(m.state, edgeUp, true)
	}
}

func (m *Machine) moved(p geom.Point) bool {
	return m.opts.Drag(p.X-m.click.pos.X, p.Y-m.click.pos.Y)
}

func (m *Machine) clicked(e event.MouseEvent) {
	f := m.click.frame
	if f == nil || !m.stack.Contains(f) {
		return
	}
	if m.click.region == region.Title {
		m.stack.Foreground(m.owner, f)
	}
	pt := geom.Point{X: e.X, Y: e.Y}
	if m.passthrough(f, m.click.region) {
		m.forward(f, event.PointerRelease, e.Button, pt, m.click.pos, e.Mods)
		m.forward(f, event.PointerClick, e.Button, pt, m.click.pos, e.Mods)
	}
	if m.cb.Click != nil {
		m.cb.Click(f, m.click.region, pt)
	}
}

func (m *Machine) beginDrag() {
	f := m.click.frame
	m.kind = dragNone
	if f == nil {
		return
	}
	m.orig = f.Bounds()
	m.lastDrag = m.click.pos

	switch r := m.click.region; {
	case m.passthrough(f, r):
		m.kind = dragContent
	case r == region.Title:
		m.kind = dragMove
		f.SetDragged(m.owner, true)
		m.setCursor(r.Cursor())
	case r.IsBorder():
		m.kind = dragResize
		f.SetResized(m.owner, true)
		m.setCursor(r.Cursor())
	}
}

func (m *Machine) applyDrag(p geom.Point) {
	f := m.click.frame
	if f == nil {
		return
	}
	dx, dy := p.X-m.click.pos.X, p.Y-m.click.pos.Y

	switch m.kind {
	case dragMove:
		f.MoveTo(m.owner, m.orig.X+dx, m.orig.Y+dy)
	case dragResize:
		f.SetBounds(m.owner, ResizeRect(m.orig, f.MinSize(), m.click.region, dx, dy))
	case dragContent:
		if p != m.lastDrag {
			m.forward(f, event.PointerDrag, event.ButtonLeft, p, m.click.pos, 0)
			m.lastDrag = p
		}
	}
}

func (m *Machine) endDrag(e event.MouseEvent) {
	f := m.click.frame
	if f == nil {
		return
	}
	switch m.kind {
	case dragMove:
		f.SetDragged(m.owner, false)
	case dragResize:
		f.SetResized(m.owner, false)
	case dragContent:
		m.forward(f, event.PointerRelease, e.Button, geom.Point{X: e.X, Y: e.Y}, m.click.pos, e.Mods)
	}
	if (m.kind == dragMove || m.kind == dragResize) && f.Bounds() != m.orig && m.cb.DragEnd != nil {
		m.cb.DragEnd(f, m.orig)
	}
	m.kind = dragNone
}

// ResizeRect applies a border drag of (dx, dy) to r on the edges named by
// reg. Sizes never drop below minSize; moving the left or top edge shifts the
// origin by the same clamped amount so the opposite edge stays put.
func ResizeRect(r geom.Rect, minSize geom.Size, reg region.Region, dx, dy int) geom.Rect {
	left, right, top, bottom := reg.Edges()
	minW, minH := max(minSize.Width, 0), max(minSize.Height, 0)
	out := r

	switch {
	case right:
		out.Width = max(r.Width+dx, minW)
	case left:
		out.Width = max(r.Width-dx, minW)
		out.X = r.X + (r.Width - out.Width)
	}
	switch {
	case bottom:
		out.Height = max(r.Height+dy, minH)
	case top:
		out.Height = max(r.Height-dy, minH)
		out.Y = r.Y + (r.Height - out.Height)
	}
	return out
}

// forward hands a pointer event at absolute p to f's widget tree.
func (m *Machine) forward(f *frame.Frame, action event.PointerAction, b event.Button, p, start geom.Point, mods event.Mod) bool {
	cr := f.ContentRect()
	tree := f.Tree()
	tree.Arrange(m.fonts, cr.Size())
	ptr := event.Pointer{
		Action: action,
		Button: b,
		X:      p.X,
		Y:      p.Y,
		StartX: start.X,
		StartY: start.Y,
		Mods:   mods,
	}
	return tree.HandlePointer(m.fonts, ptr.Translate(cr.X, cr.Y))
}

func (m *Machine) scroll(e event.MouseEvent) {
	f := m.target(e.X, e.Y)
	if f != nil && f.Classify(e.X, e.Y) == region.Content {
		cr := f.ContentRect()
		f.Tree().Arrange(m.fonts, cr.Size())
		ptr := event.Pointer{Action: event.PointerScroll, Button: e.Button, X: e.X, Y: e.Y, StartX: e.X, StartY: e.Y, Scroll: 1, Mods: e.Mods}
		if e.Button == event.ButtonWheelUp {
			ptr.Scroll = -1
		}
		if f.Tree().HandlePointer(m.fonts, ptr.Translate(cr.X, cr.Y)) {
			return
		}
	}
	if f == nil && m.stack.Modal() != nil {
		return
	}
	m.unhandledMouse(e)
}

// otherButton forwards middle and right button presses to content without
// driving the move/resize state machine.
func (m *Machine) otherButton(e event.MouseEvent) {
	i := int(e.Button)
	if e.Down {
		p := m.snapshot(e.X, e.Y)
		m.others[i] = p
		if p.frame == nil {
			if m.stack.Modal() == nil {
				m.unhandledMouse(e)
			}
			return
		}
		if !p.frame.Focused() {
			m.stack.Foreground(m.owner, p.frame)
		}
		if !m.passthrough(p.frame, p.region) || !m.forward(p.frame, event.PointerPress, e.Button, p.pos, p.pos, e.Mods) {
			m.unhandledMouse(e)
		}
		return
	}

	p := m.others[i]
	m.others[i] = press{}
	if p.frame == nil || !m.stack.Contains(p.frame) || !m.passthrough(p.frame, p.region) {
		return
	}
	pt := geom.Point{X: e.X, Y: e.Y}
	m.forward(p.frame, event.PointerRelease, e.Button, pt, p.pos, e.Mods)
	if m.target(e.X, e.Y) == p.frame {
		m.forward(p.frame, event.PointerClick, e.Button, pt, p.pos, e.Mods)
	}
}

func (m *Machine) unhandledMouse(e event.MouseEvent) {
	if m.cb.UnhandledMouse != nil {
		m.cb.UnhandledMouse(e)
	}
}

func (m *Machine) updateHover() {
	m.hover = m.target(m.pos.X, m.pos.Y)
	m.hoverRegion = region.Out
	if m.hover != nil {
		m.hoverRegion = m.hover.Classify(m.pos.X, m.pos.Y)
	}
}

// followFocus focuses the hovered frame without raising it.
func (m *Machine) followFocus() {
	if !m.opts.FocusFollowsPointer || m.state != StateIdle {
		return
	}
	if m.hover == nil || m.hover.Focused() || m.stack.Modal() != nil {
		return
	}
	m.stack.Focus(m.owner, m.hover)
}

func (m *Machine) updateCursor() {
	icon := render.CursorPointer
	switch {
	case m.state == StateDragging:
		if m.kind == dragMove || m.kind == dragResize {
			icon = m.click.region.Cursor()
		}
	case m.hover != nil && !m.passthrough(m.hover, m.hoverRegion):
		icon = m.hoverRegion.Cursor()
	}
	m.setCursor(icon)
}

func (m *Machine) setCursor(icon render.CursorIcon) {
	if m.cursor == nil || (m.iconSet && m.icon == icon) {
		return
	}
	m.icon = icon
	m.iconSet = true
	m.cursor.SetCursor(icon)
}
