// Package frame holds the frames managed by the window manager and the stack
// that orders them.
//
// Frames and the stack belong to a single owner. Every mutating call takes
// the owner token; passing any other token panics with *OwnershipError.
package frame

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/region"
	"github.com/1broseidon/framewm/internal/widget"
)

// Owner is the token held by the execution context that owns frame state.
// Tokens compare by identity.
type Owner struct {
	name string
}

// NewOwner creates a fresh owner token.
func NewOwner(name string) *Owner {
	return &Owner{name: name}
}

func (o *Owner) String() string {
	if o == nil {
		return "<nil owner>"
	}
	return o.name
}

// OwnershipError is the panic value raised when frame state is touched
// without the owning token.
type OwnershipError struct {
	Op    string
	Want  *Owner
	Got   *Owner
	Frame uint64
}

func (e *OwnershipError) Error() string {
	if e.Frame != 0 {
		return fmt.Sprintf("frame: %s on frame %d by %s, owned by %s", e.Op, e.Frame, e.Got, e.Want)
	}
	return fmt.Sprintf("frame: %s by %s, owned by %s", e.Op, e.Got, e.Want)
}

func check(want, got *Owner, op string, id uint64) {
	if want != got {
		panic(&OwnershipError{Op: op, Want: want, Got: got, Frame: id})
	}
}

// Options configures a new frame.
type Options struct {
	Title    string
	Bounds   geom.Rect
	MinSize  geom.Size
	Border   int
	Titlebar int
	NoTitle  bool
	Fixed    bool // not resizable
	NoClose  bool
	Content  widget.Widget
}

// Frame is a movable, resizable surface with a title bar and a widget tree.
type Frame struct {
	owner *Owner
	id    uint64

	title     string
	bounds    geom.Rect
	minSize   geom.Size
	border    int
	titlebar  int
	hasTitle  bool
	resizable bool
	closable  bool

	focused bool
	dragged bool
	resized bool

	tree widget.Tree
}

// New creates a frame owned by o. Bounds are clamped to the minimum size.
func New(o *Owner, id uint64, opts Options) *Frame {
	f := &Frame{
		owner:     o,
		id:        id,
		title:     opts.Title,
		minSize:   opts.MinSize.Clamp(),
		border:    max(opts.Border, 0),
		titlebar:  max(opts.Titlebar, 0),
		hasTitle:  !opts.NoTitle,
		resizable: !opts.Fixed,
		closable:  !opts.NoClose,
	}
	f.bounds = f.clampSize(opts.Bounds)
	if opts.Content != nil {
		f.tree.SetContent(opts.Content)
	}
	return f
}

func (f *Frame) ID() uint64             { return f.id }
func (f *Frame) Title() string          { return f.title }
func (f *Frame) Bounds() geom.Rect      { return f.bounds }
func (f *Frame) MinSize() geom.Size     { return f.minSize }
func (f *Frame) Border() int            { return f.border }
func (f *Frame) HasTitlebar() bool      { return f.hasTitle }
func (f *Frame) Resizable() bool        { return f.resizable }
func (f *Frame) Closable() bool         { return f.closable }
func (f *Frame) Focused() bool          { return f.focused }
func (f *Frame) Dragged() bool          { return f.dragged }
func (f *Frame) Resized() bool          { return f.resized }
func (f *Frame) Tree() *widget.Tree     { return &f.tree }
func (f *Frame) Content() widget.Widget { return f.tree.Content() }

// TitlebarHeight is zero for frames without a title bar.
func (f *Frame) TitlebarHeight() int {
	if !f.hasTitle {
		return 0
	}
	return f.titlebar
}

// Geometry returns the shape used for region classification.
func (f *Frame) Geometry() region.Geometry {
	return region.Geometry{Bounds: f.bounds, Border: f.border, Titlebar: f.TitlebarHeight()}
}

// Classify returns the region of the frame under the absolute point.
func (f *Frame) Classify(x, y int) region.Region {
	return region.Classify(f.Geometry(), x, y)
}

// TitleRect is the absolute title bar rectangle.
func (f *Frame) TitleRect() geom.Rect {
	b := f.bounds
	return geom.R(b.X+f.border, b.Y+f.border, b.Width-2*f.border, f.TitlebarHeight()).Clamp()
}

// ContentRect is the absolute rectangle available to the widget tree.
func (f *Frame) ContentRect() geom.Rect {
	b := f.bounds
	top := f.border + f.TitlebarHeight()
	return geom.R(b.X+f.border, b.Y+top, b.Width-2*f.border, b.Height-top-f.border).Clamp()
}

func (f *Frame) clampSize(r geom.Rect) geom.Rect {
	r = r.Clamp()
	r.Width = max(r.Width, f.minSize.Width)
	r.Height = max(r.Height, f.minSize.Height)
	return r
}

// SetBounds moves and resizes the frame, never below its minimum size.
func (f *Frame) SetBounds(o *Owner, r geom.Rect) {
	check(f.owner, o, "SetBounds", f.id)
	f.bounds = f.clampSize(r)
}

// MoveTo moves the frame without resizing it.
func (f *Frame) MoveTo(o *Owner, x, y int) {
	check(f.owner, o, "MoveTo", f.id)
	f.bounds.X, f.bounds.Y = x, y
}

func (f *Frame) SetTitle(o *Owner, title string) {
	check(f.owner, o, "SetTitle", f.id)
	f.title = title
}

func (f *Frame) SetMinSize(o *Owner, s geom.Size) {
	check(f.owner, o, "SetMinSize", f.id)
	f.minSize = s.Clamp()
	f.bounds = f.clampSize(f.bounds)
}

func (f *Frame) SetResizable(o *Owner, v bool) {
	check(f.owner, o, "SetResizable", f.id)
	f.resizable = v
}

func (f *Frame) SetDragged(o *Owner, v bool) {
	check(f.owner, o, "SetDragged", f.id)
	f.dragged = v
}

func (f *Frame) SetResized(o *Owner, v bool) {
	check(f.owner, o, "SetResized", f.id)
	f.resized = v
}

// SetContent replaces the root widget of the frame.
func (f *Frame) SetContent(o *Owner, w widget.Widget) {
	check(f.owner, o, "SetContent", f.id)
	f.tree.SetContent(w)
}

// setFocused is only called by the stack, which enforces focus singularity.
func (f *Frame) setFocused(v bool) { f.focused = v }

func (f *Frame) String() string {
	return fmt.Sprintf("frame %d %q %dx%d+%d+%d", f.id, f.title, f.bounds.Width, f.bounds.Height, f.bounds.X, f.bounds.Y)
}
