// Package wm is the window manager facade. A WM owns the frame stack, the
// input machine and move mode; every method other than Post and Do must be
// called from the goroutine that drives Update and Render.
package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/journal"
	"github.com/1broseidon/framewm/internal/movemode"
	"github.com/1broseidon/framewm/internal/region"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/tiling"
	"github.com/1broseidon/framewm/internal/widget"
)

// DefaultQueueSize is the command queue capacity when Options leaves it zero.
const DefaultQueueSize = 64

var ErrQueueFull = errors.New("wm: command queue full")

// Listener receives input and actions the window manager did not consume.
type Listener interface {
	OnUnhandledKey(e event.KeyEvent)
	OnUnhandledMouse(e event.MouseEvent)
	OnAction(f *frame.Frame, action string, origin widget.Widget)
}

// Funcs adapts plain functions to Listener. Nil fields are ignored.
type Funcs struct {
	Key    func(e event.KeyEvent)
	Mouse  func(e event.MouseEvent)
	Action func(f *frame.Frame, action string, origin widget.Widget)
}

func (l Funcs) OnUnhandledKey(e event.KeyEvent) {
	if l.Key != nil {
		l.Key(e)
	}
}

func (l Funcs) OnUnhandledMouse(e event.MouseEvent) {
	if l.Mouse != nil {
		l.Mouse(e)
	}
}

func (l Funcs) OnAction(f *frame.Frame, action string, origin widget.Widget) {
	if l.Action != nil {
		l.Action(f, action, origin)
	}
}

// ContentFactory builds the title and content for a frame opened by the
// new_frame shortcut. n counts the frames created so far.
type ContentFactory func(n int) (title string, content widget.Widget)

// Options carries the host collaborators.
type Options struct {
	Painter  render.Painter
	Fonts    render.Fonts
	Cursor   render.CursorSetter
	Source   input.Source
	Viewport geom.Rect
	// Theme overrides the theme built from the config.
	Theme      render.Theme
	Logger     *slog.Logger
	Journal    *journal.Journal
	Listener   Listener
	NewContent ContentFactory
	QueueSize  int
}

type binding struct {
	action   string
	shortcut event.Shortcut
}

// WM is the single-owner window manager.
type WM struct {
	owner    *frame.Owner
	stack    *frame.Stack
	machine  *input.Machine
	move     *movemode.Mode
	tiler    *tiling.Tiler
	cfg      *config.Config
	ctx      *render.Context
	viewport geom.Rect
	metrics  Metrics

	logger     *slog.Logger
	journal    *journal.Journal
	listener   Listener
	newContent ContentFactory
	shortcuts  []binding
	held       map[keyID]struct{}
	commands   chan func(*WM)

	nextID    uint64
	created   int
	lastFocus uint64
}

// New builds a window manager drawing through the host collaborators in
// opts.
func New(cfg *config.Config, opts Options) (*WM, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Painter == nil || opts.Fonts == nil || opts.Source == nil {
		return nil, fmt.Errorf("wm: painter, fonts and input source are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Listener == nil {
		opts.Listener = Funcs{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	th := opts.Theme
	if th == nil {
		t, err := cfg.BuildTheme()
		if err != nil {
			return nil, fmt.Errorf("build theme: %w", err)
		}
		th = t
	}
	shortcuts, err := parseShortcuts(cfg.Shortcuts)
	if err != nil {
		return nil, err
	}

	w := &WM{
		owner:      frame.NewOwner("wm"),
		cfg:        cfg,
		viewport:   opts.Viewport,
		metrics:    ResolveMetrics(cfg.Frame, opts.Fonts),
		logger:     opts.Logger,
		journal:    opts.Journal,
		listener:   opts.Listener,
		newContent: opts.NewContent,
		shortcuts:  shortcuts,
		held:       make(map[keyID]struct{}),
		commands:   make(chan func(*WM), opts.QueueSize),
	}
	w.stack = frame.NewStack(w.owner)
	w.ctx = render.NewContext(opts.Painter, opts.Fonts, th, opts.Cursor, opts.Viewport)
	w.machine = input.New(w.owner, w.stack, opts.Source, opts.Fonts, opts.Cursor, input.Callbacks{
		Shortcut:       w.handleShortcut,
		UnhandledKey:   w.unhandledKey,
		UnhandledMouse: w.listener.OnUnhandledMouse,
		Click:          w.clicked,
		DragEnd: func(f *frame.Frame, from geom.Rect) {
			w.logMove(f, from, "pointer")
		},
	}, input.OptionsFrom(cfg))
	w.move = movemode.New(w.owner, w.stack, cfg, opts.Logger)
	w.move.OnClose = w.CloseFrame
	w.move.OnNewFrame = func() { w.NewFrame() }
	w.move.OnCommit = func(f *frame.Frame, from geom.Rect) {
		w.logMove(f, from, "keyboard")
	}
	w.tiler = tiling.NewTiler(cfg)
	return w, nil
}

func parseShortcuts(s config.Shortcuts) ([]binding, error) {
	var out []binding
	for _, e := range s.Entries() {
		if e.Sequence == "" {
			continue
		}
		sc, err := event.ParseShortcut(e.Sequence)
		if err != nil {
			return nil, fmt.Errorf("shortcuts.%s: %w", e.Action, err)
		}
		out = append(out, binding{action: e.Action, shortcut: sc})
	}
	return out, nil
}

func (w *WM) Owner() *frame.Owner              { return w.owner }
func (w *WM) Stack() *frame.Stack              { return w.stack }
func (w *WM) Config() *config.Config           { return w.cfg }
func (w *WM) Metrics() Metrics                 { return w.metrics }
func (w *WM) Viewport() geom.Rect              { return w.viewport }
func (w *WM) Machine() *input.Machine          { return w.machine }
func (w *WM) MoveMode() *movemode.Mode         { return w.move }
func (w *WM) ActiveLayout() string             { return w.tiler.ActiveLayoutName() }
func (w *WM) Context() *render.Context         { return w.ctx }
func (w *WM) Frames() []*frame.Frame           { return w.stack.FrontToBack() }
func (w *WM) FrameByID(id uint64) *frame.Frame { return w.stack.ByID(id) }

// SetViewport changes the desktop area, e.g. after a host resize.
func (w *WM) SetViewport(r geom.Rect) {
	w.viewport = r
	w.ctx.Stack.SetViewport(r)
}

// UpdateConfig swaps in a reloaded configuration. Frame metrics only affect
// frames created afterwards.
func (w *WM) UpdateConfig(cfg *config.Config) error {
	shortcuts, err := parseShortcuts(cfg.Shortcuts)
	if err != nil {
		return err
	}
	th, err := cfg.BuildTheme()
	if err != nil {
		return fmt.Errorf("build theme: %w", err)
	}
	w.cfg = cfg
	w.shortcuts = shortcuts
	w.ctx.Theme = th
	w.metrics = ResolveMetrics(cfg.Frame, w.ctx.Fonts)
	w.machine.SetOptions(input.OptionsFrom(cfg))
	w.move.UpdateConfig(cfg)
	w.tiler.UpdateConfig(cfg)
	w.logger.Info("configuration applied")
	return nil
}

// Post queues fn to run on the owner at the start of the next Update. It is
// safe to call from any goroutine and never blocks.
func (w *WM) Post(fn func(*WM)) error {
	select {
	case w.commands <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Do posts fn and waits until the owner has run it or ctx is done.
func (w *WM) Do(ctx context.Context, fn func(*WM)) error {
	done := make(chan struct{})
	if err := w.Post(func(w *WM) {
		defer close(done)
		fn(w)
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update runs one tick: posted commands, the move mode timeout, then input.
func (w *WM) Update() {
	w.drain()
	w.move.Tick(w.move.Now())
	w.machine.Update()
	w.noteFocus()
}

func (w *WM) drain() {
	for {
		select {
		case fn := <-w.commands:
			fn(w)
		default:
			return
		}
	}
}

func (w *WM) noteFocus() {
	var id uint64
	if f := w.stack.Focused(); f != nil {
		id = f.ID()
	}
	if id == w.lastFocus {
		return
	}
	w.lastFocus = id
	w.journal.Log(journal.ActionFocus, id, nil)
}

// CreateFrame builds a frame without adding it to the stack. Zero sizes in
// opts take the window manager's metrics; an empty Bounds cascades from the
// top-left corner of the viewport.
func (w *WM) CreateFrame(opts frame.Options) *frame.Frame {
	if opts.Border == 0 {
		opts.Border = w.metrics.Border
	}
	if opts.Titlebar == 0 {
		opts.Titlebar = w.metrics.Titlebar
	}
	if opts.MinSize == (geom.Size{}) {
		opts.MinSize = w.metrics.Min
	}
	if opts.Bounds.Empty() {
		opts.Bounds = w.cascade(opts.Bounds)
	}
	w.nextID++
	w.created++
	f := frame.New(w.owner, w.nextID, opts)
	f.Tree().OnAction(func(action string, origin widget.Widget) {
		w.journal.Log(journal.ActionAction, f.ID(), map[string]any{"action": action})
		w.listener.OnAction(f, action, origin)
	})
	return f
}

func (w *WM) cascade(r geom.Rect) geom.Rect {
	size := geom.Size{Width: r.Width, Height: r.Height}
	if size.Width <= 0 {
		size.Width = w.metrics.Default.Width
	}
	if size.Height <= 0 {
		size.Height = w.metrics.Default.Height
	}
	step := max(w.metrics.Titlebar, 1)
	k := (w.created % 8) + 1
	x := w.viewport.X + k*step*2
	y := w.viewport.Y + k*step
	if x+size.Width > w.viewport.Right() {
		x = max(w.viewport.X, w.viewport.Right()-size.Width)
	}
	if y+size.Height > w.viewport.Bottom() {
		y = max(w.viewport.Y, w.viewport.Bottom()-size.Height)
	}
	return geom.R(x, y, size.Width, size.Height)
}

// AddFrame creates a frame and puts it on top of the stack.
func (w *WM) AddFrame(opts frame.Options) *frame.Frame {
	f := w.CreateFrame(opts)
	w.stack.Add(w.owner, f)
	w.journal.Log(journal.ActionFrameAdd, f.ID(), map[string]any{"title": f.Title()})
	w.logger.Debug("frame added", "id", f.ID(), "title", f.Title())
	return f
}

// NewFrame opens a frame from the content factory. It returns nil when no
// factory is configured.
func (w *WM) NewFrame() *frame.Frame {
	if w.newContent == nil {
		return nil
	}
	title, content := w.newContent(w.created + 1)
	return w.AddFrame(frame.Options{Title: title, Content: content})
}

// ShowModal creates a frame and makes it the modal frame, replacing any
// previous modal.
func (w *WM) ShowModal(opts frame.Options) *frame.Frame {
	f := w.CreateFrame(opts)
	w.SetModal(f)
	return f
}

// SetModal makes f the modal frame. A nil f clears the modal and removes
// the previous modal frame.
func (w *WM) SetModal(f *frame.Frame) {
	prev := w.stack.Modal()
	if prev == f {
		return
	}
	w.stack.SetModal(w.owner, f)
	if prev != nil {
		w.tiler.Forget(prev.ID())
		w.journal.Log(journal.ActionFrameRemove, prev.ID(), map[string]any{"modal": true})
	}
	if f == nil {
		w.journal.Log(journal.ActionModal, 0, map[string]any{"cleared": true})
		return
	}
	w.journal.Log(journal.ActionModal, f.ID(), map[string]any{"title": f.Title()})
}

// CloseFrame removes f from the stack. Closing the modal frame clears the
// modal.
func (w *WM) CloseFrame(f *frame.Frame) {
	if f == nil || !w.stack.Contains(f) {
		return
	}
	if f == w.stack.Modal() {
		w.SetModal(nil)
		return
	}
	w.stack.Remove(w.owner, f)
	w.tiler.Forget(f.ID())
	w.journal.Log(journal.ActionFrameRemove, f.ID(), nil)
	w.logger.Debug("frame removed", "id", f.ID())
}

func (w *WM) Foreground(f *frame.Frame) {
	if f != nil {
		w.stack.Foreground(w.owner, f)
	}
}

func (w *WM) Focus(f *frame.Frame) {
	if f != nil {
		w.stack.Focus(w.owner, f)
	}
}

// MoveFrame sets f's bounds, clamped to its minimum size.
func (w *WM) MoveFrame(f *frame.Frame, r geom.Rect) {
	from := f.Bounds()
	f.SetBounds(w.owner, r)
	w.logMove(f, from, "api")
}

func (w *WM) logMove(f *frame.Frame, from geom.Rect, via string) {
	to := f.Bounds()
	if to == from {
		return
	}
	w.journal.Log(journal.ActionMove, f.ID(), map[string]any{
		"from": fmt.Sprintf("%d,%d %dx%d", from.X, from.Y, from.Width, from.Height),
		"to":   fmt.Sprintf("%d,%d %dx%d", to.X, to.Y, to.Width, to.Height),
		"via":  via,
	})
}

// tileable lists the non-modal frames in creation order.
func (w *WM) tileable() []*frame.Frame {
	var out []*frame.Frame
	for _, f := range w.stack.FrontToBack() {
		if f != w.stack.Modal() {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b *frame.Frame) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// Tile arranges the non-modal frames with the active layout. It returns the
// number of frames placed.
func (w *WM) Tile() (int, error) {
	frames := w.tileable()
	if len(frames) == 0 {
		return 0, nil
	}
	windows := make([]tiling.Window, len(frames))
	for i, f := range frames {
		windows[i] = tiling.Window{ID: f.ID(), Bounds: f.Bounds()}
	}
	placed, err := w.tiler.Tile(windows, w.viewport)
	if err != nil {
		return 0, fmt.Errorf("tile: %w", err)
	}
	w.apply(placed)
	w.journal.Log(journal.ActionTile, 0, map[string]any{
		"layout": w.tiler.ActiveLayoutName(),
		"frames": len(placed),
	})
	return len(placed), nil
}

// UndoTile restores the geometry from before the last Tile.
func (w *WM) UndoTile() bool {
	placed, ok := w.tiler.Undo()
	if !ok {
		return false
	}
	w.apply(placed)
	w.journal.Log(journal.ActionTile, 0, map[string]any{"undo": true, "frames": len(placed)})
	return true
}

func (w *WM) apply(placed []tiling.Placement) {
	for _, p := range placed {
		if f := w.stack.ByID(p.ID); f != nil {
			f.SetBounds(w.owner, p.Bounds)
		}
	}
}

// SetLayout selects the layout used by Tile.
func (w *WM) SetLayout(name string) error {
	if err := w.tiler.SetActiveLayout(name); err != nil {
		return err
	}
	w.journal.Log(journal.ActionLayout, 0, map[string]any{"layout": name})
	return nil
}

// CycleLayout moves to the next or previous layout and retiles.
func (w *WM) CycleLayout(delta int) (string, error) {
	name, err := w.tiler.CycleActiveLayout(delta)
	if err != nil {
		return "", err
	}
	w.journal.Log(journal.ActionLayout, 0, map[string]any{"layout": name})
	if _, err := w.Tile(); err != nil {
		return name, err
	}
	return name, nil
}

// FocusDirection foregrounds the frame next to the focused one.
func (w *WM) FocusDirection(dir movemode.Direction) *frame.Frame {
	if w.stack.Modal() != nil {
		return nil
	}
	p := w.machine.Pointer()
	next := movemode.Neighbor(w.stack.FrontToBack(), w.stack.Focused(), dir, p.X, p.Y)
	if next != nil {
		w.stack.Foreground(w.owner, next)
	}
	return next
}

func (w *WM) unhandledKey(e event.KeyEvent) {
	w.listener.OnUnhandledKey(e)
}

// clicked closes the frame when the click landed on the title bar close box.
func (w *WM) clicked(f *frame.Frame, r region.Region, at geom.Point) {
	if r != region.Title || !f.Closable() {
		return
	}
	if w.closeBox(f).Contains(at.X, at.Y) {
		w.CloseFrame(f)
	}
}
