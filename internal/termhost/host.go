// Package termhost runs the window manager inside a terminal. Each cell is
// one unit of the window manager's coordinate space.
package termhost

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

// Options configures the terminal host.
type Options struct {
	Logger *slog.Logger
	// QuitKey closes the host when pressed. Defaults to Ctrl-C.
	QuitKey tcell.Key
}

// Host draws into a tcell screen and reads its key and mouse events.
type Host struct {
	screen tcell.Screen
	queue  *input.Queue
	logger *slog.Logger
	quit   event.KeyEvent

	clip    *geom.Rect
	icon    render.CursorIcon
	buttons tcell.ButtonMask

	resized  chan geom.Rect
	done     chan struct{}
	doneOnce sync.Once
	readDone chan struct{}
}

var (
	_ render.Painter      = (*Host)(nil)
	_ render.Fonts        = (*Host)(nil)
	_ render.CursorSetter = (*Host)(nil)
)

// New opens the controlling terminal.
func New(opts Options) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewWithScreen(screen, opts)
}

// NewWithScreen initializes screen and starts reading its events.
func NewWithScreen(screen tcell.Screen, opts Options) (*Host, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = tcell.KeyCtrlC
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	h := &Host{
		screen:   screen,
		queue:    &input.Queue{},
		logger:   opts.Logger,
		quit:     quitEvent(opts.QuitKey),
		resized:  make(chan geom.Rect, 1),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	go h.read()
	return h, nil
}

func (h *Host) Name() string { return "terminal" }

func (h *Host) Source() input.Source { return h.queue }

// Viewport is the whole screen.
func (h *Host) Viewport() geom.Rect {
	w, ht := h.screen.Size()
	return geom.R(0, 0, w, ht)
}

func (h *Host) Resized() <-chan geom.Rect { return h.resized }

func (h *Host) Done() <-chan struct{} { return h.done }

// Present shows what was drawn since the previous call.
func (h *Host) Present() error {
	if h.icon == render.CursorPointer {
		h.screen.HideCursor()
	} else {
		x, y := h.queue.Pointer()
		h.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
		h.screen.ShowCursor(x, y)
	}
	h.screen.Show()
	return nil
}

// Close restores the terminal.
func (h *Host) Close() error {
	h.finish()
	h.screen.Fini()
	<-h.readDone
	return nil
}

func (h *Host) finish() {
	h.doneOnce.Do(func() { close(h.done) })
}

func (h *Host) read() {
	defer close(h.readDone)
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			ke, ok := translateKey(ev)
			if !ok {
				continue
			}
			if ke == h.quit {
				h.logger.Info("quit key pressed")
				h.finish()
				continue
			}
			// Terminals report presses only.
			ke.Down = true
			h.queue.PushKey(ke)
			ke.Down = false
			h.queue.PushKey(ke)
		case *tcell.EventMouse:
			h.mouse(ev)
		case *tcell.EventResize:
			w, ht := ev.Size()
			h.notifyResize(geom.R(0, 0, w, ht))
		}
	}
}

// notifyResize keeps only the latest size.
func (h *Host) notifyResize(r geom.Rect) {
	select {
	case <-h.resized:
	default:
	}
	h.resized <- r
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button event.Button
}{
	{tcell.Button1, event.ButtonLeft},
	{tcell.Button3, event.ButtonMiddle},
	{tcell.Button2, event.ButtonRight},
}

// mouse turns tcell's button state snapshots into press and release edges.
func (h *Host) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	mods := translateMods(ev.Modifiers())
	state := ev.Buttons()

	h.queue.MoveTo(x, y)
	for _, b := range buttonMap {
		was, is := h.buttons&b.mask != 0, state&b.mask != 0
		if was != is {
			h.queue.PushMouse(event.MouseEvent{Button: b.button, Down: is, X: x, Y: y, Mods: mods})
		}
	}
	if state&tcell.WheelUp != 0 {
		h.queue.PushMouse(event.MouseEvent{Button: event.ButtonWheelUp, Down: true, X: x, Y: y, Mods: mods})
	}
	if state&tcell.WheelDown != 0 {
		h.queue.PushMouse(event.MouseEvent{Button: event.ButtonWheelDown, Down: true, X: x, Y: y, Mods: mods})
	}
	h.buttons = state & (tcell.Button1 | tcell.Button2 | tcell.Button3)
}

var keyMap = map[tcell.Key]event.Key{
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyDelete:     event.KeyDelete,
	tcell.KeyLeft:       event.KeyLeft,
	tcell.KeyRight:      event.KeyRight,
	tcell.KeyUp:         event.KeyUp,
	tcell.KeyDown:       event.KeyDown,
	tcell.KeyHome:       event.KeyHome,
	tcell.KeyEnd:        event.KeyEnd,
	tcell.KeyPgUp:       event.KeyPageUp,
	tcell.KeyPgDn:       event.KeyPageDown,
	tcell.KeyF1:         event.KeyF1,
}

func quitEvent(k tcell.Key) event.KeyEvent {
	ke, _ := translateKey(tcell.NewEventKey(k, 0, tcell.ModNone))
	return ke
}

func translateMods(m tcell.ModMask) event.Mod {
	var out event.Mod
	if m&tcell.ModShift != 0 {
		out |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= event.ModSuper
	}
	return out
}

func translateKey(ev *tcell.EventKey) (event.KeyEvent, bool) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return event.KeyEvent{Key: event.KeyRune, Rune: ev.Rune(), Mods: mods}, true
	case k == tcell.KeyBacktab:
		return event.KeyEvent{Key: event.KeyTab, Mods: mods | event.ModShift}, true
	}
	if key, ok := keyMap[k]; ok {
		return event.KeyEvent{Key: key, Mods: mods}, true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := 'a' + rune(k-tcell.KeyCtrlA)
		return event.KeyEvent{Key: event.KeyRune, Rune: r, Mods: mods | event.ModCtrl}, true
	}
	return event.KeyEvent{}, false
}

// StringWidth is the display width in cells.
func (h *Host) StringWidth(_ render.Font, s string) int {
	return runewidth.StringWidth(s)
}

func (h *Host) LineHeight(render.Font) int { return 1 }

// SetCursor records the pointer shape. Terminals have no pointer shapes, so
// anything other than the plain pointer shows a block cursor under the mouse.
func (h *Host) SetCursor(icon render.CursorIcon) {
	h.icon = icon
}

func (h *Host) Cursor() render.CursorIcon { return h.icon }

func (h *Host) SetClip(r geom.Rect) {
	h.clip = &r
}

func (h *Host) ClearClip() {
	h.clip = nil
}

// visible reports whether the cell at (x, y) is on screen and inside the clip.
func (h *Host) visible(x, y int) bool {
	w, ht := h.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= ht {
		return false
	}
	return h.clip == nil || h.clip.Contains(x, y)
}

func toTcell(c render.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fromTcell(c tcell.Color) (render.Color, bool) {
	if c == tcell.ColorDefault || !c.Valid() {
		return render.Color{}, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return render.Color{}, false
	}
	return render.Color{R: uint8(r), G: uint8(g), B: uint8(b)}, true
}

// blendBg mixes c over the background already in the cell.
func (h *Host) blendBg(x, y int, c render.Color, alpha float64) tcell.Color {
	if alpha >= 1 {
		return toTcell(c)
	}
	_, _, style, _ := h.screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	base, ok := fromTcell(bg)
	if !ok {
		return toTcell(c)
	}
	return toTcell(theme.Blend(base, c, alpha))
}

// put writes a rune with fg over the existing background of the cell.
func (h *Host) put(x, y int, r rune, c render.Color, alpha float64) {
	if !h.visible(x, y) || alpha <= 0 {
		return
	}
	_, _, style, _ := h.screen.GetContent(x, y)
	h.screen.SetContent(x, y, r, nil, style.Foreground(h.blendBg(x, y, c, alpha)))
}

func (h *Host) FillRect(r geom.Rect, c render.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if !h.visible(x, y) {
				continue
			}
			bg := h.blendBg(x, y, c, alpha)
			h.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// StrokeRect outlines r with box drawing runes.
func (h *Host) StrokeRect(r geom.Rect, c render.Color, alpha float64) {
	if r.Empty() {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		h.put(x, r.Y, tcell.RuneHLine, c, alpha)
		h.put(x, bottom, tcell.RuneHLine, c, alpha)
	}
	for y := r.Y + 1; y < bottom; y++ {
		h.put(r.X, y, tcell.RuneVLine, c, alpha)
		h.put(right, y, tcell.RuneVLine, c, alpha)
	}
	if r.Width == 1 || r.Height == 1 {
		for y := r.Y; y <= bottom; y++ {
			for x := r.X; x <= right; x++ {
				h.put(x, y, tcell.RuneBlock, c, alpha)
			}
		}
		return
	}
	h.put(r.X, r.Y, tcell.RuneULCorner, c, alpha)
	h.put(right, r.Y, tcell.RuneURCorner, c, alpha)
	h.put(r.X, bottom, tcell.RuneLLCorner, c, alpha)
	h.put(right, bottom, tcell.RuneLRCorner, c, alpha)
}

// LineLoop draws each segment with line runes, falling back to dots for
// diagonals.
func (h *Host) LineLoop(pts []geom.Point, c render.Color, alpha float64) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		h.line(a, b, c, alpha)
	}
}

func (h *Host) line(a, b geom.Point, c render.Color, alpha float64) {
	glyph := tcell.RuneBullet
	switch {
	case a.Y == b.Y:
		glyph = tcell.RuneHLine
	case a.X == b.X:
		glyph = tcell.RuneVLine
	}
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	x, y := a.X, a.Y
	for {
		h.put(x, y, glyph, c, alpha)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// TexturedQuad has no texture support in a terminal; it fills the bounding
// box of the quad with the first vertex color.
func (h *Host) TexturedQuad(v [4]geom.Point, colors [4]render.Color, _ [4]render.UV, _ render.Texture) {
	minX, minY, maxX, maxY := v[0].X, v[0].Y, v[0].X, v[0].Y
	for _, p := range v[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	h.FillRect(geom.R(minX, minY, maxX-minX, maxY-minY), colors[0], 1)
}

func (h *Host) Text(x, y int, s string, _ render.Font, c render.Color, alpha float64) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		h.put(x, y, r, c, alpha)
		x += w
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
