// Package x11host runs the window manager in a single X11 window using core
// protocol drawing.
package x11host

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/render"
)

// fontNames are tried in order; every X server ships "fixed".
var fontNames = []string{"9x15", "8x13", "fixed", "6x13"}

// Options configures the X11 host.
type Options struct {
	// Display is the X display name; empty uses $DISPLAY.
	Display string
	Width   int
	Height  int
	Title   string
	Logger  *slog.Logger
}

// Host is a top-level X11 window. Drawing goes to a back buffer pixmap that
// Present copies to the window.
type Host struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	win    xproto.Window
	gc     xproto.Gcontext
	copyGC xproto.Gcontext
	font   xproto.Font
	logger *slog.Logger

	ascent, descent, charWidth int

	mu            sync.Mutex
	width, height int
	back          xproto.Pixmap
	backW, backH  int

	cursors  map[render.CursorIcon]xproto.Cursor
	icon     render.CursorIcon
	queue    *input.Queue
	deleteWM xproto.Atom

	resized  chan geom.Rect
	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ render.Painter      = (*Host)(nil)
	_ render.Fonts        = (*Host)(nil)
	_ render.CursorSetter = (*Host)(nil)
)

// New connects to the display and maps the window.
func New(opts Options) (*Host, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	if opts.Title == "" {
		opts.Title = "framewm"
	}

	xu, err := xgbutil.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	keybind.Initialize(xu)

	h := &Host{
		xu:      xu,
		conn:    xu.Conn(),
		logger:  opts.Logger,
		width:   opts.Width,
		height:  opts.Height,
		cursors: make(map[render.CursorIcon]xproto.Cursor),
		queue:   &input.Queue{},
		resized: make(chan geom.Rect, 1),
		done:    make(chan struct{}),
	}
	if err := h.setup(opts.Title); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	go h.read()
	return h, nil
}

func (h *Host) setup(title string) error {
	screen := h.xu.Screen()

	wid, err := xproto.NewWindowId(h.conn)
	if err != nil {
		return err
	}
	events := uint32(xproto.EventMaskExposure | xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease |
		xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion |
		xproto.EventMaskStructureNotify)
	err = xproto.CreateWindowChecked(
		h.conn,
		screen.RootDepth,
		wid,
		h.xu.RootWin(),
		0, 0,
		uint16(h.width), uint16(h.height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		// Value list order follows the bit positions of the mask.
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{screen.BlackPixel, events},
	).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	h.win = wid

	if err := h.openFont(); err != nil {
		return err
	}
	if h.gc, err = h.newGC(true); err != nil {
		return err
	}
	if h.copyGC, err = h.newGC(false); err != nil {
		return err
	}
	if err := h.ensureBackBuffer(); err != nil {
		return err
	}

	if err := ewmh.WmNameSet(h.xu, wid, title); err != nil {
		h.logger.Debug("set _NET_WM_NAME failed", "error", err)
	}
	if err := icccm.WmNameSet(h.xu, wid, title); err != nil {
		h.logger.Debug("set WM_NAME failed", "error", err)
	}
	if err := icccm.WmProtocolsSet(h.xu, wid, []string{"WM_DELETE_WINDOW"}); err == nil {
		if atom, err := xprop.Atm(h.xu, "WM_DELETE_WINDOW"); err == nil {
			h.deleteWM = atom
		}
	}

	xproto.MapWindow(h.conn, wid)
	return nil
}

func (h *Host) openFont() error {
	font, err := xproto.NewFontId(h.conn)
	if err != nil {
		return err
	}
	opened := ""
	for _, name := range fontNames {
		if xproto.OpenFontChecked(h.conn, font, uint16(len(name)), name).Check() == nil {
			opened = name
			break
		}
	}
	if opened == "" {
		return fmt.Errorf("no core font available (tried %v)", fontNames)
	}
	info, err := xproto.QueryFont(h.conn, xproto.Fontable(font)).Reply()
	if err != nil {
		xproto.CloseFont(h.conn, font)
		return fmt.Errorf("query font %q: %w", opened, err)
	}
	h.font = font
	h.ascent = int(info.FontAscent)
	h.descent = int(info.FontDescent)
	h.charWidth = max(int(info.MaxBounds.CharacterWidth), 1)
	h.logger.Debug("x11 font opened", "name", opened, "width", h.charWidth, "height", h.ascent+h.descent)
	return nil
}

func (h *Host) newGC(withFont bool) (xproto.Gcontext, error) {
	gc, err := xproto.NewGcontextId(h.conn)
	if err != nil {
		return 0, err
	}
	mask := uint32(xproto.GcForeground | xproto.GcGraphicsExposures)
	values := []uint32{h.xu.Screen().WhitePixel, 0}
	if withFont {
		mask = xproto.GcForeground | xproto.GcFont | xproto.GcGraphicsExposures
		values = []uint32{h.xu.Screen().WhitePixel, uint32(h.font), 0}
	}
	if err := xproto.CreateGCChecked(h.conn, gc, xproto.Drawable(h.win), mask, values).Check(); err != nil {
		return 0, fmt.Errorf("create gc: %w", err)
	}
	return gc, nil
}

// ensureBackBuffer recreates the pixmap after the window size changed.
func (h *Host) ensureBackBuffer() error {
	h.mu.Lock()
	w, ht := h.width, h.height
	h.mu.Unlock()
	if h.back != 0 && w == h.backW && ht == h.backH {
		return nil
	}
	if h.back != 0 {
		xproto.FreePixmap(h.conn, h.back)
	}
	pid, err := xproto.NewPixmapId(h.conn)
	if err != nil {
		return err
	}
	err = xproto.CreatePixmapChecked(h.conn, h.xu.Screen().RootDepth, pid, xproto.Drawable(h.win),
		uint16(max(w, 1)), uint16(max(ht, 1))).Check()
	if err != nil {
		return fmt.Errorf("create back buffer: %w", err)
	}
	h.back, h.backW, h.backH = pid, w, ht
	return nil
}

func (h *Host) Name() string { return "x11" }

func (h *Host) Source() input.Source { return h.queue }

func (h *Host) Viewport() geom.Rect {
	h.mu.Lock()
	defer h.mu.Unlock()
	return geom.R(0, 0, h.width, h.height)
}

func (h *Host) Resized() <-chan geom.Rect { return h.resized }

func (h *Host) Done() <-chan struct{} { return h.done }

// Present copies the back buffer to the window and flushes the connection.
func (h *Host) Present() error {
	xproto.CopyArea(h.conn, xproto.Drawable(h.back), xproto.Drawable(h.win), h.copyGC,
		0, 0, 0, 0, uint16(h.backW), uint16(h.backH))
	h.conn.Sync()
	return h.ensureBackBuffer()
}

// Close destroys the window and disconnects. The reader goroutine exits when
// the connection closes.
func (h *Host) Close() error {
	h.finish()
	for _, c := range h.cursors {
		xproto.FreeCursor(h.conn, c)
	}
	if h.back != 0 {
		xproto.FreePixmap(h.conn, h.back)
	}
	xproto.FreeGC(h.conn, h.gc)
	xproto.FreeGC(h.conn, h.copyGC)
	xproto.CloseFont(h.conn, h.font)
	xproto.DestroyWindow(h.conn, h.win)
	h.conn.Close()
	return nil
}

func (h *Host) finish() {
	h.doneOnce.Do(func() { close(h.done) })
}

func (h *Host) read() {
	for {
		ev, xerr := h.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			h.finish()
			return
		}
		if xerr != nil {
			h.logger.Debug("x11 error", "error", xerr)
			continue
		}
		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			h.key(e.Detail, e.State, true)
		case xproto.KeyReleaseEvent:
			h.key(e.Detail, e.State, false)
		case xproto.ButtonPressEvent:
			h.button(byte(e.Detail), e.State, int(e.EventX), int(e.EventY), true)
		case xproto.ButtonReleaseEvent:
			h.button(byte(e.Detail), e.State, int(e.EventX), int(e.EventY), false)
		case xproto.MotionNotifyEvent:
			h.queue.MoveTo(int(e.EventX), int(e.EventY))
		case xproto.ConfigureNotifyEvent:
			h.configure(int(e.Width), int(e.Height))
		case xproto.ClientMessageEvent:
			if h.deleteWM != 0 && len(e.Data.Data32) > 0 && xproto.Atom(e.Data.Data32[0]) == h.deleteWM {
				h.logger.Info("window closed by the window manager")
				h.finish()
			}
		}
	}
}

func (h *Host) key(code xproto.Keycode, state uint16, down bool) {
	name := keybind.LookupString(h.xu, state, code)
	if ke, ok := keyFromName(name, state); ok {
		ke.Down = down
		h.queue.PushKey(ke)
	}
}

func (h *Host) button(detail byte, state uint16, x, y int, down bool) {
	b, ok := buttonFrom(detail)
	if !ok {
		return
	}
	// Wheel notches arrive as press and release pairs; only the press counts.
	if b.IsWheel() && !down {
		return
	}
	h.queue.PushMouse(mouseEvent(b, state, x, y, down))
}

func (h *Host) configure(w, ht int) {
	h.mu.Lock()
	changed := w != h.width || ht != h.height
	h.width, h.height = w, ht
	h.mu.Unlock()
	if !changed {
		return
	}
	select {
	case <-h.resized:
	default:
	}
	h.resized <- geom.R(0, 0, w, ht)
}

// StringWidth assumes the fixed-width core font.
func (h *Host) StringWidth(_ render.Font, s string) int {
	return len([]rune(s)) * h.charWidth
}

func (h *Host) LineHeight(render.Font) int { return h.ascent + h.descent }

func (h *Host) SetCursor(icon render.CursorIcon) {
	if icon == h.icon && len(h.cursors) > 0 {
		return
	}
	c, ok := h.cursors[icon]
	if !ok {
		var err error
		c, err = xcursor.CreateCursor(h.xu, cursorGlyph(icon))
		if err != nil {
			h.logger.Debug("create cursor failed", "icon", icon, "error", err)
			return
		}
		h.cursors[icon] = c
	}
	h.icon = icon
	xproto.ChangeWindowAttributes(h.conn, h.win, xproto.CwCursor, []uint32{uint32(c)})
}

func (h *Host) SetClip(r geom.Rect) {
	xproto.SetClipRectangles(h.conn, xproto.ClipOrderingUnsorted, h.gc, 0, 0, []xproto.Rectangle{rectangle(r)})
}

func (h *Host) ClearClip() {
	xproto.ChangeGC(h.conn, h.gc, xproto.GcClipMask, []uint32{xproto.PixmapNone})
}

// foreground sets the drawing color. The core protocol has no blending, so
// translucent colors are drawn opaque and fully transparent ones skipped.
func (h *Host) foreground(c render.Color, alpha float64) bool {
	if alpha <= 0 {
		return false
	}
	xproto.ChangeGC(h.conn, h.gc, xproto.GcForeground, []uint32{c.Packed()})
	return true
}

func (h *Host) FillRect(r geom.Rect, c render.Color, alpha float64) {
	if r.Empty() || !h.foreground(c, alpha) {
		return
	}
	xproto.PolyFillRectangle(h.conn, xproto.Drawable(h.back), h.gc, []xproto.Rectangle{rectangle(r)})
}

func (h *Host) StrokeRect(r geom.Rect, c render.Color, alpha float64) {
	if r.Empty() || !h.foreground(c, alpha) {
		return
	}
	// X outlines cover width+1 by height+1 pixels.
	o := rectangle(r)
	o.Width = max(o.Width, 1) - 1
	o.Height = max(o.Height, 1) - 1
	xproto.PolyRectangle(h.conn, xproto.Drawable(h.back), h.gc, []xproto.Rectangle{o})
}

func (h *Host) LineLoop(pts []geom.Point, c render.Color, alpha float64) {
	if len(pts) < 2 || !h.foreground(c, alpha) {
		return
	}
	xp := make([]xproto.Point, 0, len(pts)+1)
	for _, p := range pts {
		xp = append(xp, xproto.Point{X: int16(p.X), Y: int16(p.Y)})
	}
	xp = append(xp, xp[0])
	xproto.PolyLine(h.conn, xproto.CoordModeOrigin, xproto.Drawable(h.back), h.gc, xp)
}

// TexturedQuad fills the quad with its first vertex color; core X11 has no
// texture mapping.
func (h *Host) TexturedQuad(v [4]geom.Point, colors [4]render.Color, _ [4]render.UV, _ render.Texture) {
	if !h.foreground(colors[0], 1) {
		return
	}
	xp := make([]xproto.Point, 4)
	for i, p := range v {
		xp[i] = xproto.Point{X: int16(p.X), Y: int16(p.Y)}
	}
	xproto.FillPoly(h.conn, xproto.Drawable(h.back), h.gc, xproto.PolyShapeConvex, xproto.CoordModeOrigin, xp)
}

func (h *Host) Text(x, y int, s string, _ render.Font, c render.Color, alpha float64) {
	if s == "" || !h.foreground(c, alpha) {
		return
	}
	xproto.PolyText8(h.conn, xproto.Drawable(h.back), h.gc, int16(x), int16(y+h.ascent), textItems(s))
}
