package platform

import (
	"sync"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/render"
)

// Headless fixed font metrics, in pixels.
const (
	HeadlessCharWidth  = 8
	HeadlessLineHeight = 16
)

// Headless is a host without a surface. Drawing is discarded and input comes
// only from what callers push onto Queue.
type Headless struct {
	Queue *input.Queue

	viewport geom.Rect
	resized  chan geom.Rect

	mu     sync.Mutex
	cursor render.CursorIcon
	frames int

	done     chan struct{}
	doneOnce sync.Once
}

func NewHeadless(viewport geom.Rect) *Headless {
	return &Headless{
		Queue:    &input.Queue{},
		viewport: viewport,
		resized:  make(chan geom.Rect, 1),
		done:     make(chan struct{}),
	}
}

func (h *Headless) Name() string              { return HostHeadless }
func (h *Headless) Source() input.Source      { return h.Queue }
func (h *Headless) Viewport() geom.Rect       { return h.viewport }
func (h *Headless) Resized() <-chan geom.Rect { return h.resized }
func (h *Headless) Done() <-chan struct{}     { return h.done }

// Resize reports a new viewport on Resized, replacing any undelivered one.
func (h *Headless) Resize(r geom.Rect) {
	h.viewport = r
	select {
	case <-h.resized:
	default:
	}
	h.resized <- r
}

func (h *Headless) Present() error {
	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
	return nil
}

// Frames counts Present calls.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *Headless) Close() error {
	h.doneOnce.Do(func() { close(h.done) })
	return nil
}

func (h *Headless) SetCursor(icon render.CursorIcon) {
	h.mu.Lock()
	h.cursor = icon
	h.mu.Unlock()
}

func (h *Headless) Cursor() render.CursorIcon {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

func (h *Headless) StringWidth(_ render.Font, s string) int {
	return len([]rune(s)) * HeadlessCharWidth
}

func (h *Headless) LineHeight(render.Font) int { return HeadlessLineHeight }

func (h *Headless) FillRect(geom.Rect, render.Color, float64)                                 {}
func (h *Headless) StrokeRect(geom.Rect, render.Color, float64)                               {}
func (h *Headless) LineLoop([]geom.Point, render.Color, float64)                              {}
func (h *Headless) TexturedQuad([4]geom.Point, [4]render.Color, [4]render.UV, render.Texture) {}
func (h *Headless) Text(int, int, string, render.Font, render.Color, float64)                 {}
func (h *Headless) SetClip(geom.Rect)                                                         {}
func (h *Headless) ClearClip()                                                                {}
