// Package render defines the drawing collaborators the window manager consumes
// and the coordinate stack that positions and clips nested widgets.
package render

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/geom"
)

// Color is an opaque RGB color. Alpha travels separately with each draw call.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from a packed 0xRRGGBB value.
func RGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Packed returns the color as 0xRRGGBB.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// UV is a texture coordinate.
type UV struct {
	U, V float32
}

// Texture is an opaque host texture handle.
type Texture uint32

// Font selects a logical font.
type Font string

const (
	FontDefault Font = "default"
	FontTitle   Font = "title"
	FontMono    Font = "mono"
)

// Painter is the host's primitive rasterizer. All coordinates are absolute;
// the coordinate stack applies translation before calling it.
type Painter interface {
	FillRect(r geom.Rect, c Color, alpha float64)
	StrokeRect(r geom.Rect, c Color, alpha float64)
	LineLoop(pts []geom.Point, c Color, alpha float64)
	TexturedQuad(vertices [4]geom.Point, colors [4]Color, uv [4]UV, tex Texture)
	Text(x, y int, s string, font Font, c Color, alpha float64)
	SetClip(r geom.Rect)
	ClearClip()
}

// Fonts measures strings for a logical font.
type Fonts interface {
	StringWidth(font Font, s string) int
	LineHeight(font Font) int
}

// Theme provides named color and alpha lookups.
type Theme interface {
	Color(name string) Color
	Alpha(name string) float64
}

// CursorIcon is a semantic pointer shape.
type CursorIcon int

const (
	CursorPointer CursorIcon = iota
	CursorMove
	CursorResizeN
	CursorResizeS
	CursorResizeE
	CursorResizeW
	CursorResizeNE
	CursorResizeNW
	CursorResizeSE
	CursorResizeSW
)

func (c CursorIcon) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorMove:
		return "move"
	case CursorResizeN:
		return "resize-n"
	case CursorResizeS:
		return "resize-s"
	case CursorResizeE:
		return "resize-e"
	case CursorResizeW:
		return "resize-w"
	case CursorResizeNE:
		return "resize-ne"
	case CursorResizeNW:
		return "resize-nw"
	case CursorResizeSE:
		return "resize-se"
	case CursorResizeSW:
		return "resize-sw"
	default:
		return "unknown"
	}
}

// CursorSetter changes the pointer icon.
type CursorSetter interface {
	SetCursor(icon CursorIcon)
}
