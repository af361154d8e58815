// Package region classifies points against a frame's decorated geometry.
package region

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// Region identifies a semantic zone of a frame.
type Region int

const (
	Out Region = iota
	Title
	Content
	Top
	Bot
	Left
	Right
	TopLeft
	TopRight
	BotLeft
	BotRight
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case Out:
		return "out"
	case Title:
		return "title"
	case Content:
		return "content"
	case Top:
		return "top"
	case Bot:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BotLeft:
		return "bottom-left"
	case BotRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// IsBorder reports whether the region is one of the eight resize handles.
func (r Region) IsBorder() bool {
	switch r {
	case Top, Bot, Left, Right, TopLeft, TopRight, BotLeft, BotRight:
		return true
	}
	return false
}

// Edges reports which edges a resize from r moves.
func (r Region) Edges() (left, right, top, bottom bool) {
	switch r {
	case Left:
		return true, false, false, false
	case Right:
		return false, true, false, false
	case Top:
		return false, false, true, false
	case Bot:
		return false, false, false, true
	case TopLeft:
		return true, false, true, false
	case TopRight:
		return false, true, true, false
	case BotLeft:
		return true, false, false, true
	case BotRight:
		return false, true, false, true
	}
	return false, false, false, false
}

// Cursor is the pointer icon shown while hovering or dragging r.
func (r Region) Cursor() render.CursorIcon {
	switch r {
	case Title:
		return render.CursorMove
	case Top:
		return render.CursorResizeN
	case Bot:
		return render.CursorResizeS
	case Left:
		return render.CursorResizeW
	case Right:
		return render.CursorResizeE
	case TopLeft:
		return render.CursorResizeNW
	case TopRight:
		return render.CursorResizeNE
	case BotLeft:
		return render.CursorResizeSW
	case BotRight:
		return render.CursorResizeSE
	}
	return render.CursorPointer
}

// Column and row bands. The outermost bands of each axis lie outside the frame.
const (
	colOutLeft = iota
	colLeft
	colInner
	colRight
	colOutRight
)

const (
	rowOutTop = iota
	rowTop
	rowTitle
	rowInner
	rowBottom
	rowOutBottom
)

// table maps [row-1][col-1] for the in-bounds bands.
var table = [4][3]Region{
	rowTop - 1:    {TopLeft, Top, TopRight},
	rowTitle - 1:  {Left, Title, Right},
	rowInner - 1:  {Left, Content, Right},
	rowBottom - 1: {BotLeft, Bot, BotRight},
}

// Geometry is the decorated shape of a frame.
type Geometry struct {
	Bounds   geom.Rect
	Border   int
	Titlebar int // 0 when the frame has no titlebar
}

// Classify maps the absolute point (mx, my) to a region of g.
func Classify(g Geometry, mx, my int) Region {
	col := column(g, mx)
	if col == colOutLeft || col == colOutRight {
		return Out
	}
	row := row(g, my)
	if row == rowOutTop || row == rowOutBottom {
		return Out
	}
	return table[row-1][col-1]
}

func column(g Geometry, mx int) int {
	x, w, b := g.Bounds.X, g.Bounds.Width, g.Border
	switch {
	case mx < x:
		return colOutLeft
	case mx < x+b:
		return colLeft
	case mx < x+w-b:
		return colInner
	case mx < x+w:
		return colRight
	default:
		return colOutRight
	}
}

func row(g Geometry, my int) int {
	y, h, b, t := g.Bounds.Y, g.Bounds.Height, g.Border, g.Titlebar
	switch {
	case my < y:
		return rowOutTop
	case my < y+b:
		return rowTop
	case my < y+b+t:
		return rowTitle
	case my < y+h-b:
		return rowInner
	case my < y+h:
		return rowBottom
	default:
		return rowOutBottom
	}
}
