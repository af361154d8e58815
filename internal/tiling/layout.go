// Package tiling computes grid arrangements of frames inside a viewport.
package tiling

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
)

// CalculateGrid returns the most square grid that holds n frames: the
// fewest columns whose square covers n, then as many rows as needed.
func CalculateGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = 1
	for cols*cols < n {
		cols++
	}
	return ceilDiv(n, cols), cols
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// span is one track along a grid axis.
type span struct {
	pos, size int
}

// tracks splits [start, start+length) into n tracks separated by gap. Track
// sizes differ by at most one and, with the gaps, cover length exactly.
func tracks(start, length, n, gap int) []span {
	if n <= 0 {
		return nil
	}
	sizes := geom.Distribute(length-(n-1)*gap, make([]int, n))
	out := make([]span, n)
	pos := start
	for i, size := range sizes {
		out[i] = span{pos: pos, size: size}
		pos += size + gap
	}
	return out
}

// inset shrinks area by gap on every side.
func inset(area geom.Rect, gap int) geom.Rect {
	return geom.R(area.X+gap, area.Y+gap, area.Width-2*gap, area.Height-2*gap)
}

func cell(col, row span) geom.Rect {
	return geom.R(col.pos, row.pos, col.size, row.size)
}

// CalculatePositions computes frame rectangles for an auto grid with gaps
// around and between cells.
func CalculatePositions(n int, area geom.Rect, gapSize int) []geom.Rect {
	if n <= 0 {
		return nil
	}
	rows, cols := CalculateGrid(n)
	inner := inset(area, gapSize)
	xs := tracks(inner.X, inner.Width, cols, gapSize)
	ys := tracks(inner.Y, inner.Height, rows, gapSize)

	out := make([]geom.Rect, n)
	for i := range out {
		out[i] = cell(xs[i%cols], ys[i/cols])
	}
	return out
}

// CalculatePositionsWithLayout computes frame rectangles for a layout. It may
// return fewer than n rectangles when the layout has a fixed capacity; the
// remaining frames keep their geometry.
func CalculatePositionsWithLayout(
	n int,
	area geom.Rect,
	layout *config.Layout,
	gapSize int,
) ([]geom.Rect, error) {
	if n <= 0 {
		return nil, nil
	}
	if layout.Mode == config.LayoutModeMasterStack {
		return masterStack(n, area, layout.MasterStack, gapSize)
	}

	rows, cols, flexible, err := gridShape(n, layout)
	if err != nil {
		return nil, err
	}
	n = min(n, rows*cols)

	inner := inset(area, gapSize)
	xs := tracks(inner.X, inner.Width, cols, gapSize)
	ys := tracks(inner.Y, inner.Height, rows, gapSize)
	if xs[0].size <= 0 || ys[0].size <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d",
			area.Width, area.Height, rows, cols, gapSize,
		)
	}

	// A short last row spreads its frames over the full width.
	last, lastXs := rows-1, xs
	if short := n - last*cols; flexible && short > 0 && short < cols {
		lastXs = tracks(inner.X, inner.Width, short, gapSize)
	}

	out := make([]geom.Rect, n)
	for i := range out {
		row, col := i/cols, i%cols
		x := xs[col]
		if row == last {
			x = lastXs[col]
		}
		out[i] = capSize(cell(x, ys[row]), layout.MaxFrameWidth, layout.MaxFrameHeight)
	}
	return out, nil
}

// gridShape returns the rows and columns a grid layout uses for n frames and
// whether its last row may stretch.
func gridShape(n int, layout *config.Layout) (rows, cols int, flexible bool, err error) {
	switch layout.Mode {
	case config.LayoutModeAuto:
		rows, cols = CalculateGrid(n)
		return rows, cols, layout.FlexibleLastRow, nil
	case config.LayoutModeFixed:
		rows, cols = layout.FixedGrid.Rows, layout.FixedGrid.Cols
	case config.LayoutModeVertical:
		rows, cols = n, 1
	case config.LayoutModeHorizontal:
		rows, cols = 1, n
	default:
		return 0, 0, false, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, false, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}
	return rows, cols, false, nil
}

// capSize limits r to the max frame size, centered in the original cell.
// Zero means no limit.
func capSize(r geom.Rect, maxWidth, maxHeight int) geom.Rect {
	if maxWidth > 0 && r.Width > maxWidth {
		r.X += (r.Width - maxWidth) / 2
		r.Width = maxWidth
	}
	if maxHeight > 0 && r.Height > maxHeight {
		r.Y += (r.Height - maxHeight) / 2
		r.Height = maxHeight
	}
	return r
}

// masterStack places the first frame in a left column of
// MasterWidthPercent and the rest in a grid on the right, capped at
// MaxStackRows by MaxStackCols.
func masterStack(n int, area geom.Rect, ms config.MasterStack, gap int) ([]geom.Rect, error) {
	inner := inset(area, gap)
	split := area.X + area.Width*ms.MasterWidthPercent/100
	master := geom.R(inner.X, inner.Y, split-inner.X, inner.Height)
	if n == 1 {
		if master.Width <= 0 || master.Height <= 0 {
			return nil, fmt.Errorf("insufficient space for master-stack layout: area=%dx%d gap=%d",
				area.Width, area.Height, gap)
		}
		return []geom.Rect{master}, nil
	}

	stack := geom.R(split+gap, inner.Y, inner.Right()-split-gap, inner.Height)
	count := n - 1
	cols := min(max(ceilDiv(count, max(ms.MaxStackRows, 1)), 1), max(ms.MaxStackCols, 1))
	rows := min(ceilDiv(count, cols), max(ms.MaxStackRows, 1))
	count = min(count, rows*cols)

	xs := tracks(stack.X, stack.Width, cols, gap)
	ys := tracks(stack.Y, stack.Height, rows, gap)
	if master.Width <= 0 || master.Height <= 0 || xs[0].size <= 0 || ys[0].size <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d master=%d stack=%dx%d gap=%d",
			area.Width, area.Height, master.Width, xs[0].size, ys[0].size, gap,
		)
	}

	out := make([]geom.Rect, 0, count+1)
	out = append(out, master)
	for i := 0; i < count; i++ {
		out = append(out, cell(xs[i%cols], ys[i/cols]))
	}
	return out, nil
}

// ApplyRegion narrows area to the layout's tile region. Region edges are
// computed as percentages of area, so complementary regions such as the two
// halves of an odd width meet without a gap.
func ApplyRegion(area geom.Rect, region config.TileRegion) geom.Rect {
	x0, y0, x1, y1 := 0, 0, 100, 100
	switch region.Type {
	case config.RegionLeftHalf:
		x1 = 50
	case config.RegionRightHalf:
		x0 = 50
	case config.RegionTopHalf:
		y1 = 50
	case config.RegionBottomHalf:
		y0 = 50
	case config.RegionCustom:
		x0, y0 = region.XPercent, region.YPercent
		x1, y1 = x0+region.WidthPercent, y0+region.HeightPercent
	}

	left, right := edge(area.X, area.Width, x0), edge(area.X, area.Width, x1)
	top, bottom := edge(area.Y, area.Height, y0), edge(area.Y, area.Height, y1)
	return geom.R(left, top, max(right-left, 1), max(bottom-top, 1))
}

func edge(start, length, percent int) int {
	return start + length*percent/100
}
