package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/tiling"
)

// summarizeLayout describes the frame sizes a layout produces in viewport.
func summarizeLayout(layout *config.Layout, tileCount, gapSize int, viewport geom.Rect) string {
	if layout == nil {
		return ""
	}
	tileCount = max(tileCount, 1)
	gapSize = max(gapSize, 0)

	region := tiling.ApplyRegion(viewport, layout.TileRegion)
	rects, err := tiling.CalculatePositionsWithLayout(tileCount, region, layout, gapSize)
	if err != nil {
		rects = tiling.CalculatePositions(tileCount, region, gapSize)
	}
	if len(rects) == 0 {
		return "no frames"
	}

	minW, minH := rects[0].Width, rects[0].Height
	maxW, maxH := minW, minH
	for _, r := range rects[1:] {
		minW, minH = min(minW, r.Width), min(minH, r.Height)
		maxW, maxH = max(maxW, r.Width), max(maxH, r.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d frames • %d×%d each", len(rects), minW, minH)
	}
	return fmt.Sprintf("%d frames • min %d×%d • max %d×%d", len(rects), minW, minH, maxW, maxH)
}

// renderASCIIPreview draws the frames a layout would produce for tileCount
// frames on a width×height character canvas.
func renderASCIIPreview(layout *config.Layout, tileCount, width, height int) []string {
	if layout == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Each cell stands for a 2×2 block of the simulated viewport.
	viewport := geom.R(0, 0, width*2, height*2)
	area := tiling.ApplyRegion(viewport, layout.TileRegion)
	rects, err := tiling.CalculatePositionsWithLayout(tileCount, area, layout, 1)
	if err != nil {
		rects = tiling.CalculatePositions(tileCount, area, 1)
	}

	for i, r := range rects {
		cell := geom.R(r.X/2, r.Y/2, 0, 0)
		cell.Width = r.Right()/2 - cell.X
		cell.Height = r.Bottom()/2 - cell.Y
		drawTile(canvas, cell, i+1)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// drawTile outlines r on the canvas, inside the outer border, and writes
// num at its centre.
func drawTile(canvas [][]rune, r geom.Rect, num int) {
	inner := geom.R(1, 1, len(canvas[0])-2, len(canvas)-2)
	x1, y1 := max(r.X, inner.X), max(r.Y, inner.Y)
	x2, y2 := min(r.Right(), inner.Right()-1), min(r.Bottom(), inner.Bottom()-1)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	cy, cx := (y1+y2)/2, (x1+x2)/2
	if cy <= y1 || cy >= y2 {
		return
	}
	label := fmt.Sprintf("%d", num)
	start := cx - len(label)/2
	for i, ch := range label {
		if x := start + i; x > x1 && x < x2 {
			canvas[cy][x] = ch
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
