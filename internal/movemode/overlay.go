package movemode

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

// HintFont is the font used by the hint panel.
const HintFont = render.FontMono

// Render outlines the selected frame and draws the key hint panel inside
// viewport. It draws nothing while the mode is inactive.
func (m *Mode) Render(ctx *render.Context, viewport geom.Rect) {
	if !m.Active() {
		return
	}

	var avoid []geom.Rect
	if sel, ok := m.state.SelectedRect(); ok {
		color := theme.Focus
		if m.state.Phase == PhaseConfirmClose {
			color = theme.FrameBorderModal
		}
		ctx.Stroke(sel, color)
		if m.state.Phase == PhaseGrabbed {
			ctx.Stroke(sel.Inset(1), color)
		}
		avoid = append(avoid, sel)
	}

	drawHint(ctx, viewport, avoid, hintLinesForPhase(m.state.Phase))
}

func drawHint(ctx *render.Context, viewport geom.Rect, avoid []geom.Rect, lines []string) {
	if len(lines) == 0 {
		return
	}
	lineHeight := ctx.Fonts.LineHeight(HintFont)
	padX := ctx.Fonts.StringWidth(HintFont, " ")
	padY := lineHeight / 4

	width := 0
	for _, line := range lines {
		if w := ctx.Fonts.StringWidth(HintFont, line); w > width {
			width = w
		}
	}
	width += 2 * padX
	height := len(lines)*lineHeight + 2*padY

	x, y := chooseHintPosition(viewport, avoid, width, height, padX)
	panel := geom.R(x, y, width, height)
	ctx.Fill(panel, theme.TitleBackground)
	ctx.Stroke(panel, theme.Focus)
	for i, line := range lines {
		ctx.Text(x+padX, y+padY+i*lineHeight, line, HintFont, theme.TitleText)
	}
}

func hintLinesForPhase(phase Phase) []string {
	switch phase {
	case PhaseSelecting:
		return []string{
			"Move Mode: select frame",
			"Arrows  select frame",
			"Tab     next frame",
			"Enter   grab selected",
			"d       close selected",
			"n       new frame",
			"Esc     cancel",
		}
	case PhaseGrabbed:
		return []string{
			"Move Mode: frame grabbed",
			"Arrows  move frame",
			"S-Arrow resize frame",
			"Enter   keep geometry",
			"Esc     restore geometry",
		}
	case PhaseConfirmClose:
		return []string{
			"Move Mode: confirm close",
			"Enter   close frame",
			"Esc     keep frame",
		}
	default:
		return nil
	}
}

// chooseHintPosition tries the four corners of bounds, inset by margin, and
// returns the first one that does not cover any avoid rect.
func chooseHintPosition(bounds geom.Rect, avoid []geom.Rect, width, height, margin int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	left := bounds.X + margin
	right := bounds.Right() - margin - width
	top := bounds.Y + margin
	bottom := bounds.Bottom() - margin - height
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}

	candidates := []geom.Rect{
		geom.R(right, top, width, height),
		geom.R(left, top, width, height),
		geom.R(right, bottom, width, height),
		geom.R(left, bottom, width, height),
	}
	for _, candidate := range candidates {
		covers := false
		for _, a := range avoid {
			if !candidate.Intersect(a).Empty() {
				covers = true
				break
			}
		}
		if !covers {
			return clampHintOrigin(candidate.X, candidate.Y, bounds, width, height, margin)
		}
	}

	// Every corner overlaps the selection.
	return clampHintOrigin(candidates[0].X, candidates[0].Y, bounds, width, height, margin)
}

func clampHintOrigin(x, y int, bounds geom.Rect, width, height, margin int) (int, int) {
	left := bounds.X + margin
	right := bounds.Right() - margin - width
	if right < left {
		left = bounds.X
		right = bounds.Right() - width
	}
	if right < left {
		right = left
	}

	top := bounds.Y + margin
	bottom := bounds.Bottom() - margin - height
	if bottom < top {
		top = bounds.Y
		bottom = bounds.Bottom() - height
	}
	if bottom < top {
		bottom = top
	}

	return min(max(x, left), right), min(max(y, top), bottom)
}
