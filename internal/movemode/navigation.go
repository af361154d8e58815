package movemode

import "github.com/1broseidon/framewm/internal/geom"

// NavigateSpatial picks the frame nearest to rects[currentIdx] in direction
// dir, measured between centers. When nothing lies that way it wraps to the
// frame furthest on the opposite side, preferring the same row or column.
func NavigateSpatial(currentIdx int, dir Direction, rects []geom.Rect) int {
	if len(rects) == 0 {
		return 0
	}
	if currentIdx < 0 || currentIdx >= len(rects) {
		return 0
	}

	c := rects[currentIdx].Center()

	bestIdx := -1
	bestDist := -1
	for i, r := range rects {
		if i == currentIdx {
			continue
		}
		rc := r.Center()

		inDirection := false
		switch dir {
		case DirUp:
			inDirection = rc.Y < c.Y
		case DirDown:
			inDirection = rc.Y > c.Y
		case DirLeft:
			inDirection = rc.X < c.X
		case DirRight:
			inDirection = rc.X > c.X
		}
		if !inDirection {
			continue
		}

		dist := abs(rc.X-c.X) + abs(rc.Y-c.Y)
		if bestIdx == -1 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}

	// Wrap: furthest along the opposite edge, smallest cross-axis offset.
	bestScore := 0
	for i, r := range rects {
		if i == currentIdx {
			continue
		}
		rc := r.Center()

		var score int
		switch dir {
		case DirUp:
			score = rc.Y*10000 - abs(rc.X-c.X)
		case DirDown:
			score = -rc.Y*10000 - abs(rc.X-c.X)
		case DirLeft:
			score = rc.X*10000 - abs(rc.Y-c.Y)
		case DirRight:
			score = -rc.X*10000 - abs(rc.Y-c.Y)
		}
		if bestIdx == -1 || score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}
	return currentIdx
}

// NavigateCycle steps through count entries, wrapping at both ends.
// Up/Left go to the previous entry, Down/Right to the next.
func NavigateCycle(currentIdx int, dir Direction, count int) int {
	if count <= 1 {
		return 0
	}
	switch dir {
	case DirUp, DirLeft:
		return (currentIdx - 1 + count) % count
	case DirDown, DirRight:
		return (currentIdx + 1) % count
	}
	return currentIdx
}

// FindClosest returns the index of the rect whose center is nearest to
// (x, y), or -1 when rects is empty.
func FindClosest(x, y int, rects []geom.Rect) int {
	bestIdx := -1
	bestDist := -1
	for i, r := range rects {
		c := r.Center()
		dist := abs(x-c.X) + abs(y-c.Y)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	return bestIdx
}

// Nudge moves r by step in dir, or when resize is set grows (Right, Down) or
// shrinks (Left, Up) its size by step. Sizes never go below one.
func Nudge(r geom.Rect, dir Direction, step int, resize bool) geom.Rect {
	if !resize {
		switch dir {
		case DirUp:
			return r.Translate(0, -step)
		case DirDown:
			return r.Translate(0, step)
		case DirLeft:
			return r.Translate(-step, 0)
		case DirRight:
			return r.Translate(step, 0)
		}
		return r
	}

	switch dir {
	case DirUp:
		r.Height -= step
	case DirDown:
		r.Height += step
	case DirLeft:
		r.Width -= step
	case DirRight:
		r.Width += step
	}
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
