package geom

// Point is an integer position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a non-negative width and height.
type Size struct {
	Width  int
	Height int
}

// Clamp returns s with negative dimensions replaced by zero.
func (s Size) Clamp() Size {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}

// Rect represents a position and size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Pos returns the top-left corner.
func (r Rect) Pos() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rect dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right is the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom is the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ContainsRect reports whether o lies entirely inside r. An empty o is
// contained in every rect.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset shrinks r by n on every side, clamping to zero size.
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.Width -= 2 * n
	r.Height -= 2 * n
	return r.Clamp()
}

// Clamp returns r with negative dimensions replaced by zero.
func (r Rect) Clamp() Rect {
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Intersect returns the overlap of r and o. Disjoint rects produce a
// zero-size rect positioned inside r so callers can still test Empty.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Center returns the integer center of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Distribute splits avail among weights using a running remainder so the
// returned lengths always sum to avail exactly. All-zero weights split
// evenly. A non-positive avail yields all zeros.
func Distribute(avail int, weights []int) []int {
	out := make([]int, len(weights))
	if len(weights) == 0 || avail <= 0 {
		return out
	}
	w := make([]int, len(weights))
	total := 0
	for i, v := range weights {
		w[i] = max(v, 0)
		total += w[i]
	}
	if total == 0 {
		for i := range w {
			w[i] = 1
		}
		total = len(w)
	}
	cum, prev := 0, 0
	for i, v := range w {
		cum += v
		end := avail * cum / total
		out[i] = end - prev
		prev = end
	}
	return out
}
