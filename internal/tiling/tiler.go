package tiling

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
)

// Window is a frame as seen by the tiler.
type Window struct {
	ID     uint64
	Bounds geom.Rect
}

// Placement is the rectangle a tiling pass assigns to a frame.
type Placement struct {
	ID     uint64
	Bounds geom.Rect
}

// Tiler tracks the active layout and the geometry before the last tiling
// pass so it can be undone. It is owned by the window manager and is not safe
// for concurrent use.
type Tiler struct {
	config   *config.Config
	active   string
	previous []Placement
}

func NewTiler(cfg *config.Config) *Tiler {
	return &Tiler{config: cfg}
}

// Tile arranges windows, in order, inside area using the active layout.
// Windows beyond the layout's capacity are not placed.
func (t *Tiler) Tile(windows []Window, area geom.Rect) ([]Placement, error) {
	name := t.ActiveLayoutName()
	layout, err := t.config.GetLayout(name)
	if err != nil {
		return nil, err
	}

	region := ApplyRegion(area, layout.TileRegion)
	if region.Width < 1 || region.Height < 1 {
		return nil, fmt.Errorf("tile_region leaves no usable space: %dx%d at %d,%d",
			region.Width, region.Height, region.X, region.Y)
	}

	rects, err := CalculatePositionsWithLayout(len(windows), region, layout, t.config.Tiling.GapSize)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", name, err)
	}

	previous := make([]Placement, 0, len(rects))
	out := make([]Placement, 0, len(rects))
	for i, r := range rects {
		w := windows[i]
		previous = append(previous, Placement{ID: w.ID, Bounds: w.Bounds})
		out = append(out, Placement{ID: w.ID, Bounds: r})
	}
	t.previous = previous
	return out, nil
}

// Undo returns the geometry captured before the last Tile and forgets it.
func (t *Tiler) Undo() ([]Placement, bool) {
	if len(t.previous) == 0 {
		return nil, false
	}
	out := t.previous
	t.previous = nil
	return out, true
}

// Forget drops a frame from the undo snapshot, e.g. after it was closed.
func (t *Tiler) Forget(id uint64) {
	for i, p := range t.previous {
		if p.ID == id {
			t.previous = append(t.previous[:i], t.previous[i+1:]...)
			return
		}
	}
}

func (t *Tiler) ActiveLayoutName() string {
	if t.active != "" {
		return t.active
	}
	return t.config.Tiling.DefaultLayout
}

// SetActiveLayout selects the layout used by Tile.
func (t *Tiler) SetActiveLayout(name string) error {
	if _, err := t.config.GetLayout(name); err != nil {
		return err
	}
	t.active = name
	return nil
}

// CycleActiveLayout moves to the next/previous layout in sorted order.
func (t *Tiler) CycleActiveLayout(delta int) (string, error) {
	names := t.config.LayoutNames()
	if len(names) == 0 {
		return "", fmt.Errorf("no layouts configured")
	}

	current := t.ActiveLayoutName()
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}

	n := len(names)
	next := (idx + delta) % n
	if next < 0 {
		next += n
	}
	t.active = names[next]
	return t.active, nil
}

// UpdateConfig swaps the configuration, falling back to the default layout
// when the active one no longer exists.
func (t *Tiler) UpdateConfig(cfg *config.Config) {
	t.config = cfg
	if t.active == "" {
		return
	}
	if _, err := cfg.GetLayout(t.active); err != nil {
		t.active = ""
	}
}
