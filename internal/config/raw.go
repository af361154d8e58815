package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawMasterStack struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
	MaxStackRows       *int `yaml:"max_stack_rows"`
	MaxStackCols       *int `yaml:"max_stack_cols"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawLayout struct {
	Inherits        *string         `yaml:"inherits"`
	Mode            *LayoutMode     `yaml:"mode"`
	TileRegion      *RawTileRegion  `yaml:"tile_region"`
	FixedGrid       *RawFixedGrid   `yaml:"fixed_grid"`
	MasterStack     *RawMasterStack `yaml:"master_stack"`
	MaxFrameWidth   *int            `yaml:"max_frame_width"`
	MaxFrameHeight  *int            `yaml:"max_frame_height"`
	FlexibleLastRow *bool           `yaml:"flexible_last_row"`
}

type RawFrameConfig struct {
	BorderWidth    *int `yaml:"border_width"`
	TitlebarHeight *int `yaml:"titlebar_height"`
	MinWidth       *int `yaml:"min_width"`
	MinHeight      *int `yaml:"min_height"`
	DefaultWidth   *int `yaml:"default_width"`
	DefaultHeight  *int `yaml:"default_height"`
}

type RawInputConfig struct {
	DragThreshold       *DragThreshold `yaml:"drag_threshold"`
	FocusFollowsPointer *bool          `yaml:"focus_follows_pointer"`
	EscapeClearsModal   *bool          `yaml:"escape_clears_modal"`
	MoveStep            *int           `yaml:"move_step"`
	MoveModeTimeout     *int           `yaml:"move_mode_timeout"`
}

type RawShortcuts struct {
	CycleFocus        *string `yaml:"cycle_focus"`
	CycleFocusReverse *string `yaml:"cycle_focus_reverse"`
	CloseFrame        *string `yaml:"close_frame"`
	NewFrame          *string `yaml:"new_frame"`
	TileFrames        *string `yaml:"tile_frames"`
	CycleLayout       *string `yaml:"cycle_layout"`
	UndoTile          *string `yaml:"undo_tile"`
	MoveMode          *string `yaml:"move_mode"`
	FocusLeft         *string `yaml:"focus_left"`
	FocusRight        *string `yaml:"focus_right"`
	FocusUp           *string `yaml:"focus_up"`
	FocusDown         *string `yaml:"focus_down"`
}

type RawThemeConfig struct {
	Colors map[string]string  `yaml:"colors"`
	Alpha  map[string]float64 `yaml:"alpha"`
	Font   *string            `yaml:"font"`
}

type RawTilingConfig struct {
	GapSize       *int                 `yaml:"gap_size"`
	DefaultLayout *string              `yaml:"default_layout"`
	Layouts       map[string]RawLayout `yaml:"layouts"`
}

type RawDisplayConfig struct {
	Host       *string `yaml:"host"`
	TickRate   *int    `yaml:"tick_rate"`
	Width      *int    `yaml:"width"`
	Height     *int    `yaml:"height"`
	X11Display *string `yaml:"x11_display"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawMCPConfig struct {
	Addr *string `yaml:"addr"`
}

type RawConfig struct {
	Include   IncludeList       `yaml:"include"`
	Frame     *RawFrameConfig   `yaml:"frame"`
	Input     *RawInputConfig   `yaml:"input"`
	Shortcuts *RawShortcuts     `yaml:"shortcuts"`
	Theme     *RawThemeConfig   `yaml:"theme"`
	Tiling    *RawTilingConfig  `yaml:"tiling"`
	Display   *RawDisplayConfig `yaml:"display"`
	LogLevel  *string           `yaml:"log_level"`
	Logging   *RawLoggingConfig `yaml:"logging"`
	MCP       *RawMCPConfig     `yaml:"mcp"`
}

// merge returns c with every field set in overlay replacing c's value. Maps
// merge key by key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Frame != nil {
		merged := mergeRawFrame(deref(out.Frame), *overlay.Frame)
		out.Frame = &merged
	}
	if overlay.Input != nil {
		merged := mergeRawInput(deref(out.Input), *overlay.Input)
		out.Input = &merged
	}
	if overlay.Shortcuts != nil {
		merged := mergeRawShortcuts(deref(out.Shortcuts), *overlay.Shortcuts)
		out.Shortcuts = &merged
	}
	if overlay.Theme != nil {
		merged := mergeRawTheme(deref(out.Theme), *overlay.Theme)
		out.Theme = &merged
	}
	if overlay.Tiling != nil {
		merged := mergeRawTiling(deref(out.Tiling), *overlay.Tiling)
		out.Tiling = &merged
	}
	if overlay.Display != nil {
		merged := mergeRawDisplay(deref(out.Display), *overlay.Display)
		out.Display = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		merged := mergeRawLogging(deref(out.Logging), *overlay.Logging)
		out.Logging = &merged
	}
	if overlay.MCP != nil {
		merged := deref(out.MCP)
		if overlay.MCP.Addr != nil {
			merged.Addr = overlay.MCP.Addr
		}
		out.MCP = &merged
	}

	return out
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// pick returns overlay when it is set, base otherwise.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func mergeMap[V any](base, overlay map[string]V) map[string]V {
	if overlay == nil {
		return base
	}
	out := make(map[string]V, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func mergeRawFrame(base, overlay RawFrameConfig) RawFrameConfig {
	return RawFrameConfig{
		BorderWidth:    pick(base.BorderWidth, overlay.BorderWidth),
		TitlebarHeight: pick(base.TitlebarHeight, overlay.TitlebarHeight),
		MinWidth:       pick(base.MinWidth, overlay.MinWidth),
		MinHeight:      pick(base.MinHeight, overlay.MinHeight),
		DefaultWidth:   pick(base.DefaultWidth, overlay.DefaultWidth),
		DefaultHeight:  pick(base.DefaultHeight, overlay.DefaultHeight),
	}
}

func mergeRawInput(base, overlay RawInputConfig) RawInputConfig {
	return RawInputConfig{
		DragThreshold:       pick(base.DragThreshold, overlay.DragThreshold),
		FocusFollowsPointer: pick(base.FocusFollowsPointer, overlay.FocusFollowsPointer),
		EscapeClearsModal:   pick(base.EscapeClearsModal, overlay.EscapeClearsModal),
		MoveStep:            pick(base.MoveStep, overlay.MoveStep),
		MoveModeTimeout:     pick(base.MoveModeTimeout, overlay.MoveModeTimeout),
	}
}

func mergeRawShortcuts(base, overlay RawShortcuts) RawShortcuts {
	return RawShortcuts{
		CycleFocus:        pick(base.CycleFocus, overlay.CycleFocus),
		CycleFocusReverse: pick(base.CycleFocusReverse, overlay.CycleFocusReverse),
		CloseFrame:        pick(base.CloseFrame, overlay.CloseFrame),
		NewFrame:          pick(base.NewFrame, overlay.NewFrame),
		TileFrames:        pick(base.TileFrames, overlay.TileFrames),
		CycleLayout:       pick(base.CycleLayout, overlay.CycleLayout),
		UndoTile:          pick(base.UndoTile, overlay.UndoTile),
		MoveMode:          pick(base.MoveMode, overlay.MoveMode),
		FocusLeft:         pick(base.FocusLeft, overlay.FocusLeft),
		FocusRight:        pick(base.FocusRight, overlay.FocusRight),
		FocusUp:           pick(base.FocusUp, overlay.FocusUp),
		FocusDown:         pick(base.FocusDown, overlay.FocusDown),
	}
}

func mergeRawTheme(base, overlay RawThemeConfig) RawThemeConfig {
	return RawThemeConfig{
		Colors: mergeMap(base.Colors, overlay.Colors),
		Alpha:  mergeMap(base.Alpha, overlay.Alpha),
		Font:   pick(base.Font, overlay.Font),
	}
}

func mergeRawTiling(base, overlay RawTilingConfig) RawTilingConfig {
	out := RawTilingConfig{
		GapSize:       pick(base.GapSize, overlay.GapSize),
		DefaultLayout: pick(base.DefaultLayout, overlay.DefaultLayout),
		Layouts:       base.Layouts,
	}
	if overlay.Layouts != nil {
		out.Layouts = make(map[string]RawLayout, len(base.Layouts)+len(overlay.Layouts))
		for name, layout := range base.Layouts {
			out.Layouts[name] = layout
		}
		for name, layout := range overlay.Layouts {
			if existing, ok := out.Layouts[name]; ok {
				out.Layouts[name] = mergeRawLayout(existing, layout)
				continue
			}
			out.Layouts[name] = layout
		}
	}
	return out
}

func mergeRawDisplay(base, overlay RawDisplayConfig) RawDisplayConfig {
	return RawDisplayConfig{
		Host:       pick(base.Host, overlay.Host),
		TickRate:   pick(base.TickRate, overlay.TickRate),
		Width:      pick(base.Width, overlay.Width),
		Height:     pick(base.Height, overlay.Height),
		X11Display: pick(base.X11Display, overlay.X11Display),
	}
}

func mergeRawLogging(base, overlay RawLoggingConfig) RawLoggingConfig {
	return RawLoggingConfig{
		Enabled:   pick(base.Enabled, overlay.Enabled),
		Level:     pick(base.Level, overlay.Level),
		File:      pick(base.File, overlay.File),
		MaxSizeMB: pick(base.MaxSizeMB, overlay.MaxSizeMB),
		MaxFiles:  pick(base.MaxFiles, overlay.MaxFiles),
	}
}

func mergeRawTileRegion(base RawTileRegion, overlay RawTileRegion) RawTileRegion {
	return RawTileRegion{
		Type:          pick(base.Type, overlay.Type),
		XPercent:      pick(base.XPercent, overlay.XPercent),
		YPercent:      pick(base.YPercent, overlay.YPercent),
		WidthPercent:  pick(base.WidthPercent, overlay.WidthPercent),
		HeightPercent: pick(base.HeightPercent, overlay.HeightPercent),
	}
}

func mergeRawLayout(base RawLayout, overlay RawLayout) RawLayout {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Mode != nil {
		out.Mode = overlay.Mode
	}
	if overlay.TileRegion != nil {
		merged := mergeRawTileRegion(deref(out.TileRegion), *overlay.TileRegion)
		out.TileRegion = &merged
	}
	if overlay.FixedGrid != nil {
		merged := deref(out.FixedGrid)
		merged.Rows = pick(merged.Rows, overlay.FixedGrid.Rows)
		merged.Cols = pick(merged.Cols, overlay.FixedGrid.Cols)
		out.FixedGrid = &merged
	}
	if overlay.MasterStack != nil {
		merged := deref(out.MasterStack)
		merged.MasterWidthPercent = pick(merged.MasterWidthPercent, overlay.MasterStack.MasterWidthPercent)
		merged.MaxStackRows = pick(merged.MaxStackRows, overlay.MasterStack.MaxStackRows)
		merged.MaxStackCols = pick(merged.MaxStackCols, overlay.MasterStack.MaxStackCols)
		out.MasterStack = &merged
	}
	if overlay.MaxFrameWidth != nil {
		out.MaxFrameWidth = overlay.MaxFrameWidth
	}
	if overlay.MaxFrameHeight != nil {
		out.MaxFrameHeight = overlay.MaxFrameHeight
	}
	if overlay.FlexibleLastRow != nil {
		out.FlexibleLastRow = overlay.FlexibleLastRow
	}
	return out
}
