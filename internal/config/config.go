package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/theme"
	"gopkg.in/yaml.v3"
)

// LayoutMode defines how frames are arranged when tiled.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines the part of the viewport frames are tiled into.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // 10-90
	MaxStackRows       int `yaml:"max_stack_rows"`
	MaxStackCols       int `yaml:"max_stack_cols"`
}

// Layout defines a tiling arrangement.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	MaxFrameWidth   int         `yaml:"max_frame_width"`   // 0 = unlimited
	MaxFrameHeight  int         `yaml:"max_frame_height"`  // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row"` // auto mode only
}

// DragThreshold names the rule that turns a held button into a drag.
type DragThreshold string

const (
	// DragEither starts a drag once the pointer moved on any axis.
	DragEither DragThreshold = "either"
	// DragBoth starts a drag only once the pointer moved on both axes.
	DragBoth DragThreshold = "both"
)

// FrameConfig holds frame decoration and sizing. Zero sizes are derived from
// the host's font metrics at startup.
type FrameConfig struct {
	BorderWidth    int `yaml:"border_width"`
	TitlebarHeight int `yaml:"titlebar_height"`
	MinWidth       int `yaml:"min_width"`
	MinHeight      int `yaml:"min_height"`
	DefaultWidth   int `yaml:"default_width"`
	DefaultHeight  int `yaml:"default_height"`
}

// InputConfig tunes pointer and keyboard handling.
type InputConfig struct {
	DragThreshold       DragThreshold `yaml:"drag_threshold"`
	FocusFollowsPointer bool          `yaml:"focus_follows_pointer"`
	EscapeClearsModal   bool          `yaml:"escape_clears_modal"`
	// MoveStep is how far one arrow press moves or resizes a frame in move mode.
	MoveStep int `yaml:"move_step"`
	// MoveModeTimeout exits move mode after this many idle seconds.
	MoveModeTimeout int `yaml:"move_mode_timeout"`
}

// Shortcuts maps window manager actions to key sequences. An empty sequence
// disables the action.
type Shortcuts struct {
	CycleFocus        string `yaml:"cycle_focus"`
	CycleFocusReverse string `yaml:"cycle_focus_reverse"`
	CloseFrame        string `yaml:"close_frame"`
	NewFrame          string `yaml:"new_frame"`
	TileFrames        string `yaml:"tile_frames"`
	CycleLayout       string `yaml:"cycle_layout"`
	UndoTile          string `yaml:"undo_tile"`
	MoveMode          string `yaml:"move_mode"`
	FocusLeft         string `yaml:"focus_left"`
	FocusRight        string `yaml:"focus_right"`
	FocusUp           string `yaml:"focus_up"`
	FocusDown         string `yaml:"focus_down"`
}

// Entries returns the shortcut table as action name to sequence, in a fixed
// order.
func (s Shortcuts) Entries() []ShortcutEntry {
	return []ShortcutEntry{
		{"cycle_focus", s.CycleFocus},
		{"cycle_focus_reverse", s.CycleFocusReverse},
		{"close_frame", s.CloseFrame},
		{"new_frame", s.NewFrame},
		{"tile_frames", s.TileFrames},
		{"cycle_layout", s.CycleLayout},
		{"undo_tile", s.UndoTile},
		{"move_mode", s.MoveMode},
		{"focus_left", s.FocusLeft},
		{"focus_right", s.FocusRight},
		{"focus_up", s.FocusUp},
		{"focus_down", s.FocusDown},
	}
}

// Set rebinds action to seq. It reports false for an unknown action.
func (s *Shortcuts) Set(action, seq string) bool {
	fields := map[string]*string{
		"cycle_focus":         &s.CycleFocus,
		"cycle_focus_reverse": &s.CycleFocusReverse,
		"close_frame":         &s.CloseFrame,
		"new_frame":           &s.NewFrame,
		"tile_frames":         &s.TileFrames,
		"cycle_layout":        &s.CycleLayout,
		"undo_tile":           &s.UndoTile,
		"move_mode":           &s.MoveMode,
		"focus_left":          &s.FocusLeft,
		"focus_right":         &s.FocusRight,
		"focus_up":            &s.FocusUp,
		"focus_down":          &s.FocusDown,
	}
	f, ok := fields[action]
	if !ok {
		return false
	}
	*f = seq
	return true
}

// ShortcutEntry pairs an action with its key sequence.
type ShortcutEntry struct {
	Action   string
	Sequence string
}

// ThemeConfig overrides the built-in palette.
type ThemeConfig struct {
	Colors map[string]string  `yaml:"colors,omitempty"`
	Alpha  map[string]float64 `yaml:"alpha,omitempty"`
	Font   string             `yaml:"font,omitempty"`
}

// TilingConfig holds the layout library used by tile_frames.
type TilingConfig struct {
	GapSize       int               `yaml:"gap_size"`
	DefaultLayout string            `yaml:"default_layout"`
	Layouts       map[string]Layout `yaml:"layouts"`
}

// DisplayConfig selects and sizes the host.
type DisplayConfig struct {
	Host       string `yaml:"host"` // auto, terminal, x11, headless
	TickRate   int    `yaml:"tick_rate"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	X11Display string `yaml:"x11_display,omitempty"`
}

// LoggingConfig configures the action journal.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// MCPConfig configures the remote control server.
type MCPConfig struct {
	// Addr is the streamable HTTP listen address. Empty disables the server
	// inside "framewm run"; "framewm mcp serve" uses stdio regardless.
	Addr string `yaml:"addr,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Frame     FrameConfig   `yaml:"frame"`
	Input     InputConfig   `yaml:"input"`
	Shortcuts Shortcuts     `yaml:"shortcuts"`
	Theme     ThemeConfig   `yaml:"theme,omitempty"`
	Tiling    TilingConfig  `yaml:"tiling"`
	Display   DisplayConfig `yaml:"display"`
	LogLevel  string        `yaml:"log_level"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	MCP       MCPConfig     `yaml:"mcp,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Frame: FrameConfig{
			BorderWidth: 1,
		},
		Input: InputConfig{
			DragThreshold:     DragEither,
			EscapeClearsModal: true,
			MoveStep:          1,
			MoveModeTimeout:   10,
		},
		Shortcuts: Shortcuts{
			CycleFocus:        "Mod1-Tab",
			CycleFocusReverse: "Mod1-Shift-Tab",
			CloseFrame:        "Mod1-w",
			NewFrame:          "Mod1-n",
			TileFrames:        "Mod1-t",
			CycleLayout:       "Mod1-l",
			UndoTile:          "Mod1-u",
			MoveMode:          "Mod1-r", // "relocate"
			FocusLeft:         "Mod1-Left",
			FocusRight:        "Mod1-Right",
			FocusUp:           "Mod1-Up",
			FocusDown:         "Mod1-Down",
		},
		Tiling: TilingConfig{
			GapSize:       1,
			DefaultLayout: DefaultBuiltinLayout,
			Layouts:       BuiltinLayouts(),
		},
		Display: DisplayConfig{
			Host:     "auto",
			TickRate: 30,
			Width:    1024,
			Height:   768,
		},
		LogLevel: "info",
	}
}

// GetLayout retrieves a layout by name.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Tiling.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}
	return &layout, nil
}

// GetDefaultLayout retrieves the default layout.
func (c *Config) GetDefaultLayout() (*Layout, error) {
	return c.GetLayout(c.Tiling.DefaultLayout)
}

// LayoutNames returns the configured layout names in sorted order.
func (c *Config) LayoutNames() []string {
	return sortedKeys(c.Tiling.Layouts)
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/framewm/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// BuildTheme resolves the theme section over the built-in palette.
func (c *Config) BuildTheme() (*theme.Theme, error) {
	colors := theme.Defaults()
	for name, hex := range c.Theme.Colors {
		colors[name] = hex
	}
	return theme.New(colors, c.Theme.Alpha)
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Tiling.Layouts = layoutsForSave(c.Tiling.Layouts)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func layoutsForSave(layouts map[string]Layout) map[string]Layout {
	builtin := BuiltinLayouts()
	out := make(map[string]Layout)
	for name, layout := range layouts {
		if base, ok := builtin[name]; ok && base == layout {
			continue
		}
		out[name] = layout
	}
	return out
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	f := c.Frame
	for _, v := range []struct {
		path string
		val  int
	}{
		{"frame.border_width", f.BorderWidth},
		{"frame.titlebar_height", f.TitlebarHeight},
		{"frame.min_width", f.MinWidth},
		{"frame.min_height", f.MinHeight},
		{"frame.default_width", f.DefaultWidth},
		{"frame.default_height", f.DefaultHeight},
	} {
		if v.val < 0 {
			return &ValidationError{Path: v.path, Err: fmt.Errorf("must be >= 0")}
		}
	}
	if f.MinWidth > 0 && f.DefaultWidth > 0 && f.DefaultWidth < f.MinWidth {
		return &ValidationError{Path: "frame.default_width", Err: fmt.Errorf("default_width must be >= min_width")}
	}
	if f.MinHeight > 0 && f.DefaultHeight > 0 && f.DefaultHeight < f.MinHeight {
		return &ValidationError{Path: "frame.default_height", Err: fmt.Errorf("default_height must be >= min_height")}
	}

	switch c.Input.DragThreshold {
	case DragEither, DragBoth:
	default:
		return &ValidationError{Path: "input.drag_threshold", Err: fmt.Errorf("drag_threshold must be one of: either, both")}
	}
	if c.Input.MoveStep <= 0 {
		return &ValidationError{Path: "input.move_step", Err: fmt.Errorf("move_step must be > 0")}
	}
	if c.Input.MoveModeTimeout < 0 {
		return &ValidationError{Path: "input.move_mode_timeout", Err: fmt.Errorf("move_mode_timeout must be >= 0")}
	}

	seen := map[string]string{}
	for _, e := range c.Shortcuts.Entries() {
		if strings.TrimSpace(e.Sequence) == "" {
			continue
		}
		sc, err := event.ParseShortcut(e.Sequence)
		if err != nil {
			return &ValidationError{Path: "shortcuts." + e.Action, Err: err}
		}
		key := sc.String()
		if prev, ok := seen[key]; ok {
			return &ValidationError{Path: "shortcuts." + e.Action, Err: fmt.Errorf("%s is already bound to %s", key, prev)}
		}
		seen[key] = e.Action
	}

	known := theme.Defaults()
	for _, name := range sortedKeys(c.Theme.Colors) {
		if _, ok := known[name]; !ok {
			return &ValidationError{Path: "theme.colors." + name, Err: fmt.Errorf("unknown color name %q", name)}
		}
		if _, err := theme.Parse(c.Theme.Colors[name]); err != nil {
			return &ValidationError{Path: "theme.colors." + name, Err: err}
		}
	}
	for _, name := range sortedKeys(c.Theme.Alpha) {
		if a := c.Theme.Alpha[name]; a < 0 || a > 1 {
			return &ValidationError{Path: "theme.alpha." + name, Err: fmt.Errorf("alpha must be between 0 and 1")}
		}
	}

	if c.Tiling.GapSize < 0 {
		return &ValidationError{Path: "tiling.gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if len(c.Tiling.Layouts) == 0 {
		return &ValidationError{Path: "tiling.layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.Tiling.DefaultLayout == "" {
		return &ValidationError{Path: "tiling.default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Tiling.Layouts[c.Tiling.DefaultLayout]; !ok {
		return &ValidationError{Path: "tiling.default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.Tiling.DefaultLayout)}
	}
	for _, name := range sortedKeys(c.Tiling.Layouts) {
		layout := c.Tiling.Layouts[name]
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "tiling.layouts." + name, Err: err}
		}
	}

	switch c.Display.Host {
	case "auto", "terminal", "x11", "headless":
	default:
		return &ValidationError{Path: "display.host", Err: fmt.Errorf("host must be one of: auto, terminal, x11, headless")}
	}
	if c.Display.TickRate < 1 || c.Display.TickRate > 240 {
		return &ValidationError{Path: "display.tick_rate", Err: fmt.Errorf("tick_rate must be between 1 and 240")}
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return &ValidationError{Path: "display", Err: fmt.Errorf("width and height must be > 0")}
	}

	if !validLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.Level != "" && !validLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	}
	return false
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string
	if c.Shortcuts.CycleFocus == "" && c.Shortcuts.CycleFocusReverse == "" {
		warnings = append(warnings, "no cycle_focus shortcut is bound; frames can only be focused with the pointer")
	}
	if c.Theme.Font != "" && c.Display.Host == "terminal" {
		warnings = append(warnings, fmt.Sprintf("theme.font %q is ignored by the terminal host", c.Theme.Font))
	}
	return warnings
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == LayoutModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == LayoutModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxFrameWidth < 0 || layout.MaxFrameHeight < 0 {
		return fmt.Errorf("max_frame_width/height must be >= 0")
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
	case RegionCustom:
		r := layout.TileRegion
		if r.XPercent < 0 || r.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
