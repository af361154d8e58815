package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. The returned map gives
// the builtin layout each configured layout was based on.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if f := raw.Frame; f != nil {
		setInt(&cfg.Frame.BorderWidth, f.BorderWidth)
		setInt(&cfg.Frame.TitlebarHeight, f.TitlebarHeight)
		setInt(&cfg.Frame.MinWidth, f.MinWidth)
		setInt(&cfg.Frame.MinHeight, f.MinHeight)
		setInt(&cfg.Frame.DefaultWidth, f.DefaultWidth)
		setInt(&cfg.Frame.DefaultHeight, f.DefaultHeight)
	}

	if in := raw.Input; in != nil {
		if in.DragThreshold != nil {
			cfg.Input.DragThreshold = DragThreshold(strings.ToLower(strings.TrimSpace(string(*in.DragThreshold))))
		}
		if in.FocusFollowsPointer != nil {
			cfg.Input.FocusFollowsPointer = *in.FocusFollowsPointer
		}
		if in.EscapeClearsModal != nil {
			cfg.Input.EscapeClearsModal = *in.EscapeClearsModal
		}
		setInt(&cfg.Input.MoveStep, in.MoveStep)
		setInt(&cfg.Input.MoveModeTimeout, in.MoveModeTimeout)
	}

	if s := raw.Shortcuts; s != nil {
		setString(&cfg.Shortcuts.CycleFocus, s.CycleFocus)
		setString(&cfg.Shortcuts.CycleFocusReverse, s.CycleFocusReverse)
		setString(&cfg.Shortcuts.CloseFrame, s.CloseFrame)
		setString(&cfg.Shortcuts.NewFrame, s.NewFrame)
		setString(&cfg.Shortcuts.TileFrames, s.TileFrames)
		setString(&cfg.Shortcuts.CycleLayout, s.CycleLayout)
		setString(&cfg.Shortcuts.UndoTile, s.UndoTile)
		setString(&cfg.Shortcuts.MoveMode, s.MoveMode)
		setString(&cfg.Shortcuts.FocusLeft, s.FocusLeft)
		setString(&cfg.Shortcuts.FocusRight, s.FocusRight)
		setString(&cfg.Shortcuts.FocusUp, s.FocusUp)
		setString(&cfg.Shortcuts.FocusDown, s.FocusDown)
	}

	if t := raw.Theme; t != nil {
		if t.Colors != nil {
			cfg.Theme.Colors = make(map[string]string, len(t.Colors))
			for name, hex := range t.Colors {
				cfg.Theme.Colors[name] = strings.TrimSpace(hex)
			}
		}
		if t.Alpha != nil {
			cfg.Theme.Alpha = make(map[string]float64, len(t.Alpha))
			for name, a := range t.Alpha {
				cfg.Theme.Alpha[name] = a
			}
		}
		setString(&cfg.Theme.Font, t.Font)
	}

	layoutBases, err := applyLayouts(cfg, raw)
	if err != nil {
		return nil, nil, err
	}
	if t := raw.Tiling; t != nil {
		setInt(&cfg.Tiling.GapSize, t.GapSize)
		if t.DefaultLayout != nil {
			cfg.Tiling.DefaultLayout = strings.TrimSpace(*t.DefaultLayout)
		}
	}
	if cfg.Tiling.DefaultLayout == "" {
		cfg.Tiling.DefaultLayout = DefaultBuiltinLayout
	}
	if _, err := cfg.GetDefaultLayout(); err != nil {
		return nil, nil, &ValidationError{Path: "tiling.default_layout", Err: err}
	}

	if d := raw.Display; d != nil {
		if d.Host != nil {
			cfg.Display.Host = strings.ToLower(strings.TrimSpace(*d.Host))
		}
		setInt(&cfg.Display.TickRate, d.TickRate)
		setInt(&cfg.Display.Width, d.Width)
		setInt(&cfg.Display.Height, d.Height)
		setString(&cfg.Display.X11Display, d.X11Display)
	}

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if l := raw.Logging; l != nil {
		if l.Enabled != nil {
			cfg.Logging.Enabled = *l.Enabled
		}
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.File, l.File)
		setInt(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		setInt(&cfg.Logging.MaxFiles, l.MaxFiles)
	}

	if raw.MCP != nil {
		setString(&cfg.MCP.Addr, raw.MCP.Addr)
	}

	return cfg, layoutBases, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func applyLayouts(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinLayouts()

	cfg.Tiling.Layouts = make(map[string]Layout, len(builtin))
	layoutBases := make(map[string]string, len(builtin))
	for name, layout := range builtin {
		cfg.Tiling.Layouts[name] = layout
		layoutBases[name] = name
	}
	if raw.Tiling == nil {
		return layoutBases, nil
	}

	for _, name := range sortedKeys(raw.Tiling.Layouts) {
		patch := raw.Tiling.Layouts[name]
		baseName, baseLayout, err := selectLayoutBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		merged := mergeLayoutPatch(baseLayout, patch)
		if err := validateLayout(&merged); err != nil {
			return nil, &ValidationError{Path: "tiling.layouts." + name, Err: err}
		}
		cfg.Tiling.Layouts[name] = merged
		layoutBases[name] = baseName
	}
	return layoutBases, nil
}

func selectLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (string, Layout, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinLayout
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Layout{}, &ValidationError{
				Path: "tiling.layouts." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	baseLayout, ok := builtin[baseName]
	if !ok {
		return "", Layout{}, &ValidationError{
			Path: "tiling.layouts." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin layout %q", baseName),
		}
	}
	return baseName, baseLayout, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base

	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	if r := patch.TileRegion; r != nil {
		if r.Type != nil {
			out.TileRegion.Type = *r.Type
		}
		setInt(&out.TileRegion.XPercent, r.XPercent)
		setInt(&out.TileRegion.YPercent, r.YPercent)
		setInt(&out.TileRegion.WidthPercent, r.WidthPercent)
		setInt(&out.TileRegion.HeightPercent, r.HeightPercent)

		if out.TileRegion.Type == RegionCustom {
			// Unset extents cover the rest of the viewport.
			if r.WidthPercent == nil && out.TileRegion.WidthPercent == 0 {
				out.TileRegion.WidthPercent = 100 - out.TileRegion.XPercent
			}
			if r.HeightPercent == nil && out.TileRegion.HeightPercent == 0 {
				out.TileRegion.HeightPercent = 100 - out.TileRegion.YPercent
			}
		}
	}
	if g := patch.FixedGrid; g != nil {
		setInt(&out.FixedGrid.Rows, g.Rows)
		setInt(&out.FixedGrid.Cols, g.Cols)
	}
	if ms := patch.MasterStack; ms != nil {
		setInt(&out.MasterStack.MasterWidthPercent, ms.MasterWidthPercent)
		setInt(&out.MasterStack.MaxStackRows, ms.MaxStackRows)
		setInt(&out.MasterStack.MaxStackCols, ms.MaxStackCols)
	}
	setInt(&out.MaxFrameWidth, patch.MaxFrameWidth)
	setInt(&out.MaxFrameHeight, patch.MaxFrameHeight)
	if patch.FlexibleLastRow != nil {
		out.FlexibleLastRow = *patch.FlexibleLastRow
	}
	return out
}
