// Package theme holds the immutable color palette handed to every render call.
package theme

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/1broseidon/framewm/internal/render"
)

// Color names looked up by the window manager and widgets.
const (
	Desktop            = "desktop"
	FrameBackground    = "frame.bg"
	FrameBorder        = "frame.border"
	FrameBorderFocused = "frame.border.focused"
	FrameBorderModal   = "frame.border.modal"
	TitleBackground    = "title.bg"
	TitleFocused       = "title.bg.focused"
	TitleText          = "title.text"
	WidgetBackground   = "widget.bg"
	WidgetText         = "widget.text"
	WidgetBorder       = "widget.border"
	ButtonBackground   = "button.bg"
	ButtonPressed      = "button.bg.pressed"
	ButtonText         = "button.text"
	CheckboxMark       = "checkbox.mark"
	ScrollTrack        = "scroll.track"
	ScrollThumb        = "scroll.thumb"
	TabBackground      = "tab.bg"
	TabActive          = "tab.bg.active"
	TabText            = "tab.text"
	EditorBackground   = "editor.bg"
	EditorText         = "editor.text"
	EditorCaret        = "editor.caret"
	Focus              = "focus"
)

// Defaults is the built-in palette as hex strings.
func Defaults() map[string]string {
	return map[string]string{
		Desktop:            "#1f2933",
		FrameBackground:    "#323f4b",
		FrameBorder:        "#52606d",
		FrameBorderFocused: "#3498db",
		FrameBorderModal:   "#e67e22",
		TitleBackground:    "#3e4c59",
		TitleFocused:       "#2c7be5",
		TitleText:          "#f5f7fa",
		WidgetBackground:   "#323f4b",
		WidgetText:         "#e4e7eb",
		WidgetBorder:       "#7b8794",
		ButtonBackground:   "#52606d",
		ButtonPressed:      "#27ae60",
		ButtonText:         "#f5f7fa",
		CheckboxMark:       "#27ae60",
		ScrollTrack:        "#3e4c59",
		ScrollThumb:        "#9aa5b1",
		TabBackground:      "#3e4c59",
		TabActive:          "#52606d",
		TabText:            "#f5f7fa",
		EditorBackground:   "#1f2933",
		EditorText:         "#f5f7fa",
		EditorCaret:        "#f7c948",
		Focus:              "#f7c948",
	}
}

// Theme is a resolved palette. It is never mutated after New returns.
type Theme struct {
	colors   map[string]render.Color
	alphas   map[string]float64
	fallback render.Color
}

var _ render.Theme = (*Theme)(nil)

// New resolves hex colors and alpha values over the defaults.
func New(colors map[string]string, alphas map[string]float64) (*Theme, error) {
	merged := Defaults()
	for name, hex := range colors {
		merged[name] = hex
	}

	t := &Theme{
		colors: make(map[string]render.Color, len(merged)),
		alphas: make(map[string]float64, len(alphas)),
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c, err := Parse(merged[name])
		if err != nil {
			return nil, fmt.Errorf("theme color %q: %w", name, err)
		}
		t.colors[name] = c
	}
	for name, a := range alphas {
		if a < 0 || a > 1 {
			return nil, fmt.Errorf("theme alpha %q must be between 0 and 1", name)
		}
		t.alphas[name] = a
	}
	t.fallback = t.colors[WidgetText]
	return t, nil
}

// Default returns the built-in theme.
func Default() *Theme {
	t, err := New(nil, nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Color returns the named color, or the widget text color when unknown.
func (t *Theme) Color(name string) render.Color {
	if c, ok := t.colors[name]; ok {
		return c
	}
	return t.fallback
}

// Alpha returns the named alpha, defaulting to fully opaque.
func (t *Theme) Alpha(name string) float64 {
	if a, ok := t.alphas[name]; ok {
		return a
	}
	return 1
}

// Names lists every resolved color name in sorted order.
func (t *Theme) Names() []string {
	names := make([]string, 0, len(t.colors))
	for name := range t.colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse converts a #rrggbb string to a render.Color.
func Parse(hex string) (render.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return render.Color{}, err
	}
	r, g, b := c.RGB255()
	return render.Color{R: r, G: g, B: b}, nil
}

// Blend composites fg over bg with the given alpha, for hosts without an
// alpha channel.
func Blend(bg, fg render.Color, alpha float64) render.Color {
	if alpha >= 1 {
		return fg
	}
	if alpha <= 0 {
		return bg
	}
	b := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	f := colorful.Color{R: float64(fg.R) / 255, G: float64(fg.G) / 255, B: float64(fg.B) / 255}
	r, g, bl := b.BlendRgb(f, alpha).Clamped().RGB255()
	return render.Color{R: r, G: g, B: bl}
}
