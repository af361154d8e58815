package wm

import (
	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

// Metrics are the frame decoration sizes in host units.
type Metrics struct {
	Border   int
	Titlebar int
	Min      geom.Size
	Default  geom.Size
}

// ResolveMetrics fills the zero entries of the frame config from font
// metrics, so the same config works on a cell grid and on a pixel display.
func ResolveMetrics(cfg config.FrameConfig, fonts render.Fonts) Metrics {
	lh := max(fonts.LineHeight(render.FontTitle), 1)
	cw := max(fonts.StringWidth(render.FontDefault, "M"), 1)

	m := Metrics{
		Border:   cfg.BorderWidth,
		Titlebar: cfg.TitlebarHeight,
		Min:      geom.Size{Width: cfg.MinWidth, Height: cfg.MinHeight},
		Default:  geom.Size{Width: cfg.DefaultWidth, Height: cfg.DefaultHeight},
	}
	if m.Titlebar == 0 {
		m.Titlebar = lh + lh/4
	}
	if m.Min.Width == 0 {
		m.Min.Width = 12*cw + 2*m.Border
	}
	if m.Min.Height == 0 {
		m.Min.Height = m.Titlebar + 3*lh + 2*m.Border
	}
	if m.Default.Width == 0 {
		m.Default.Width = 40*cw + 2*m.Border
	}
	if m.Default.Height == 0 {
		m.Default.Height = m.Titlebar + 12*lh + 2*m.Border
	}
	m.Default.Width = max(m.Default.Width, m.Min.Width)
	m.Default.Height = max(m.Default.Height, m.Min.Height)
	return m
}
