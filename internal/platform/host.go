// Package platform selects the host the window manager draws into.
package platform

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/termhost"
	"github.com/1broseidon/framewm/internal/x11host"
)

// Host kinds accepted in display.host.
const (
	HostAuto     = "auto"
	HostTerminal = "terminal"
	HostX11      = "x11"
	HostHeadless = "headless"
)

// Host is everything the tick loop needs from a display backend: it draws,
// measures text, shows cursors and produces raw input.
type Host interface {
	render.Painter
	render.Fonts
	render.CursorSetter

	Name() string
	Source() input.Source
	Viewport() geom.Rect
	// Present flushes the frame drawn since the previous call.
	Present() error
	// Resized delivers the new viewport after the host surface changes size.
	Resized() <-chan geom.Rect
	// Done is closed when the user closes the host surface.
	Done() <-chan struct{}
	Close() error
}

var (
	_ Host = (*termhost.Host)(nil)
	_ Host = (*x11host.Host)(nil)
	_ Host = (*Headless)(nil)
)

// Choose resolves the host kind. "auto" prefers the terminal when stdin is a
// TTY, then X11 when a display is reachable, and falls back to headless.
func Choose(kind string, stdinTTY bool, display string) (string, error) {
	switch kind {
	case HostTerminal, HostX11, HostHeadless:
		return kind, nil
	case HostAuto, "":
		switch {
		case stdinTTY:
			return HostTerminal, nil
		case display != "":
			return HostX11, nil
		default:
			return HostHeadless, nil
		}
	default:
		return "", fmt.Errorf("unknown host %q", kind)
	}
}

// Resolve picks the host kind for cfg from the process environment.
func Resolve(cfg config.DisplayConfig) (string, error) {
	display := cfg.X11Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	return Choose(cfg.Host, term.IsTerminal(int(os.Stdin.Fd())), display)
}

// Open creates the host selected by cfg.Host.
func Open(cfg config.DisplayConfig, logger *slog.Logger) (Host, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kind, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening host", "requested", cfg.Host, "host", kind)

	switch kind {
	case HostTerminal:
		h, err := termhost.New(termhost.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		return h, nil
	case HostX11:
		h, err := x11host.New(x11host.Options{
			Display: cfg.X11Display,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return NewHeadless(geom.R(0, 0, cfg.Width, cfg.Height)), nil
	}
}
