// Package daemon drives the window manager from a host at a fixed tick rate.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/wm"
)

// LoopConfig holds configuration for the tick loop.
type LoopConfig struct {
	// TickRate is the number of Update/Render passes per second.
	TickRate int
	Logger   *slog.Logger
}

// Loop owns the window manager: every WM call happens on the goroutine
// running Run.
type Loop struct {
	wm       *wm.WM
	host     platform.Host
	interval time.Duration
	logger   *slog.Logger
	ticks    uint64
}

// NewLoop creates a tick loop for w drawing into host.
func NewLoop(cfg LoopConfig, w *wm.WM, host platform.Host) *Loop {
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 30
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wm:       w,
		host:     host,
		interval: time.Second / time.Duration(rate),
		logger:   logger,
	}
}

// Interval is the time between ticks.
func (l *Loop) Interval() time.Duration { return l.interval }

// Ticks counts completed ticks.
func (l *Loop) Ticks() uint64 { return l.ticks }

// Run ticks until ctx is cancelled or the host is closed. It returns nil on
// either, and an error when the host fails to present.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("tick loop started", "host", l.host.Name(), "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("tick loop stopped", "ticks", l.ticks)
			return nil
		case <-l.host.Done():
			l.logger.Info("host closed", "ticks", l.ticks)
			return nil
		case r := <-l.host.Resized():
			l.logger.Debug("viewport resized", "width", r.Width, "height", r.Height)
			l.wm.SetViewport(r)
		case <-ticker.C:
			if err := l.Tick(); err != nil {
				return err
			}
		}
	}
}

// Tick runs one Update, Render and Present. Panics from widgets or posted
// commands are logged and the tick is dropped; ownership and coordinate
// stack violations are programming errors and propagate.
func (l *Loop) Tick() error {
	if !l.step() {
		return nil
	}
	if err := l.host.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	l.ticks++
	return nil
}

func (l *Loop) step() (ok bool) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if fatal(v) {
			panic(v)
		}
		l.logger.Error("tick panic recovered", "error", v)
		// A panic mid-render leaves pushes on the coordinate stack.
		l.wm.Context().Stack.Reset()
		ok = false
	}()
	l.wm.Update()
	l.wm.Render()
	return true
}

func fatal(v any) bool {
	var own *frame.OwnershipError
	if err, ok := v.(error); ok {
		return errors.As(err, &own) || errors.Is(err, render.ErrUnbalanced)
	}
	return false
}
