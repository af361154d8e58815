package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/daemon"
	"github.com/1broseidon/framewm/internal/demo"
	"github.com/1broseidon/framewm/internal/journal"
	"github.com/1broseidon/framewm/internal/mcp"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/wm"
)

type runOptions struct {
	path    string
	host    string
	logFile string
	mcpAddr string
	noDemo  bool
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm run [--path PATH] [--host auto|terminal|x11|headless] [--log-file FILE] [--mcp-addr ADDR] [--no-demo]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the window manager in the foreground. SIGHUP reloads the config.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	var opts runOptions
	fs.StringVar(&opts.path, "path", "", "Config file path (default: ~/.config/framewm/config.yaml)")
	fs.StringVar(&opts.host, "host", "", "Override display.host")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to FILE (default: stderr, discarded on the terminal host)")
	fs.StringVar(&opts.mcpAddr, "mcp-addr", "", "Serve MCP over streamable HTTP on ADDR (default: mcp.addr)")
	fs.BoolVar(&opts.noDemo, "no-demo", false, "Start with an empty desktop")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func run(opts runOptions) error {
	res, err := loadConfig(opts.path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config
	if opts.host != "" {
		cfg.Display.Host = opts.host
	}
	kind, err := platform.Resolve(cfg.Display)
	if err != nil {
		return err
	}
	cfg.Display.Host = kind
	if opts.mcpAddr == "" {
		opts.mcpAddr = cfg.MCP.Addr
	}

	// The terminal host owns the screen, so logs go to a file or nowhere.
	var logOut io.Writer = os.Stderr
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	} else if kind == platform.HostTerminal {
		logOut = nil
	}
	logger := newLogger(logOut, cfg.LogLevel)

	jnl, err := journal.New(journal.ConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer jnl.Close()

	host, err := platform.Open(cfg.Display, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s host: %w", kind, err)
	}
	defer host.Close()

	w, err := wm.New(cfg, wm.Options{
		Painter:    host,
		Fonts:      host,
		Cursor:     host,
		Source:     host.Source(),
		Viewport:   host.Viewport(),
		Logger:     logger,
		Journal:    jnl,
		Listener:   demo.Listener(logger),
		NewContent: demo.Content,
	})
	if err != nil {
		return err
	}
	if !opts.noDemo {
		demo.Populate(w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go reloadOnHangup(ctx, opts.path, w, logger)

	if opts.mcpAddr != "" {
		server := mcp.NewServer(w, mcp.Options{Logger: logger})
		go func() {
			if err := server.ListenAndServe(ctx, opts.mcpAddr); err != nil {
				logger.Error("mcp server stopped", "error", err)
			}
		}()
	}

	logger.Info("framewm started", "host", host.Name(), "frames", w.Stack().Len())
	loop := daemon.NewLoop(daemon.LoopConfig{TickRate: cfg.Display.TickRate, Logger: logger}, w, host)
	return loop.Run(ctx)
}

// reloadOnHangup applies the config again on every SIGHUP. A config that
// fails to load or apply leaves the running one in place.
func reloadOnHangup(ctx context.Context, path string, w *wm.WM, logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			logger.Info("received SIGHUP, reloading config")
			res, err := loadConfig(path)
			if err != nil {
				logger.Error("config reload failed", "error", err)
				continue
			}
			if err := w.Post(func(w *wm.WM) { applyConfig(w, res.Config, logger) }); err != nil {
				logger.Error("config reload not queued", "error", err)
			}
		}
	}
}

func applyConfig(w *wm.WM, cfg *config.Config, logger *slog.Logger) {
	// The host is fixed for the life of the process.
	cfg.Display = w.Config().Display
	if err := w.UpdateConfig(cfg); err != nil {
		logger.Error("config reload rejected", "error", err)
		return
	}
	logger.Info("config reloaded")
}
