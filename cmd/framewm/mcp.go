package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/framewm/internal/daemon"
	"github.com/1broseidon/framewm/internal/demo"
	"github.com/1broseidon/framewm/internal/journal"
	"github.com/1broseidon/framewm/internal/mcp"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/wm"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: framewm mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'framewm mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: framewm mcp serve [--path PATH]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Start a window manager and serve its frame tools over MCP on stdio.")
		fmt.Fprintln(os.Stdout, "The desktop opens in an X11 window when a display is available and")
		fmt.Fprintln(os.Stdout, "runs headless otherwise. Logs go to stderr.")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Example (MCP client config):")
		fmt.Fprintln(os.Stdout, "  framewm mcp serve")
		return 0
	}
	path := ""
	if len(args) == 2 && args[0] == "--path" {
		path = args[1]
	} else if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: framewm mcp serve [--path PATH]")
		return 2
	}

	if err := mcpServe(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func mcpServe(path string) error {
	res, err := loadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config
	logger := newLogger(os.Stderr, cfg.LogLevel)

	// stdio carries the protocol, so the terminal host is not an option.
	display := cfg.Display.X11Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	host := cfg.Display.Host
	if host == platform.HostTerminal {
		host = platform.HostAuto
	}
	if cfg.Display.Host, err = platform.Choose(host, false, display); err != nil {
		return err
	}

	jnl, err := journal.New(journal.ConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer jnl.Close()

	h, err := platform.Open(cfg.Display, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s host: %w", cfg.Display.Host, err)
	}
	defer h.Close()

	w, err := wm.New(cfg, wm.Options{
		Painter:    h,
		Fonts:      h,
		Cursor:     h,
		Source:     h.Source(),
		Viewport:   h.Viewport(),
		Logger:     logger,
		Journal:    jnl,
		Listener:   demo.Listener(logger),
		NewContent: demo.Content,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := daemon.NewLoop(daemon.LoopConfig{TickRate: cfg.Display.TickRate, Logger: logger}, w, h)
	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
		cancel()
	}()

	server := mcp.NewServer(w, mcp.Options{Logger: logger})
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	cancel()
	return <-loopErr
}
