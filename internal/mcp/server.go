// Package mcp exposes the window manager as Model Context Protocol tools.
// Every tool runs on the window manager's owner goroutine through WM.Do.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewm/internal/wm"
)

const (
	ServerName    = "framewm"
	ServerVersion = "0.1.0"

	// DefaultCallTimeout bounds how long a tool waits for the tick loop.
	DefaultCallTimeout = 5 * time.Second
)

// Server is the MCP server for frame control.
type Server struct {
	mcpServer *mcpsdk.Server
	wm        *wm.WM
	logger    *slog.Logger
	timeout   time.Duration
}

// Options configures a Server.
type Options struct {
	Logger      *slog.Logger
	CallTimeout time.Duration
}

// NewServer creates an MCP server controlling w. The tick loop driving w
// must be running for tools to complete.
func NewServer(w *wm.WM, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	s := &Server{
		wm:      w,
		logger:  opts.Logger,
		timeout: opts.CallTimeout,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcpsdk.Server { return s.mcpServer }

// Run serves on stdio, blocking until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
}

// ListenAndServe serves the streamable HTTP transport on addr until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("mcp server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}

// do runs fn on the owner goroutine and returns its error.
func (s *Server) do(ctx context.Context, tool string, fn func(*wm.WM) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var ferr error
	if err := s.wm.Do(ctx, func(w *wm.WM) { ferr = fn(w) }); err != nil {
		s.logger.Warn("mcp tool not run", "tool", tool, "error", err)
		return fmt.Errorf("window manager unavailable: %w", err)
	}
	if ferr != nil {
		s.logger.Debug("mcp tool failed", "tool", tool, "error", ferr)
		return ferr
	}
	s.logger.Debug("mcp tool", "tool", tool)
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_frames",
		Description: "List all frames front to back with their bounds, focus and modal state, plus the active tiling layout and the desktop viewport.",
	}, s.handleListFrames)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "new_frame",
		Description: "Open a new frame. With a title, the frame shows the given text; without one, the host's frame factory provides the content. Zero width or height cascades the frame with the default size. Set modal to open it as the modal frame.",
	}, s.handleNewFrame)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_frame",
		Description: "Close a frame by ID. Frames opened without a close box cannot be closed. Closing the modal frame clears the modal.",
	}, s.handleCloseFrame)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_frame",
		Description: "Bring a frame to the front and focus it. While a modal frame is set only the modal can take focus.",
	}, s.handleFocusFrame)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_frame",
		Description: "Move and optionally resize a frame. The size is clamped to the frame's minimum size; the resulting bounds are returned.",
	}, s.handleMoveFrame)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile_frames",
		Description: "Arrange all non-modal frames inside the viewport using the active layout or the named one. With undo, restore the bounds from before the last tile.",
	}, s.handleTileFrames)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_modal",
		Description: "Make a frame the modal frame, or clear the modal with id 0. Clearing or replacing the modal removes the previous modal frame from the desktop.",
	}, s.handleSetModal)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a shortcut action by name, as if its key sequence was pressed: cycle_focus, cycle_focus_reverse, close_frame, new_frame, tile_frames, cycle_layout, undo_tile, move_mode, focus_left, focus_right, focus_up, focus_down.",
	}, s.handleRunAction)
}
