package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/daemon"
	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/widget"
	"github.com/1broseidon/framewm/internal/wm"
)

type fixture struct {
	wm      *wm.WM
	session *mcpsdk.ClientSession
}

// newFixture runs a window manager on a headless host with a live tick loop
// and connects an in-memory MCP client to it.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	host := platform.NewHeadless(geom.R(0, 0, 800, 600))
	w, err := wm.New(config.DefaultConfig(), wm.Options{
		Painter:  host,
		Fonts:    host,
		Cursor:   host,
		Source:   host.Source(),
		Viewport: host.Viewport(),
		Logger:   logger,
		NewContent: func(n int) (string, widget.Widget) {
			return "factory", widget.NewLabel("made by factory")
		},
	})
	if err != nil {
		t.Fatalf("wm.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := daemon.NewLoop(daemon.LoopConfig{TickRate: 200, Logger: logger}, w, host)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	s := NewServer(w, Options{Logger: logger, CallTimeout: 2 * time.Second})
	ct, st := mcpsdk.NewInMemoryTransports()
	if _, err := s.MCPServer().Connect(ctx, st, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() {
		session.Close()
		cancel()
		<-loopDone
	})
	return &fixture{wm: w, session: session}
}

// call invokes a tool and decodes its structured result into out. It fails
// the test on tool errors unless wantErr is set.
func (f *fixture) call(t *testing.T, name string, args map[string]any, out any, wantErr bool) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := f.session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	failed := err != nil || (res != nil && res.IsError)
	if failed != wantErr {
		t.Fatalf("%s: err = %v, result error = %v, wantErr %v", name, err, res != nil && res.IsError, wantErr)
	}
	if failed || out == nil {
		return
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("%s: marshal result: %v", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("%s: decode result %s: %v", name, raw, err)
	}
}

func (f *fixture) list(t *testing.T) ListFramesOutput {
	t.Helper()
	var out ListFramesOutput
	f.call(t, "list_frames", nil, &out, false)
	return out
}

func TestToolsRegistered(t *testing.T) {
	f := newFixture(t)
	res, err := f.session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	want := map[string]bool{
		"list_frames": false, "new_frame": false, "close_frame": false, "focus_frame": false,
		"move_frame": false, "tile_frames": false, "set_modal": false, "run_action": false,
	}
	for _, tool := range res.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestNewAndListFrames(t *testing.T) {
	f := newFixture(t)

	var made NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "notes", "text": "hello", "x": 10, "y": 20, "width": 300, "height": 200}, &made, false)
	if made.Frame.Title != "notes" || made.Frame.X != 10 || made.Frame.Width != 300 {
		t.Fatalf("new frame = %+v", made.Frame)
	}

	var fromFactory NewFrameOutput
	f.call(t, "new_frame", nil, &fromFactory, false)
	if fromFactory.Frame.Title != "factory" {
		t.Fatalf("factory frame = %+v", fromFactory.Frame)
	}

	out := f.list(t)
	if len(out.Frames) != 2 {
		t.Fatalf("frames = %+v", out.Frames)
	}
	if out.Frames[0].ID != fromFactory.Frame.ID || out.Focused != fromFactory.Frame.ID {
		t.Fatalf("newest frame should be in front and focused: %+v", out)
	}
	if out.Layout == "" || out.Viewport.Width != 800 {
		t.Fatalf("layout %q viewport %+v", out.Layout, out.Viewport)
	}
}

func TestCloseFrame(t *testing.T) {
	f := newFixture(t)
	var a NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "a"}, &a, false)

	var pinned *frame.Frame
	ctx := context.Background()
	f.wm.Do(ctx, func(w *wm.WM) {
		pinned = w.AddFrame(frame.Options{Title: "pinned", NoClose: true})
	})

	f.call(t, "close_frame", map[string]any{"id": pinned.ID()}, nil, true)
	f.call(t, "close_frame", map[string]any{"id": 999}, nil, true)

	var closed CloseFrameOutput
	f.call(t, "close_frame", map[string]any{"id": a.Frame.ID}, &closed, false)
	if !closed.Closed {
		t.Fatal("close_frame should report closed")
	}
	if out := f.list(t); len(out.Frames) != 1 || out.Frames[0].Title != "pinned" {
		t.Fatalf("frames after close = %+v", out.Frames)
	}
}

func TestFocusAndModal(t *testing.T) {
	f := newFixture(t)
	var a, b NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "a"}, &a, false)
	f.call(t, "new_frame", map[string]any{"title": "b"}, &b, false)

	var focused FocusFrameOutput
	f.call(t, "focus_frame", map[string]any{"id": a.Frame.ID}, &focused, false)
	if focused.Focused != a.Frame.ID {
		t.Fatalf("focused = %d", focused.Focused)
	}

	var modal NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "dialog", "modal": true}, &modal, false)
	if !modal.Frame.Modal {
		t.Fatalf("modal frame = %+v", modal.Frame)
	}
	f.call(t, "focus_frame", map[string]any{"id": b.Frame.ID}, nil, true)

	var cleared SetModalOutput
	f.call(t, "set_modal", map[string]any{"id": 0}, &cleared, false)
	out := f.list(t)
	if out.Modal != 0 || len(out.Frames) != 2 {
		t.Fatalf("after clearing modal: %+v", out)
	}
}

func TestMoveFrameClampsToMinimum(t *testing.T) {
	f := newFixture(t)
	var a NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "a", "width": 300, "height": 200}, &a, false)

	var moved MoveFrameOutput
	f.call(t, "move_frame", map[string]any{"id": a.Frame.ID, "x": 50, "y": 60, "width": 1, "height": 1}, &moved, false)
	if moved.Frame.X != 50 || moved.Frame.Y != 60 {
		t.Fatalf("moved = %+v", moved.Frame)
	}
	min := f.wm.Metrics().Min
	if moved.Frame.Width != min.Width || moved.Frame.Height != min.Height {
		t.Fatalf("size = %dx%d, want minimum %dx%d", moved.Frame.Width, moved.Frame.Height, min.Width, min.Height)
	}
}

func TestTileFrames(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"a", "b", "c"} {
		f.call(t, "new_frame", map[string]any{"title": title}, nil, false)
	}

	var tiled TileFramesOutput
	f.call(t, "tile_frames", map[string]any{"layout": "columns"}, &tiled, false)
	if tiled.Tiled != 3 || tiled.Layout != "columns" {
		t.Fatalf("tile = %+v", tiled)
	}
	f.call(t, "tile_frames", map[string]any{"layout": "nope"}, nil, true)

	var undone TileFramesOutput
	f.call(t, "tile_frames", map[string]any{"undo": true}, &undone, false)
	if !undone.Restored {
		t.Fatal("undo should restore the previous bounds")
	}
}

func TestRunAction(t *testing.T) {
	f := newFixture(t)
	var a, b NewFrameOutput
	f.call(t, "new_frame", map[string]any{"title": "a"}, &a, false)
	f.call(t, "new_frame", map[string]any{"title": "b"}, &b, false)

	var out RunActionOutput
	f.call(t, "run_action", map[string]any{"action": "cycle_focus"}, &out, false)
	if out.Focused != a.Frame.ID {
		t.Fatalf("focused after cycle = %d, want %d", out.Focused, a.Frame.ID)
	}
	f.call(t, "run_action", map[string]any{"action": "explode"}, nil, true)
}
