package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/widget"
	"github.com/1broseidon/framewm/internal/wm"
)

func infoOf(w *wm.WM, f *frame.Frame) FrameInfo {
	b := f.Bounds()
	return FrameInfo{
		ID:        f.ID(),
		Title:     f.Title(),
		X:         b.X,
		Y:         b.Y,
		Width:     b.Width,
		Height:    b.Height,
		Focused:   f.Focused(),
		Modal:     w.Stack().Modal() == f,
		Closable:  f.Closable(),
		Resizable: f.Resizable(),
	}
}

func idOf(f *frame.Frame) uint64 {
	if f == nil {
		return 0
	}
	return f.ID()
}

func lookup(w *wm.WM, id uint64) (*frame.Frame, error) {
	f := w.FrameByID(id)
	if f == nil {
		return nil, fmt.Errorf("no frame with id %d", id)
	}
	return f, nil
}

func (s *Server) handleListFrames(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListFramesInput) (*mcpsdk.CallToolResult, ListFramesOutput, error) {
	var out ListFramesOutput
	err := s.do(ctx, "list_frames", func(w *wm.WM) error {
		frames := w.Frames()
		out.Frames = make([]FrameInfo, 0, len(frames))
		for _, f := range frames {
			out.Frames = append(out.Frames, infoOf(w, f))
		}
		out.Focused = idOf(w.Stack().Focused())
		out.Modal = idOf(w.Stack().Modal())
		out.Layout = w.ActiveLayout()
		v := w.Viewport()
		out.Viewport = Bounds{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
		return nil
	})
	if err != nil {
		return nil, ListFramesOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleNewFrame(ctx context.Context, _ *mcpsdk.CallToolRequest, args NewFrameInput) (*mcpsdk.CallToolResult, NewFrameOutput, error) {
	var out NewFrameOutput
	err := s.do(ctx, "new_frame", func(w *wm.WM) error {
		var f *frame.Frame
		switch {
		case args.Title == "" && !args.Modal && args.Width == 0 && args.Height == 0:
			f = w.NewFrame()
			if f == nil {
				return fmt.Errorf("no frame factory configured; pass a title")
			}
		default:
			opts := frame.Options{
				Title:  args.Title,
				Bounds: geom.R(args.X, args.Y, args.Width, args.Height),
			}
			if args.Text != "" {
				opts.Content = widget.NewLabel(args.Text)
			}
			if args.Modal {
				f = w.ShowModal(opts)
			} else {
				f = w.AddFrame(opts)
			}
		}
		out.Frame = infoOf(w, f)
		return nil
	})
	if err != nil {
		return nil, NewFrameOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleCloseFrame(ctx context.Context, _ *mcpsdk.CallToolRequest, args FrameIDInput) (*mcpsdk.CallToolResult, CloseFrameOutput, error) {
	err := s.do(ctx, "close_frame", func(w *wm.WM) error {
		f, err := lookup(w, args.ID)
		if err != nil {
			return err
		}
		if !f.Closable() {
			return fmt.Errorf("frame %d cannot be closed", args.ID)
		}
		w.CloseFrame(f)
		return nil
	})
	if err != nil {
		return nil, CloseFrameOutput{}, err
	}
	return nil, CloseFrameOutput{Closed: true}, nil
}

func (s *Server) handleFocusFrame(ctx context.Context, _ *mcpsdk.CallToolRequest, args FrameIDInput) (*mcpsdk.CallToolResult, FocusFrameOutput, error) {
	var out FocusFrameOutput
	err := s.do(ctx, "focus_frame", func(w *wm.WM) error {
		f, err := lookup(w, args.ID)
		if err != nil {
			return err
		}
		w.Foreground(f)
		out.Focused = idOf(w.Stack().Focused())
		if out.Focused != f.ID() {
			return fmt.Errorf("frame %d cannot take focus while frame %d is modal", f.ID(), idOf(w.Stack().Modal()))
		}
		return nil
	})
	if err != nil {
		return nil, FocusFrameOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleMoveFrame(ctx context.Context, _ *mcpsdk.CallToolRequest, args MoveFrameInput) (*mcpsdk.CallToolResult, MoveFrameOutput, error) {
	var out MoveFrameOutput
	err := s.do(ctx, "move_frame", func(w *wm.WM) error {
		f, err := lookup(w, args.ID)
		if err != nil {
			return err
		}
		b := f.Bounds()
		r := geom.R(args.X, args.Y, b.Width, b.Height)
		if args.Width > 0 {
			r.Width = args.Width
		}
		if args.Height > 0 {
			r.Height = args.Height
		}
		if r.Size() != b.Size() && !f.Resizable() {
			return fmt.Errorf("frame %d is not resizable", args.ID)
		}
		w.MoveFrame(f, r)
		out.Frame = infoOf(w, f)
		return nil
	})
	if err != nil {
		return nil, MoveFrameOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleTileFrames(ctx context.Context, _ *mcpsdk.CallToolRequest, args TileFramesInput) (*mcpsdk.CallToolResult, TileFramesOutput, error) {
	var out TileFramesOutput
	err := s.do(ctx, "tile_frames", func(w *wm.WM) error {
		if args.Undo {
			out.Restored = w.UndoTile()
			out.Layout = w.ActiveLayout()
			return nil
		}
		if args.Layout != "" {
			if err := w.SetLayout(args.Layout); err != nil {
				return err
			}
		}
		n, err := w.Tile()
		if err != nil {
			return err
		}
		out.Tiled = n
		out.Layout = w.ActiveLayout()
		return nil
	})
	if err != nil {
		return nil, TileFramesOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetModal(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetModalInput) (*mcpsdk.CallToolResult, SetModalOutput, error) {
	var out SetModalOutput
	err := s.do(ctx, "set_modal", func(w *wm.WM) error {
		if args.ID == 0 {
			w.SetModal(nil)
			return nil
		}
		f, err := lookup(w, args.ID)
		if err != nil {
			return err
		}
		w.SetModal(f)
		out.Modal = f.ID()
		return nil
	})
	if err != nil {
		return nil, SetModalOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleRunAction(ctx context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	var out RunActionOutput
	err := s.do(ctx, "run_action", func(w *wm.WM) error {
		if err := w.RunAction(args.Action); err != nil {
			return err
		}
		out.Focused = idOf(w.Stack().Focused())
		return nil
	})
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	return nil, out, nil
}
