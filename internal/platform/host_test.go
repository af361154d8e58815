package platform

import (
	"testing"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
)

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		tty     bool
		display string
		want    string
		wantErr bool
	}{
		{"auto tty", HostAuto, true, ":0", HostTerminal, false},
		{"auto display", HostAuto, false, ":0", HostX11, false},
		{"auto nothing", HostAuto, false, "", HostHeadless, false},
		{"empty is auto", "", false, "", HostHeadless, false},
		{"explicit x11", HostX11, true, "", HostX11, false},
		{"explicit headless", HostHeadless, true, ":0", HostHeadless, false},
		{"unknown", "wayland", true, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Choose(tt.kind, tt.tty, tt.display)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Choose error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Choose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenHeadless(t *testing.T) {
	t.Setenv("DISPLAY", "")
	cfg := config.DefaultConfig().Display
	cfg.Host = HostHeadless
	cfg.Width, cfg.Height = 640, 480

	h, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()
	if h.Name() != HostHeadless {
		t.Fatalf("host = %q", h.Name())
	}
	if h.Viewport() != geom.R(0, 0, 640, 480) {
		t.Fatalf("viewport = %+v", h.Viewport())
	}
}

func TestHeadlessHost(t *testing.T) {
	h := NewHeadless(geom.R(0, 0, 100, 50))

	if got := h.StringWidth(render.FontDefault, "héllo"); got != 5*HeadlessCharWidth {
		t.Fatalf("StringWidth = %d", got)
	}
	h.SetCursor(render.CursorMove)
	if h.Cursor() != render.CursorMove {
		t.Fatalf("cursor = %v", h.Cursor())
	}

	h.Resize(geom.R(0, 0, 10, 10))
	h.Resize(geom.R(0, 0, 20, 20))
	if got := <-h.Resized(); got != geom.R(0, 0, 20, 20) {
		t.Fatalf("resized = %+v, want only the latest size", got)
	}

	h.Queue.MoveTo(3, 4)
	if x, y := h.Source().Pointer(); x != 3 || y != 4 {
		t.Fatalf("pointer = %d,%d", x, y)
	}

	h.Present()
	h.Present()
	if h.Frames() != 2 {
		t.Fatalf("frames = %d", h.Frames())
	}

	h.Close()
	h.Close()
	select {
	case <-h.Done():
	default:
		t.Fatal("Done should be closed")
	}
}
