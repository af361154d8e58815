package demo

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/input"
	"github.com/1broseidon/framewm/internal/render/rendertest"
	"github.com/1broseidon/framewm/internal/widget"
	"github.com/1broseidon/framewm/internal/wm"
)

func newWM(t *testing.T) (*wm.WM, *rendertest.Painter) {
	t.Helper()
	p := &rendertest.Painter{}
	w, err := wm.New(config.DefaultConfig(), wm.Options{
		Painter:    p,
		Fonts:      rendertest.Fonts{CharWidth: 8, Height: 16},
		Cursor:     &rendertest.Cursor{},
		Source:     &input.Queue{},
		Viewport:   geom.R(0, 0, 1024, 768),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewContent: Content,
	})
	if err != nil {
		t.Fatalf("wm.New: %v", err)
	}
	return w, p
}

func TestPopulate(t *testing.T) {
	w, p := newWM(t)
	frames := Populate(w)
	if len(frames) != 3 || w.Stack().Len() != 3 {
		t.Fatalf("populated %d frames, stack has %d", len(frames), w.Stack().Len())
	}
	pinned := frames[2]
	if pinned.Closable() || pinned.Resizable() {
		t.Fatal("pinned frame should be fixed and not closable")
	}
	if w.Stack().Focused() != pinned {
		t.Fatal("last populated frame should be focused")
	}

	w.Update()
	w.Render()
	if tr, cl := w.Context().Stack.Depth(); tr != 0 || cl != 0 {
		t.Fatalf("coordinate stack left at %d translates, %d clips", tr, cl)
	}
	if len(p.Texts()) == 0 {
		t.Fatal("render drew no text")
	}
}

func TestContentFactoryAlternates(t *testing.T) {
	title, content := Content(1)
	if title != "Scratch 1" || findEditor(content) == nil {
		t.Fatalf("odd content = %q %T", title, content)
	}
	title, content = Content(2)
	if _, ok := content.(*widget.Tabs); title != "Panel 2" || !ok {
		t.Fatalf("even content = %q %T", title, content)
	}
}

func TestNewFrameUsesFactory(t *testing.T) {
	w, _ := newWM(t)
	if err := w.RunAction(wm.ActionNewFrame); err != nil {
		t.Fatalf("new_frame: %v", err)
	}
	if f := w.Stack().Focused(); f == nil || f.Title() != "Scratch 1" {
		t.Fatalf("focused = %v", f)
	}
}

func TestListenerClearsEditor(t *testing.T) {
	w, _ := newWM(t)
	f := Populate(w)[0]
	ed := findEditor(f.Content())
	if ed == nil || ed.Text() == "" {
		t.Fatal("editor frame should start with text")
	}

	l := Listener(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.OnAction(f, ActionSave, nil)
	if ed.Text() == "" {
		t.Fatal("save should not clear the editor")
	}
	l.OnAction(f, ActionClear, nil)
	if ed.Text() != "" {
		t.Fatalf("text after clear = %q", ed.Text())
	}
}

func TestPanelTabs(t *testing.T) {
	tabs, ok := Panel(5).(*widget.Tabs)
	if !ok {
		t.Fatal("panel should be tabs")
	}
	if tabs.Len() != 3 || tabs.Title(2) != "Log" {
		t.Fatalf("tabs = %d, last %q", tabs.Len(), tabs.Title(2))
	}
	if _, ok := tabs.Page(2).(*widget.ScrollBox); !ok {
		t.Fatalf("log page = %T", tabs.Page(2))
	}
}
