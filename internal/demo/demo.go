// Package demo fills a desktop with sample frames that exercise every widget
// kind.
package demo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/framewm/internal/frame"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/widget"
	"github.com/1broseidon/framewm/internal/wm"
)

// Action names raised by demo widgets.
const (
	ActionSave  = "demo:save"
	ActionClear = "demo:clear"
	ActionWrap  = "demo:wrap"
	ActionPing  = "demo:ping"
)

const sampleText = `framewm demo

Drag a title bar to move a frame, drag an edge to resize it.
Alt-Tab cycles focus, Alt-t tiles, Alt-r enters move mode.
Alt-n opens another frame, Alt-w closes the focused one.`

// Editor builds a text editor with a toolbar.
func Editor(text string) (widget.Widget, *widget.TextEditor) {
	editor := widget.NewTextEditor(true)
	editor.SetText(text)

	toolbar := widget.NewFlowBox(widget.Horizontal, 1)
	toolbar.AddLeading(widget.NewButton("Save", ActionSave))
	toolbar.AddLeading(widget.NewButton("Clear", ActionClear))
	toolbar.SetExpander(widget.NewLabel(""))
	toolbar.AddTrailing(widget.NewCheckbox("wrap", ActionWrap))

	root := widget.NewBox(widget.Vertical, 1)
	root.Add(toolbar, 0)
	root.Add(widget.NewScrollBox(editor), 1)
	return root, editor
}

// Panel builds a tabbed frame body: an about page, a settings page and a
// scrolling log.
func Panel(logLines int) widget.Widget {
	about := widget.NewBox(widget.Vertical, 0)
	about.Add(widget.NewLabel("An in-process window manager."), 0)
	about.Add(widget.NewLabel("Frames, tabs, scrolling and text editing."), 0)
	about.Add(widget.NewButton("Ping", ActionPing), 0)

	settings := widget.NewBox(widget.Vertical, 1)
	for _, name := range []string{"snap to grid", "show clock", "dim unfocused"} {
		settings.Add(widget.NewCheckbox(name, "demo:setting:"+strings.ReplaceAll(name, " ", "_")), 0)
	}

	log := widget.NewBox(widget.Vertical, 0)
	for i := 1; i <= logLines; i++ {
		log.Add(widget.NewLabel(fmt.Sprintf("%03d  event received", i)), 0)
	}

	tabs := widget.NewTabs()
	tabs.AddTab("About", widget.NewTitleBorder("framewm", about))
	tabs.AddTab("Settings", settings)
	tabs.AddTab("Log", widget.NewScrollBox(log))
	return tabs
}

// Populate opens the sample frames on w and returns them back to front.
func Populate(w *wm.WM) []*frame.Frame {
	view := w.Viewport()
	def := w.Metrics().Default

	editor, _ := Editor(sampleText)
	frames := []*frame.Frame{
		w.AddFrame(frame.Options{
			Title:   "Editor",
			Content: editor,
			Bounds:  geom.R(view.X+view.Width/16, view.Y+view.Height/12, def.Width*3/2, def.Height),
		}),
		w.AddFrame(frame.Options{
			Title:   "Panel",
			Content: Panel(40),
			Bounds:  geom.R(view.X+view.Width/2, view.Y+view.Height/6, def.Width, def.Height),
		}),
		w.AddFrame(frame.Options{
			Title:   "Pinned",
			Content: widget.NewLabel("This frame cannot be closed or resized."),
			Bounds:  geom.R(view.X+view.Width/8, view.Y+view.Height*2/3, def.Width, w.Metrics().Min.Height),
			Fixed:   true,
			NoClose: true,
		}),
	}
	return frames
}

// Content is a wm.ContentFactory alternating editors and panels.
func Content(n int) (string, widget.Widget) {
	if n%2 == 0 {
		return fmt.Sprintf("Panel %d", n), Panel(10 * n)
	}
	root, _ := Editor(fmt.Sprintf("Scratch buffer %d\n", n))
	return fmt.Sprintf("Scratch %d", n), root
}

// Listener reacts to demo actions: Clear empties the editor it came from and
// every other action is logged.
func Listener(logger *slog.Logger) wm.Funcs {
	if logger == nil {
		logger = slog.Default()
	}
	return wm.Funcs{
		Action: func(f *frame.Frame, action string, origin widget.Widget) {
			logger.Info("demo action", "frame", f.ID(), "title", f.Title(), "action", action)
			if action != ActionClear {
				return
			}
			if ed := findEditor(f.Content()); ed != nil {
				ed.SetText("")
			}
		},
	}
}

func findEditor(w widget.Widget) *widget.TextEditor {
	if ed, ok := w.(*widget.TextEditor); ok {
		return ed
	}
	c, ok := w.(widget.Container)
	if !ok {
		return nil
	}
	for _, child := range c.Children() {
		if ed := findEditor(child); ed != nil {
			return ed
		}
	}
	return nil
}
