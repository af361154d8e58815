package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/theme"
)

// ThemeTab shows the palette with swatches and edits color overrides.
type ThemeTab struct {
	cfg   *config.Config
	names []string
	index int

	editing   bool
	textInput textinput.Model
	errText   string

	width  int
	height int
}

// NewThemeTab creates the theme sub-model.
func NewThemeTab(cfg *config.Config) ThemeTab {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 7

	return ThemeTab{
		cfg:       cfg,
		names:     theme.Default().Names(),
		textInput: ti,
	}
}

func (t ThemeTab) selected() string {
	if t.index < 0 || t.index >= len(t.names) {
		return ""
	}
	return t.names[t.index]
}

// effective returns the hex value in use for name and whether it overrides
// the built-in palette.
func (t ThemeTab) effective(name string) (string, bool) {
	if hex, ok := t.cfg.Theme.Colors[name]; ok {
		return hex, true
	}
	return theme.Defaults()[name], false
}

// Update handles messages for the theme tab.
func (t ThemeTab) Update(msg tea.Msg) (ThemeTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			t.index = max(t.index-1, 0)
		case "down", "j":
			t.index = min(t.index+1, len(t.names)-1)
		case "enter", "e":
			hex, _ := t.effective(t.selected())
			t.editing = true
			t.errText = ""
			t.textInput.SetValue(hex)
			t.textInput.CursorEnd()
			t.textInput.Focus()
			return t, textinput.Blink
		case "r":
			delete(t.cfg.Theme.Colors, t.selected())
		}
	}
	return t, nil
}

func (t ThemeTab) updateEditing(msg tea.Msg) (ThemeTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			t.editing = false
			t.textInput.Blur()
			return t, nil
		case "enter":
			if err := t.setColor(t.selected(), strings.TrimSpace(t.textInput.Value())); err != nil {
				t.errText = err.Error()
				return t, nil
			}
			t.editing = false
			t.errText = ""
			t.textInput.Blur()
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.textInput, cmd = t.textInput.Update(msg)
	return t, cmd
}

// setColor stores hex as an override, or drops the override when hex equals
// the built-in value.
func (t *ThemeTab) setColor(name, hex string) error {
	c, err := theme.Parse(hex)
	if err != nil {
		return fmt.Errorf("invalid color %q", hex)
	}
	if def, err := theme.Parse(theme.Defaults()[name]); err == nil && def == c {
		delete(t.cfg.Theme.Colors, name)
		return nil
	}
	if t.cfg.Theme.Colors == nil {
		t.cfg.Theme.Colors = map[string]string{}
	}
	t.cfg.Theme.Colors[name] = c.String()
	return nil
}

// View renders the palette.
func (t ThemeTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	width := 0
	for _, name := range t.names {
		width = max(width, len(name))
	}
	nameStyle := lipgloss.NewStyle().Width(width + 2)
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Keep the selection visible when the palette is taller than the tab.
	rows := max(t.height-4, 1)
	first := max(min(t.index-rows/2, len(t.names)-rows), 0)
	last := min(first+rows, len(t.names))

	var lines []string
	for i := first; i < last; i++ {
		name := t.names[i]
		hex, override := t.effective(name)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
		cursor := "  "
		if i == t.index {
			cursor = cursorStyle.Render("> ")
		}
		line := cursor + swatch + "  " + nameStyle.Render(name) + hex
		if override {
			line += dim.Render("  (custom)")
		}
		lines = append(lines, line)
	}

	var footer string
	if t.editing {
		footer = cursorStyle.Render(t.selected()+": ") + t.textInput.View()
		if t.errText != "" {
			footer += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(t.errText)
		}
	} else {
		footer = dim.Render("j/k: move  enter/e: edit  r: reset to default")
	}

	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n") + "\n\n" + footer)
}
