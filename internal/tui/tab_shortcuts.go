package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/event"
)

// shortcutItem implements list.Item for one action binding.
type shortcutItem struct {
	action   string
	sequence string
}

func (i shortcutItem) Title() string {
	seq := i.sequence
	if seq == "" {
		seq = "(disabled)"
	}
	return fmt.Sprintf("%-20s %s", i.action, seq)
}

func (i shortcutItem) Description() string { return "" }
func (i shortcutItem) FilterValue() string { return i.action }

// ShortcutsTab lists the action bindings and edits one at a time.
type ShortcutsTab struct {
	list list.Model
	cfg  *config.Config

	editing   bool
	action    string
	textInput textinput.Model
	errText   string

	width  int
	height int
}

// NewShortcutsTab creates the shortcuts sub-model.
func NewShortcutsTab(cfg *config.Config) ShortcutsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(buildShortcutItems(cfg), delegate, 0, 0)
	l.Title = "Shortcuts"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "e.g. Mod1-Tab, Ctrl-Shift-w"
	ti.CharLimit = 48

	return ShortcutsTab{
		list:      l,
		cfg:       cfg,
		textInput: ti,
	}
}

func buildShortcutItems(cfg *config.Config) []list.Item {
	entries := cfg.Shortcuts.Entries()
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, shortcutItem{action: e.Action, sequence: e.Sequence})
	}
	return items
}

// Update handles messages for the shortcuts tab.
func (s ShortcutsTab) Update(msg tea.Msg) (ShortcutsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.SetSize(s.width, max(s.height-3, 1))
		return s, nil

	case tea.KeyMsg:
		item, ok := s.list.SelectedItem().(shortcutItem)
		switch msg.String() {
		case "enter", "e":
			if !ok {
				return s, nil
			}
			s.editing = true
			s.action = item.action
			s.errText = ""
			s.textInput.SetValue(item.sequence)
			s.textInput.CursorEnd()
			s.textInput.Focus()
			return s, textinput.Blink
		case "x", "delete":
			if ok {
				s.cfg.Shortcuts.Set(item.action, "")
				s.list.SetItems(buildShortcutItems(s.cfg))
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s ShortcutsTab) updateEditing(msg tea.Msg) (ShortcutsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			s.stopEditing()
			return s, nil
		case "enter":
			if err := s.commit(strings.TrimSpace(s.textInput.Value())); err != nil {
				s.errText = err.Error()
				return s, nil
			}
			s.stopEditing()
			s.list.SetItems(buildShortcutItems(s.cfg))
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.textInput, cmd = s.textInput.Update(msg)
	return s, cmd
}

func (s *ShortcutsTab) stopEditing() {
	s.editing = false
	s.errText = ""
	s.textInput.Blur()
}

// commit binds seq to the action being edited. An empty sequence disables
// the action; a sequence already bound elsewhere is refused.
func (s *ShortcutsTab) commit(seq string) error {
	if seq != "" {
		sc, err := event.ParseShortcut(seq)
		if err != nil {
			return err
		}
		for _, e := range s.cfg.Shortcuts.Entries() {
			if e.Action == s.action || e.Sequence == "" {
				continue
			}
			other, err := event.ParseShortcut(e.Sequence)
			if err == nil && other.String() == sc.String() {
				return fmt.Errorf("%s is already bound to %s", sc, e.Action)
			}
		}
	}
	s.cfg.Shortcuts.Set(s.action, seq)
	return nil
}

// View renders the shortcuts tab.
func (s ShortcutsTab) View() string {
	if s.width == 0 || s.height == 0 {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var footer string
	if s.editing {
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render(s.action + ": ")
		footer = label + s.textInput.View()
		if s.errText != "" {
			footer += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s.errText)
		} else {
			footer += "\n" + dim.Render("enter: bind  esc: cancel  empty: disable")
		}
	} else {
		footer = "\n" + dim.Render("enter/e: edit  x: disable")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.list.View(),
		lipgloss.NewStyle().Padding(0, 2).Render(footer),
	)
}
