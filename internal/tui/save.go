package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framewm/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing changes, awaiting confirm
	saveResult            // showing outcome message
)

// change is one YAML key whose value differs between two configs. An empty
// before means the key was added; an empty after means it was removed.
type change struct {
	path   string
	before string
	after  string
}

// SaveOverlay manages the config save preview and confirmation workflow.
type SaveOverlay struct {
	phase        savePhase
	changes      []change
	err          error
	savedTo      string
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show computes the pending changes and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.savedTo = ""
	s.scrollOffset = 0

	s.changes = diffConfigs(original, current)
	if len(s.changes) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			if s.err = cfg.SaveTo(path); s.err == nil {
				s.savedTo = path
			}
			s.phase = saveResult
		case "up", "k":
			s.scrollOffset = max(s.scrollOffset-1, 0)
		case "down", "j":
			s.scrollOffset = min(s.scrollOffset+1, max(len(s.changes)-1, 0))
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

// View renders the overlay for the given content area dimensions.
func (s SaveOverlay) View(width, height int) string {
	var content string
	boxW := min(max(width-8, 30), 80)
	switch s.phase {
	case savePreview:
		content = s.previewContent(boxW-6, max(height-10, 3))
	case saveResult:
		boxW = min(boxW, 60)
		content = s.resultContent()
	default:
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) previewContent(innerW, rows int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	title := titleStyle.Render(fmt.Sprintf("Save Config: %d pending change(s)", len(s.changes)))

	off := min(s.scrollOffset, max(len(s.changes)-rows, 0))
	end := min(off+rows, len(s.changes))

	var lines []string
	for _, c := range s.changes[off:end] {
		line := pathStyle.Render(c.path + ": ")
		switch {
		case c.before == "":
			line += addStyle.Render(c.after)
		case c.after == "":
			line += rmStyle.Render(c.before + " (removed)")
		default:
			line += rmStyle.Render(c.before) + dim.Render(" -> ") + addStyle.Render(c.after)
		}
		lines = append(lines, truncate(line, innerW))
	}

	footer := dim.Render("enter: save  esc: cancel  j/k: scroll")
	return title + "\n\n" + strings.Join(lines, "\n") + "\n\n" + footer
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

func (s SaveOverlay) resultContent() string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Render("Config saved to "+s.savedTo) +
			"\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("A running framewm picks it up on SIGHUP")
	}
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("press any key to dismiss")
	return msg + "\n\n" + footer
}

// diffConfigs compares the YAML form of two configs key by key, in sorted
// path order.
func diffConfigs(original, current *config.Config) []change {
	if original == nil || current == nil {
		return nil
	}
	a, errA := flatten(original)
	b, errB := flatten(current)
	if errA != nil || errB != nil {
		return nil
	}

	paths := make([]string, 0, len(a)+len(b))
	for p := range a {
		paths = append(paths, p)
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var out []change
	for _, p := range paths {
		if a[p] != b[p] {
			out = append(out, change{path: p, before: a[p], after: b[p]})
		}
	}
	return out
}

// flatten maps each scalar or sequence in cfg's YAML form to its dotted
// path. Sequences are kept whole in flow style.
func flatten(cfg *config.Config) (map[string]string, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, err
	}
	out := map[string]string{}
	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		switch n.Kind {
		case yaml.DocumentNode:
			for _, c := range n.Content {
				walk(c, prefix)
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key := n.Content[i].Value
				if prefix != "" {
					key = prefix + "." + key
				}
				walk(n.Content[i+1], key)
			}
		case yaml.SequenceNode:
			items := make([]string, 0, len(n.Content))
			for _, item := range n.Content {
				items = append(items, item.Value)
			}
			out[prefix] = "[" + strings.Join(items, ", ") + "]"
		default:
			if n.Value == "" {
				out[prefix] = `""`
			} else {
				out[prefix] = n.Value
			}
		}
	}
	walk(&doc, "")
	return out, nil
}

// cloneConfig creates a deep copy of a Config via YAML round-trip.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
