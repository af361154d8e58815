package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
)

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	name      string
	isDefault bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isDefault {
		prefix = "* "
	}
	return prefix + i.name
}

func (i layoutItem) Description() string { return "" }
func (i layoutItem) FilterValue() string { return i.name }

// clearStatusMsg clears a tab's status line after a delay.
type clearStatusMsg struct{}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// LayoutsTab is the sub-model for the Layouts browser tab.
type LayoutsTab struct {
	list list.Model
	cfg  *config.Config

	tileCount  int
	statusText string

	width  int
	height int
	ready  bool
}

// NewLayoutsTab creates a new LayoutsTab sub-model.
func NewLayoutsTab(cfg *config.Config) LayoutsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(buildLayoutItems(cfg), delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return LayoutsTab{
		list:      l,
		cfg:       cfg,
		tileCount: 4,
	}
}

func buildLayoutItems(cfg *config.Config) []list.Item {
	names := cfg.LayoutNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, layoutItem{
			name:      name,
			isDefault: name == cfg.Tiling.DefaultLayout,
		})
	}
	return items
}

// Update implements tea.Model.
func (lt LayoutsTab) Update(msg tea.Msg) (LayoutsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lt.width = msg.Width
		lt.height = msg.Height
		lt.list.SetSize(lt.sidebarWidth(), max(lt.height-2, 1))
		lt.ready = true
		return lt, nil

	case clearStatusMsg:
		lt.statusText = ""
		return lt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "d":
			return lt.setDefaultSelected()
		// Tile count shortcuts override the tab-switching keys while this
		// tab is active.
		case "2":
			lt.tileCount = 2
			return lt, nil
		case "4":
			lt.tileCount = 4
			return lt, nil
		case "6":
			lt.tileCount = 6
			return lt, nil
		case "9":
			lt.tileCount = 9
			return lt, nil
		}
	}

	var cmd tea.Cmd
	lt.list, cmd = lt.list.Update(msg)
	return lt, cmd
}

func (lt LayoutsTab) sidebarWidth() int {
	// ~35% of the width, clamped to 20..40
	return min(max(lt.width*35/100, 20), 40)
}

func (lt LayoutsTab) viewport() geom.Rect {
	return geom.R(0, 0, lt.cfg.Display.Width, lt.cfg.Display.Height)
}

func (lt LayoutsTab) selectedName() string {
	item, ok := lt.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.name
}

func (lt LayoutsTab) setDefaultSelected() (LayoutsTab, tea.Cmd) {
	name := lt.selectedName()
	if name == "" {
		return lt, nil
	}
	lt.cfg.Tiling.DefaultLayout = name
	lt.rebuildItems()
	lt.statusText = fmt.Sprintf("default set: %s", name)
	return lt, clearStatusLater()
}

func (lt *LayoutsTab) rebuildItems() {
	lt.list.SetItems(buildLayoutItems(lt.cfg))
}

// View implements tea.Model.
func (lt LayoutsTab) View() string {
	if !lt.ready || lt.width == 0 || lt.height == 0 {
		return ""
	}

	sidebarWidth := lt.sidebarWidth()
	previewWidth := max(lt.width-sidebarWidth-3, 10) // separator + padding

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(lt.height - 2).
		Render(lt.list.View())

	preview := lt.renderPreview(previewWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", max(lt.height-2, 0)))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, preview)
	return lipgloss.JoinVertical(lipgloss.Left, columns, lt.renderTabStatus())
}

func (lt LayoutsTab) renderPreview(previewWidth int) string {
	name := lt.selectedName()
	if name == "" {
		return ""
	}
	layout, err := lt.cfg.GetLayout(name)
	if err != nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  [%d frames]", name, lt.tileCount))

	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizeLayout(layout, lt.tileCount, lt.cfg.Tiling.GapSize, lt.viewport()))

	// title + summary + status + padding
	previewHeight := max(lt.height-6, 5)
	lines := renderASCIIPreview(layout, lt.tileCount, max(previewWidth-2, 5), previewHeight)

	previewBlock := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", previewBlock)
}

func (lt LayoutsTab) renderTabStatus() string {
	left := ""
	if lt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(lt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("frames:%d  enter/d:set default  2/4/6/9:frames", lt.tileCount))

	gap := max(lt.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(lt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
