package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab. Tab n is also selected by the digit n+1.
type Tab int

const (
	TabGeneral Tab = iota
	TabLayouts
	TabShortcuts
	TabTheme
	tabCount
)

var tabNames = [tabCount]string{"General", "Layouts", "Shortcuts", "Theme"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Render(" ")
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	cells := make([]string, 0, 2*tabCount)
	for t := Tab(0); t < tabCount; t++ {
		if t > 0 {
			cells = append(cells, tabGap)
		}
		style := inactiveTabStyle
		if t == active {
			style = activeTabStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d:%s", t+1, t)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return lipgloss.NewStyle().MarginBottom(1).Width(width).Render(row)
}

// renderStatusBar shows which file is being edited and whether it has
// unsaved changes.
func renderStatusBar(path string, dirty bool, defaultLayout string, width int) string {
	dotColor, parts := lipgloss.Color("42"), []string{path}
	if dirty {
		dotColor = lipgloss.Color("214")
		parts = append(parts, "modified")
	}
	if defaultLayout != "" {
		parts = append(parts, "default:"+defaultLayout)
	}
	dot := lipgloss.NewStyle().Foreground(dotColor).Render("●")

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(dot + " " + strings.Join(parts, "  "))
}

func renderHelpBar(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render("tab/shift-tab: switch tabs  1-4: jump to tab  ctrl-s: save  q/ctrl-c: quit")
}
