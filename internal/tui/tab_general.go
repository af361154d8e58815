package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/config"
)

// GeneralTab is the sub-model for the General settings tab.
type GeneralTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fHost                string
	fTickRate            string
	fWidth               string
	fHeight              string
	fBorderWidth         string
	fMinWidth            string
	fMinHeight           string
	fDragThreshold       string
	fFocusFollowsPointer bool
	fEscapeClearsModal   bool
	fMoveStep            string
	fGapSize             string
	fDefaultLayout       string
	fLogLevel            string
}

// NewGeneralTab creates a GeneralTab from the loaded config.
func NewGeneralTab(cfg *config.Config) GeneralTab {
	return GeneralTab{cfg: cfg}
}

// Update implements tea.Model.
func (g GeneralTab) Update(msg tea.Msg) (GeneralTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	return g.updateDisplay(msg)
}

func (g GeneralTab) updateDisplay(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g GeneralTab) updateEditing(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}

	return g, cmd
}

func (g *GeneralTab) loadFields() {
	cfg := g.cfg
	g.fHost = cfg.Display.Host
	g.fTickRate = strconv.Itoa(cfg.Display.TickRate)
	g.fWidth = strconv.Itoa(cfg.Display.Width)
	g.fHeight = strconv.Itoa(cfg.Display.Height)
	g.fBorderWidth = strconv.Itoa(cfg.Frame.BorderWidth)
	g.fMinWidth = strconv.Itoa(cfg.Frame.MinWidth)
	g.fMinHeight = strconv.Itoa(cfg.Frame.MinHeight)
	g.fDragThreshold = string(cfg.Input.DragThreshold)
	g.fFocusFollowsPointer = cfg.Input.FocusFollowsPointer
	g.fEscapeClearsModal = cfg.Input.EscapeClearsModal
	g.fMoveStep = strconv.Itoa(cfg.Input.MoveStep)
	g.fGapSize = strconv.Itoa(cfg.Tiling.GapSize)
	g.fDefaultLayout = cfg.Tiling.DefaultLayout
	g.fLogLevel = cfg.LogLevel
}

func (g *GeneralTab) startEditing() {
	g.loadFields()

	w := max(g.width-4, 40)
	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("host").
				Title("Host").
				Description("Where frames are drawn").
				Options(huh.NewOptions("auto", "terminal", "x11", "headless")...).
				Value(&g.fHost),
			huh.NewInput().
				Key("tick_rate").
				Title("Tick Rate").
				Description("Frames per second, 1-240").
				Validate(intBetween(1, 240)).
				Value(&g.fTickRate),
			huh.NewInput().
				Key("width").
				Title("Window Width").
				Validate(intBetween(1, 1<<15)).
				Value(&g.fWidth),
			huh.NewInput().
				Key("height").
				Title("Window Height").
				Validate(intBetween(1, 1<<15)).
				Value(&g.fHeight),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&g.fLogLevel),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("border_width").
				Title("Border Width").
				Validate(intBetween(0, 64)).
				Value(&g.fBorderWidth),
			huh.NewInput().
				Key("min_width").
				Title("Minimum Frame Width").
				Description("0 derives it from the font").
				Validate(intBetween(0, 1<<15)).
				Value(&g.fMinWidth),
			huh.NewInput().
				Key("min_height").
				Title("Minimum Frame Height").
				Description("0 derives it from the font").
				Validate(intBetween(0, 1<<15)).
				Value(&g.fMinHeight),
			huh.NewInput().
				Key("gap_size").
				Title("Gap Size").
				Description("Space between tiled frames").
				Validate(intBetween(0, 1<<10)).
				Value(&g.fGapSize),
			huh.NewSelect[string]().
				Key("default_layout").
				Title("Default Layout").
				Description("Layout used by tile_frames").
				Options(huh.NewOptions(g.cfg.LayoutNames()...)...).
				Value(&g.fDefaultLayout),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("drag_threshold").
				Title("Drag Threshold").
				Description("Movement needed before a press becomes a drag").
				Options(
					huh.NewOption("either axis", string(config.DragEither)),
					huh.NewOption("both axes", string(config.DragBoth)),
				).
				Value(&g.fDragThreshold),
			huh.NewConfirm().
				Key("focus_follows_pointer").
				Title("Focus Follows Pointer").
				Value(&g.fFocusFollowsPointer),
			huh.NewConfirm().
				Key("escape_clears_modal").
				Title("Escape Clears Modal").
				Value(&g.fEscapeClearsModal),
			huh.NewInput().
				Key("move_step").
				Title("Move Step").
				Description("Distance per arrow press in move mode").
				Validate(intBetween(1, 1<<10)).
				Value(&g.fMoveStep),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

func intBetween(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (g *GeneralTab) applyForm() {
	cfg := g.cfg
	atoi := func(s string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
			*dst = v
		}
	}

	if g.fHost != "" {
		cfg.Display.Host = g.fHost
	}
	atoi(g.fTickRate, &cfg.Display.TickRate)
	atoi(g.fWidth, &cfg.Display.Width)
	atoi(g.fHeight, &cfg.Display.Height)
	atoi(g.fBorderWidth, &cfg.Frame.BorderWidth)
	atoi(g.fMinWidth, &cfg.Frame.MinWidth)
	atoi(g.fMinHeight, &cfg.Frame.MinHeight)
	if g.fDragThreshold != "" {
		cfg.Input.DragThreshold = config.DragThreshold(g.fDragThreshold)
	}
	cfg.Input.FocusFollowsPointer = g.fFocusFollowsPointer
	cfg.Input.EscapeClearsModal = g.fEscapeClearsModal
	if v, err := strconv.Atoi(strings.TrimSpace(g.fMoveStep)); err == nil && v > 0 {
		cfg.Input.MoveStep = v
	}
	atoi(g.fGapSize, &cfg.Tiling.GapSize)
	if g.fDefaultLayout != "" {
		cfg.Tiling.DefaultLayout = g.fDefaultLayout
	}
	if g.fLogLevel != "" {
		cfg.LogLevel = g.fLogLevel
	}
}

// View implements tea.Model.
func (g GeneralTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g GeneralTab) viewDisplay() string {
	cfg := g.cfg

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(24).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	size := func(v int) string {
		if v == 0 {
			return "(from font)"
		}
		return strconv.Itoa(v)
	}

	lines := []string{
		"",
		row("Host", cfg.Display.Host),
		row("Tick Rate", strconv.Itoa(cfg.Display.TickRate)),
		row("Window Size", fmt.Sprintf("%d×%d", cfg.Display.Width, cfg.Display.Height)),
		row("Log Level", cfg.LogLevel),
		"",
		row("Border Width", strconv.Itoa(cfg.Frame.BorderWidth)),
		row("Minimum Frame Size", size(cfg.Frame.MinWidth)+" × "+size(cfg.Frame.MinHeight)),
		row("Gap Size", strconv.Itoa(cfg.Tiling.GapSize)),
		row("Default Layout", cfg.Tiling.DefaultLayout),
		"",
		row("Drag Threshold", string(cfg.Input.DragThreshold)),
		row("Focus Follows Pointer", strconv.FormatBool(cfg.Input.FocusFollowsPointer)),
		row("Escape Clears Modal", strconv.FormatBool(cfg.Input.EscapeClearsModal)),
		row("Move Step", strconv.Itoa(cfg.Input.MoveStep)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	contentStyle := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return contentStyle.Render(strings.Join(lines, "\n"))
}

func (g GeneralTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing General Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	style := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return style.Render(header + "\n\n" + g.form.View())
}
