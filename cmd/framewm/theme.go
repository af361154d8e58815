package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/theme"
)

func runTheme(args []string) int {
	return runThemeTo(os.Stdout, os.Stderr, args)
}

func runThemeTo(stdout, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: framewm theme [--path PATH] [--defaults]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Print every theme color as a swatch, followed by a sample frame.")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/framewm/config.yaml)")
	defaults := fs.Bool("defaults", false, "Show the built-in theme")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	th := theme.Default()
	if !*defaults {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if th, err = res.Config.BuildTheme(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	fmt.Fprintln(stdout, renderSwatches(th))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, renderSampleFrame(th))
	return 0
}

func hex(th *theme.Theme, name string) lipgloss.Color {
	return lipgloss.Color(th.Color(name).String())
}

func renderSwatches(th *theme.Theme) string {
	names := th.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	nameStyle := lipgloss.NewStyle().Width(width + 2)
	dim := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		swatch := lipgloss.NewStyle().Background(hex(th, name)).Render("      ")
		line := fmt.Sprintf("%s  %s%s", swatch, nameStyle.Render(name), th.Color(name))
		if a := th.Alpha(name); a < 1 {
			line += dim.Render(fmt.Sprintf("  alpha %.2f", a))
		}
		b.WriteString(line)
	}
	return b.String()
}

func renderSampleFrame(th *theme.Theme) string {
	const inner = 34

	title := lipgloss.NewStyle().
		Width(inner).
		Background(hex(th, theme.TitleFocused)).
		Foreground(hex(th, theme.TitleText)).
		Render(" Editor" + strings.Repeat(" ", inner-10) + " x ")

	button := lipgloss.NewStyle().
		Background(hex(th, theme.ButtonBackground)).
		Foreground(hex(th, theme.ButtonText)).
		Padding(0, 1).
		Render("Save")
	tab := lipgloss.NewStyle().
		Background(hex(th, theme.TabActive)).
		Foreground(hex(th, theme.TabText)).
		Padding(0, 1).
		Render("About")
	body := lipgloss.NewStyle().
		Width(inner).
		Height(4).
		Background(hex(th, theme.FrameBackground)).
		Foreground(hex(th, theme.WidgetText)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, button, " ", tab), "", " Hello from framewm"))

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(hex(th, theme.FrameBorderFocused)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
