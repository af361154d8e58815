package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/framewm/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/framewm/config.yaml)")

	if isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: framewm tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Browse and edit the configuration. Changes are written only after")
		fmt.Fprintln(os.Stderr, "confirming the diff shown by Ctrl+S.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  Tab, 1-4  Switch between General, Layouts, Shortcuts and Theme")
		fmt.Fprintln(os.Stderr, "  e, Enter  Edit the selected setting")
		fmt.Fprintln(os.Stderr, "  d         Make the selected layout the default (Layouts)")
		fmt.Fprintln(os.Stderr, "  2/4/6/9   Frame count for the layout preview")
		fmt.Fprintln(os.Stderr, "  Ctrl+S    Review and save changes")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
