package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/framewm/internal/config"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := newModelWithConfig(path, config.DefaultConfig())
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t)
	tests := []struct {
		name string
		msg  tea.Msg
		want Tab
	}{
		{"tab advances", tea.KeyMsg{Type: tea.KeyTab}, TabLayouts},
		{"digit jumps", keyRunes("3"), TabShortcuts},
		{"shift tab goes back", tea.KeyMsg{Type: tea.KeyShiftTab}, TabLayouts},
		{"2 on layouts is a frame count", keyRunes("2"), TabLayouts},
		{"1 jumps home", keyRunes("1"), TabGeneral},
		{"shift tab wraps", tea.KeyMsg{Type: tea.KeyShiftTab}, TabTheme},
	}
	for _, tt := range tests {
		m = send(t, m, tt.msg)
		if m.activeTab != tt.want {
			t.Fatalf("%s: active tab = %v, want %v", tt.name, m.activeTab, tt.want)
		}
	}
	if m.layoutsTab.tileCount != 2 {
		t.Fatalf("tile count = %d, want 2", m.layoutsTab.tileCount)
	}
}

func TestLayoutsSetDefault(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, keyRunes("2"), keyRunes("d"))
	if got := m.cfg.Tiling.DefaultLayout; got != "columns" {
		t.Fatalf("default layout = %q, want columns", got)
	}
	if !m.dirty() {
		t.Fatal("changing the default layout should mark the config modified")
	}
	if !strings.Contains(m.View(), "default set: columns") {
		t.Fatal("status line should confirm the new default")
	}
}

func TestShortcutCommit(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewShortcutsTab(cfg)
	s.action = "close_frame"

	if err := s.commit("Mod1-Tab"); err == nil || !strings.Contains(err.Error(), "cycle_focus") {
		t.Fatalf("duplicate binding accepted: %v", err)
	}
	if err := s.commit("Hyper-q"); err == nil {
		t.Fatal("unknown modifier accepted")
	}
	if err := s.commit("Ctrl-q"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if cfg.Shortcuts.CloseFrame != "Ctrl-q" {
		t.Fatalf("CloseFrame = %q", cfg.Shortcuts.CloseFrame)
	}
	if err := s.commit(""); err != nil || cfg.Shortcuts.CloseFrame != "" {
		t.Fatalf("empty sequence should disable, got %q, %v", cfg.Shortcuts.CloseFrame, err)
	}
}

func TestShortcutEditFlow(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, keyRunes("3"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.shortcutsTab.editing || !m.capturing() {
		t.Fatal("enter should start editing the selected shortcut")
	}
	// Digits go to the input while editing instead of switching tabs.
	m = send(t, m, keyRunes("1"))
	if m.activeTab != TabShortcuts {
		t.Fatalf("active tab = %v while editing", m.activeTab)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.shortcutsTab.editing {
		t.Fatal("esc should cancel editing")
	}
	if m.cfg.Shortcuts.CycleFocus != "Mod1-Tab" {
		t.Fatalf("cancelled edit changed the binding to %q", m.cfg.Shortcuts.CycleFocus)
	}
}

func TestThemeSetColor(t *testing.T) {
	cfg := config.DefaultConfig()
	th := NewThemeTab(cfg)
	name := th.selected()

	if err := th.setColor(name, "not-a-color"); err == nil {
		t.Fatal("invalid color accepted")
	}
	if err := th.setColor(name, "#ABCDEF"); err != nil {
		t.Fatalf("setColor: %v", err)
	}
	if hex, custom := th.effective(name); hex != "#abcdef" || !custom {
		t.Fatalf("effective = %q, %v", hex, custom)
	}
	if err := th.setColor(name, ""); err == nil {
		t.Fatal("empty color accepted")
	}
}

func TestThemeDefaultValueDropsOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	th := NewThemeTab(cfg)
	name := th.selected()
	builtin, _ := th.effective(name)

	if err := th.setColor(name, "#000001"); err != nil {
		t.Fatal(err)
	}
	if err := th.setColor(name, builtin); err != nil {
		t.Fatal(err)
	}
	if _, custom := th.effective(name); custom {
		t.Fatal("setting the built-in value should remove the override")
	}
}

func TestSaveOverlay(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.saveOverlay.phase != saveResult || m.saveOverlay.err == nil {
		t.Fatal("saving an unchanged config should report no changes")
	}
	m = send(t, m, keyRunes("x"))
	if m.saveOverlay.Active() {
		t.Fatal("any key should dismiss the result")
	}

	m.cfg.Tiling.GapSize = 7
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.saveOverlay.phase != savePreview {
		t.Fatalf("phase = %v, want preview", m.saveOverlay.phase)
	}
	if !strings.Contains(m.View(), "tiling.gap_size: 1 -> 7") {
		t.Fatal("preview should show the changed line")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.saveOverlay.SaveSucceeded() {
		t.Fatalf("save failed: %v", m.saveOverlay.err)
	}
	if m.dirty() {
		t.Fatal("config should be clean after saving")
	}

	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Tiling.GapSize != 7 {
		t.Fatalf("saved gap_size = %d", res.Config.Tiling.GapSize)
	}
}

func TestDiffConfigs(t *testing.T) {
	a := config.DefaultConfig()
	b := cloneConfig(a)
	if changes := diffConfigs(a, b); changes != nil {
		t.Fatalf("identical configs differ: %v", changes)
	}

	b.Display.TickRate = 60
	b.Theme.Colors = map[string]string{"desktop": "#000000"}
	b.Shortcuts.MoveMode = ""
	want := []change{
		{path: "display.tick_rate", before: "30", after: "60"},
		{path: "shortcuts.move_mode", before: "Mod1-r", after: `""`},
		{path: "theme.colors.desktop", before: "", after: "#000000"},
	}
	got := diffConfigs(a, b)
	if len(got) != len(want) {
		t.Fatalf("changes = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRenderASCIIPreview(t *testing.T) {
	cfg := config.DefaultConfig()
	layout, err := cfg.GetLayout("columns")
	if err != nil {
		t.Fatal(err)
	}
	lines := renderASCIIPreview(layout, 3, 40, 10)
	if len(lines) != 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[9], "╝") {
		t.Fatalf("missing outer border:\n%s", strings.Join(lines, "\n"))
	}
	joined := strings.Join(lines, "\n")
	for _, n := range []string{"1", "2", "3"} {
		if !strings.Contains(joined, n) {
			t.Fatalf("frame %s not labelled:\n%s", n, joined)
		}
	}
	if got := renderASCIIPreview(layout, 3, 2, 2); len(got) != 2 {
		t.Fatalf("tiny canvas = %d lines", len(got))
	}
}

func TestSummarizeLayout(t *testing.T) {
	cfg := config.DefaultConfig()
	layout, _ := cfg.GetLayout("grid")
	got := summarizeLayout(layout, 4, 0, LayoutsTab{cfg: cfg}.viewport())
	if got != "4 frames • 512×384 each" {
		t.Fatalf("summary = %q", got)
	}
}
