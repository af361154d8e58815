package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/framewm/internal/config"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
}

func TestFormatEntrySortsDetails(t *testing.T) {
	got := formatEntry(fixedClock(), ActionFrameAdd, 7, map[string]any{
		"title": "Editor",
		"h":     30,
		"w":     40,
	})
	want := "2026-03-04 05:06:07 [FRAME-ADD] frame=7 h=30 title=\"Editor\" w=40\n"
	if got != want {
		t.Fatalf("formatEntry = %q, want %q", got, want)
	}

	got = formatEntry(fixedClock(), ActionTile, 0, nil)
	if got != "2026-03-04 05:06:07 [TILE]\n" {
		t.Fatalf("entry without frame = %q", got)
	}
}

func TestLogFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "actions.log")
	j, err := New(Config{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	j.Now = fixedClock

	j.Log(ActionFocus, 1, nil)
	j.Log(ActionModal, 1, map[string]any{"set": true})
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "[FOCUS]") {
		t.Fatalf("debug entry written at info level:\n%s", text)
	}
	if !strings.Contains(text, "[MODAL] frame=1 set=true") {
		t.Fatalf("modal entry missing:\n%s", text)
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	j, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer j.Close()
	j.maxBytes = 10

	for i := 0; i < 4; i++ {
		j.Log(ActionFrameAdd, uint64(i+1), nil)
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("rotation kept more than MaxFiles files")
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "frame=4") {
		t.Errorf("current file should hold the newest entry, got %q", data)
	}
}

func TestDisabledAndNilJournal(t *testing.T) {
	var nilJournal *Journal
	nilJournal.Log(ActionTile, 0, nil)
	if err := nilJournal.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "actions.log")
	j, err := New(Config{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	j.Log(ActionTile, 0, nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("disabled journal created a file")
	}
}

func TestConfigFrom(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Logging.Enabled = true
	cfg.Logging.Level = "debug"

	got := ConfigFrom(cfg)
	if !got.Enabled || got.Level != LevelDebug || got.MaxFiles != 3 || got.MaxSizeMB != 10 {
		t.Fatalf("ConfigFrom = %+v", got)
	}
	if !strings.HasSuffix(got.FilePath, filepath.Join("framewm", "actions.log")) {
		t.Fatalf("file path = %q", got.FilePath)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
