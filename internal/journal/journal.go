// Package journal writes a rotating, line-oriented log of window manager
// actions (frames added and removed, focus and modal changes, tiling).
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/framewm/internal/config"
)

// Level defines the journal verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ActionType is the tag written in brackets on each entry.
type ActionType string

const (
	ActionFrameAdd    ActionType = "FRAME-ADD"
	ActionFrameRemove ActionType = "FRAME-REMOVE"
	ActionFocus       ActionType = "FOCUS"
	ActionModal       ActionType = "MODAL"
	ActionAction      ActionType = "ACTION"
	ActionTile        ActionType = "TILE"
	ActionMove        ActionType = "MOVE"
	ActionLayout      ActionType = "LAYOUT"
)

func actionLevel(action ActionType) Level {
	switch action {
	case ActionFocus, ActionAction:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Config holds the journal settings.
type Config struct {
	Enabled   bool
	Level     Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// ConfigFrom converts the logging section of the window manager config.
func ConfigFrom(cfg *config.Config) Config {
	lc := cfg.GetLoggingConfig()
	return Config{
		Enabled:   lc.Enabled,
		Level:     ParseLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	}
}

// Journal appends entries to a file, rotating it once it grows past
// MaxSizeMB. A nil or disabled Journal discards everything.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	maxBytes    int64
	currentSize int64

	// Now stamps entries.
	Now func() time.Time
}

// New opens the journal file, creating its directory as needed.
func New(cfg Config) (*Journal, error) {
	j := &Journal{
		config:   cfg,
		maxBytes: int64(cfg.MaxSizeMB) * 1024 * 1024,
		Now:      time.Now,
	}
	if !cfg.Enabled {
		return j, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}

	j.file = f
	j.currentSize = stat.Size()
	return j, nil
}

// Log records one action. frame is omitted from the entry when zero.
func (j *Journal) Log(action ActionType, frame uint64, details map[string]any) {
	if j == nil || !j.config.Enabled {
		return
	}
	if actionLevel(action) < j.config.Level {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}
	if j.maxBytes > 0 && j.currentSize >= j.maxBytes {
		if err := j.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	n, err := j.file.WriteString(formatEntry(j.Now(), action, frame, details))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

func formatEntry(ts time.Time, action ActionType, frame uint64, details map[string]any) string {
	var sb strings.Builder
	sb.WriteString(ts.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if frame != 0 {
		fmt.Fprintf(&sb, " frame=%d", frame)
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := details[k].(type) {
		case string:
			fmt.Fprintf(&sb, " %s=%q", k, val)
		default:
			fmt.Fprintf(&sb, " %s=%v", k, val)
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts actions.log -> actions.log.1 -> actions.log.2 ..., keeping at
// most MaxFiles rotated files.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	base := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", base, i)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", base, i+1))
	}

	if err := os.Rename(base, base+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate journal: %w", err)
	}

	f, err := os.OpenFile(base, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}
	j.file = f
	j.currentSize = 0
	return nil
}

// ParseLevel converts a config level string, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
