package event

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Shortcut is a parsed key sequence such as "Mod1-Tab" or "Control-Shift-n".
type Shortcut struct {
	Key  Key
	Rune rune
	Mods Mod
}

// ParseShortcut parses the dash separated sequence format used in config
// files. Modifier names follow X11 conventions (Mod1 = Alt, Mod4 = Super).
func ParseShortcut(seq string) (Shortcut, error) {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return Shortcut{}, fmt.Errorf("empty key sequence")
	}
	// A trailing dash is the minus key itself ("Control--").
	parts := strings.Split(seq, "-")
	if strings.HasSuffix(seq, "--") {
		parts = append(strings.Split(strings.TrimSuffix(seq, "--"), "-"), "-")
	}

	var sc Shortcut
	for i, part := range parts {
		last := i == len(parts)-1
		if !last {
			mod, ok := modByName(part)
			if !ok {
				return Shortcut{}, fmt.Errorf("unknown modifier %q in %q", part, seq)
			}
			sc.Mods |= mod
			continue
		}
		if k, ok := KeyByName(part); ok {
			sc.Key = k
			break
		}
		if utf8.RuneCountInString(part) != 1 {
			return Shortcut{}, fmt.Errorf("unknown key %q in %q", part, seq)
		}
		r, _ := utf8.DecodeRuneInString(part)
		sc.Key = KeyRune
		sc.Rune = r
	}
	return sc, nil
}

func modByName(name string) (Mod, bool) {
	switch strings.ToLower(name) {
	case "shift":
		return ModShift, true
	case "control", "ctrl":
		return ModCtrl, true
	case "mod1", "alt":
		return ModAlt, true
	case "mod4", "super":
		return ModSuper, true
	}
	return 0, false
}

// Matches reports whether a key-down event triggers the shortcut. Letter
// matching ignores case so "Mod1-n" fires with or without Shift held in the
// rune.
func (s Shortcut) Matches(e KeyEvent) bool {
	if !e.Down || e.Mods != s.Mods || e.Key != s.Key {
		return false
	}
	if s.Key != KeyRune {
		return true
	}
	return strings.EqualFold(string(e.Rune), string(s.Rune))
}

func (s Shortcut) String() string {
	var parts []string
	if s.Mods&ModCtrl != 0 {
		parts = append(parts, "Control")
	}
	if s.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if s.Mods&ModAlt != 0 {
		parts = append(parts, "Mod1")
	}
	if s.Mods&ModSuper != 0 {
		parts = append(parts, "Mod4")
	}
	if s.Key == KeyRune {
		parts = append(parts, string(s.Rune))
	} else {
		parts = append(parts, s.Key.String())
	}
	return strings.Join(parts, "-")
}
