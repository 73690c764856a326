// Package catalog models keyboard shortcut catalogs and the per-platform key
// combinations a learner is asked to press.
package catalog

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Platform selects which key combination of a shortcut applies.
type Platform string

const (
	Windows Platform = "windows"
	Mac     Platform = "mac"
	Linux   Platform = "linux"
)

// CurrentPlatform maps the running OS to a Platform. Unknown systems use Linux keys.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return Mac
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// ParsePlatform accepts the platform names and a few common aliases.
// An empty string means the current platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return CurrentPlatform(), nil
	case "windows", "win":
		return Windows, nil
	case "mac", "macos", "darwin", "osx":
		return Mac, nil
	case "linux":
		return Linux, nil
	default:
		return "", fmt.Errorf("unknown platform: %s", s)
	}
}

// Keys holds the combination for each platform. Windows is mandatory and is
// the fallback when a platform-specific combination is missing.
type Keys struct {
	Windows string `yaml:"windows" json:"windows"`
	Mac     string `yaml:"mac,omitempty" json:"mac,omitempty"`
	Linux   string `yaml:"linux,omitempty" json:"linux,omitempty"`
}

// For returns the combination for p.
func (k Keys) For(p Platform) string {
	switch p {
	case Mac:
		if k.Mac != "" {
			return k.Mac
		}
	case Linux:
		if k.Linux != "" {
			return k.Linux
		}
	}
	return k.Windows
}

// Shortcut is one learnable key combination.
type Shortcut struct {
	ID          string `yaml:"id" json:"id"`
	App         string `yaml:"-" json:"app,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	Context     string `yaml:"context,omitempty" json:"context,omitempty"`
	Difficulty  string `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	XP          int    `yaml:"xp,omitempty" json:"xp,omitempty"`
	Keys        Keys   `yaml:"keys" json:"keys"`
}

// Combo returns the display form of the shortcut's keys on p.
func (s Shortcut) Combo(p Platform) string {
	return FormatCombo(s.Keys.For(p), p)
}

var displayNames = map[string]string{
	"control":    "Ctrl",
	"ctrl":       "Ctrl",
	"alt":        "Alt",
	"option":     "Alt",
	"opt":        "Alt",
	"⌥":          "Alt",
	"shift":      "Shift",
	"⇧":          "Shift",
	"escape":     "Esc",
	"esc":        "Esc",
	"enter":      "Enter",
	"return":     "Enter",
	"space":      "Space",
	"spacebar":   "Space",
	"tab":        "Tab",
	"backspace":  "Backspace",
	"delete":     "Delete",
	"del":        "Delete",
	"arrowup":    "Up",
	"up":         "Up",
	"arrowdown":  "Down",
	"down":       "Down",
	"arrowleft":  "Left",
	"left":       "Left",
	"arrowright": "Right",
	"right":      "Right",
	"pageup":     "PageUp",
	"pgup":       "PageUp",
	"pagedown":   "PageDown",
	"pgdn":       "PageDown",
	"pgdown":     "PageDown",
	"home":       "Home",
	"end":        "End",
}

var metaNames = map[string]bool{
	"meta": true, "command": true, "cmd": true, "⌘": true,
	"super": true, "win": true, "windows": true,
}

// NormalizeKey returns the display name of a single key. The meta key reads
// Cmd on Mac and Win elsewhere; the first letter is upper-cased.
func NormalizeKey(key string, p Platform) string {
	k := strings.TrimSpace(key)
	lower := strings.ToLower(k)
	if metaNames[lower] {
		if p == Mac {
			return "Cmd"
		}
		return "Win"
	}
	if name, ok := displayNames[lower]; ok {
		return name
	}
	r := []rune(k)
	if len(r) == 0 {
		return ""
	}
	// F-keys and anything else: capitalise the first letter.
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// FormatCombo normalises every key of a "+"-separated combination.
// A literal plus key is written as a trailing "+", e.g. "ctrl++".
func FormatCombo(combo string, p Platform) string {
	return strings.Join(ParseCombo(combo, p), "+")
}

// ParseCombo splits a "+"-separated combination into normalised key names.
func ParseCombo(combo string, p Platform) []string {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return nil
	}

	plus := strings.HasSuffix(combo, "++") || combo == "+"
	if plus {
		combo = strings.TrimSuffix(combo, "+")
	}

	var keys []string
	for _, part := range strings.Split(combo, "+") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		keys = append(keys, NormalizeKey(part, p))
	}
	if plus {
		keys = append(keys, "+")
	}
	return keys
}

// Match reports whether pressed holds exactly the keys of expected, in any
// order and ignoring case.
func Match(pressed, expected []string, p Platform) bool {
	if len(pressed) == 0 || len(pressed) != len(expected) {
		return false
	}
	return slices.Equal(keySet(pressed, p), keySet(expected, p))
}

func keySet(keys []string, p Platform) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(NormalizeKey(k, p))
	}
	slices.Sort(out)
	return out
}

// HasMeta reports whether the combination needs the Cmd or Win key.
func HasMeta(combo string, p Platform) bool {
	for _, k := range ParseCombo(combo, p) {
		if k == "Cmd" || k == "Win" {
			return true
		}
	}
	return false
}
