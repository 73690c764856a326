package catalog

import "strings"

// Query narrows a shortcut list. Zero fields match everything.
type Query struct {
	Text     string
	App      string
	Category string
	Platform Platform
}

// Filter returns the shortcuts matching q in their original order. Every
// whitespace-separated term of q.Text must appear, case-insensitively, in the
// name, description, category, context or the platform's key combination.
func Filter(shortcuts []Shortcut, q Query) []Shortcut {
	terms := strings.Fields(strings.ToLower(q.Text))
	out := make([]Shortcut, 0, len(shortcuts))
	for _, s := range shortcuts {
		if q.App != "" && !strings.EqualFold(s.App, q.App) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(s.Category, q.Category) {
			continue
		}
		if matchesAll(s, terms, q.Platform) {
			out = append(out, s)
		}
	}
	return out
}

func matchesAll(s Shortcut, terms []string, p Platform) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		s.Name, s.Description, s.Category, s.Context, s.Combo(p),
	}, " "))
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// Categories lists the distinct categories in first-seen order.
func Categories(shortcuts []Shortcut) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range shortcuts {
		if s.Category == "" || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, s.Category)
	}
	return out
}
