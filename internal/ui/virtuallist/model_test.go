package virtuallist

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func numbered(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func newTestModel(t *testing.T, count int, cfg Config) (Model[int], *[]int) {
	t.Helper()
	var rendered []int
	m, err := New(numbered(count), func(item, index int, selected bool) string {
		rendered = append(rendered, index)
		prefix := "  "
		if selected {
			prefix = "> "
		}
		return fmt.Sprintf("%sItem %d", prefix, item)
	}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, &rendered
}

func TestModelRendersOnlyVisibleRange(t *testing.T) {
	m, rendered := newTestModel(t, 1000, Config{ItemHeight: 1, ViewportHeight: 4, Overscan: DefaultOverscan})

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "> Item 0" || lines[3] != "  Item 3" {
		t.Errorf("unexpected view:\n%s", view)
	}
	// 4 visible + 2*3 overscan, clipped at the top.
	if len(*rendered) != 11 {
		t.Errorf("rendered %d items, want 11", len(*rendered))
	}
}

func TestModelKeyNavigationKeepsCursorVisible(t *testing.T) {
	m, _ := newTestModel(t, 50, Config{ItemHeight: 1, ViewportHeight: 5, Overscan: 1})

	for i := 0; i < 7; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor() != 7 {
		t.Fatalf("Cursor() = %d, want 7", m.Cursor())
	}
	if m.ScrollOffset() != 3 {
		t.Errorf("ScrollOffset() = %d, want 3", m.ScrollOffset())
	}
	lines := strings.Split(m.View(), "\n")
	if lines[4] != "> Item 7" {
		t.Errorf("last line = %q, want selected item 7", lines[4])
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if m.Cursor() != 49 || m.ScrollOffset() != 45 {
		t.Errorf("after end: cursor=%d scroll=%d, want 49/45", m.Cursor(), m.ScrollOffset())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyHome})
	if m.Cursor() != 0 || m.ScrollOffset() != 0 {
		t.Errorf("after home: cursor=%d scroll=%d, want 0/0", m.Cursor(), m.ScrollOffset())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if m.Cursor() != 5 {
		t.Errorf("after pgdown: cursor=%d, want 5", m.Cursor())
	}
}

func TestModelMouseWheelScrolls(t *testing.T) {
	m, _ := newTestModel(t, 20, Config{ItemHeight: 1, ViewportHeight: 5, Overscan: 0})

	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.ScrollOffset() != wheelStep {
		t.Errorf("ScrollOffset() = %d, want %d", m.ScrollOffset(), wheelStep)
	}

	for i := 0; i < 10; i++ {
		m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	}
	if m.ScrollOffset() != 15 {
		t.Errorf("ScrollOffset() = %d, want clamp at 15", m.ScrollOffset())
	}

	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.ScrollOffset() != 15-wheelStep {
		t.Errorf("ScrollOffset() = %d, want %d", m.ScrollOffset(), 15-wheelStep)
	}
}

func TestModelMultiRowItemsClipToViewport(t *testing.T) {
	m, err := New([]string{"a", "b", "c", "d"}, func(item string, index int, selected bool) string {
		return item + "1\n" + item + "2\n" + item + "3"
	}, Config{ItemHeight: 2, ViewportHeight: 3, Overscan: 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Scroll one row into the first item.
	m.ScrollTo(1)
	got := m.View()
	want := "a2\nb1\nb2"
	if got != want {
		t.Errorf("View() = %q, want %q", got, want)
	}
}

func TestModelSetSizeAndItems(t *testing.T) {
	m, _ := newTestModel(t, 100, Config{ItemHeight: 1, ViewportHeight: 5, Overscan: 0})
	m.Select(60)

	m.SetSize(10, 0)
	if m.Height() != 5 {
		t.Errorf("Height() after invalid resize = %d, want 5", m.Height())
	}

	m.SetSize(4, 10)
	if m.Height() != 10 {
		t.Errorf("Height() = %d, want 10", m.Height())
	}
	for _, line := range strings.Split(m.View(), "\n") {
		if len(line) > 4 {
			t.Errorf("line %q wider than 4 columns", line)
		}
	}

	m.SetItems(numbered(3))
	if m.Cursor() != 2 {
		t.Errorf("Cursor() after shrink = %d, want 2", m.Cursor())
	}
	if m.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() after shrink = %d, want 0", m.ScrollOffset())
	}
	item, ok := m.SelectedItem()
	if !ok || item != 2 {
		t.Errorf("SelectedItem() = %d, %v, want 2, true", item, ok)
	}

	m.SetItems(nil)
	if _, ok := m.SelectedItem(); ok {
		t.Error("expected no selection in empty list")
	}
	if got := m.View(); strings.TrimSpace(got) != "" {
		t.Errorf("empty list view = %q, want blank", got)
	}
}
