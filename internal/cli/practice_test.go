package cli

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/config"
)

func practiceShortcuts() []catalog.Shortcut {
	return []catalog.Shortcut{
		{ID: "open", Name: "Quick Open", Category: "navigation", Keys: catalog.Keys{Windows: "Ctrl+P"}},
		{ID: "lock", Name: "Lock Screen", Keys: catalog.Keys{Windows: "Win+L"}},
		{ID: "format", Name: "Format Document", Description: "Reformat the whole file", Keys: catalog.Keys{Windows: "Alt+Shift+F"}},
		{ID: "close", Name: "Close Dialog", Keys: catalog.Keys{Windows: "Esc"}},
	}
}

func newTestPractice(t *testing.T) Practice {
	t.Helper()
	cfg := config.Default()
	cfg.Platform = "windows"
	m, err := NewPractice(practiceShortcuts(), cfg)
	if err != nil {
		t.Fatalf("NewPractice: %v", err)
	}
	return m
}

func press(m Practice, msg tea.KeyMsg) (Practice, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Practice), cmd
}

func TestPressedKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []string
	}{
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlC}, []string{"Ctrl", "C"}},
		{"lower rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, []string{"A"}},
		{"upper rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'A'}}, []string{"Shift", "A"}},
		{"alt upper rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'F'}, Alt: true}, []string{"Alt", "Shift", "F"}},
		{"plus rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}, []string{"+"}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, []string{"Shift", "Tab"}},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, []string{"F5"}},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, []string{"Space"}},
		{"alt space", tea.KeyMsg{Type: tea.KeySpace, Alt: true}, []string{"Alt", "Space"}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, []string{"PageDown"}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, []string{"Esc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PressedKeys(tt.msg, catalog.Windows); !slices.Equal(got, tt.want) {
				t.Errorf("PressedKeys(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestPracticeSkipsMetaShortcuts(t *testing.T) {
	m := newTestPractice(t)
	if m.Result().Total != 3 {
		t.Fatalf("Total = %d, want 3", m.Result().Total)
	}
	for _, s := range m.shortcuts {
		if s.ID == "lock" {
			t.Error("Win+L cannot be typed in a terminal and should be left out")
		}
	}

	cfg := config.Default()
	cfg.Platform = "windows"
	_, err := NewPractice(practiceShortcuts()[1:2], cfg)
	if !errors.Is(err, ErrNothingToPractice) {
		t.Errorf("NewPractice(Win+L only) error = %v, want ErrNothingToPractice", err)
	}
}

func TestPracticeSession(t *testing.T) {
	m := newTestPractice(t)
	if !strings.Contains(m.View(), "Quick Open") {
		t.Fatalf("first prompt missing:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if r := m.Result(); r.Misses != 1 || r.Correct != 0 {
		t.Errorf("after a wrong press: %+v", r)
	}
	if !strings.Contains(m.View(), "Ctrl+O") {
		t.Errorf("wrong press not reported:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.Result().Correct != 1 || m.current != 1 {
		t.Fatalf("Ctrl+P should answer Quick Open: %+v", m.Result())
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Result().Skipped != 1 || m.shortcuts[m.current].ID != "close" {
		t.Fatalf("tab should skip Format Document: %+v", m.Result())
	}

	// esc is the answer here, so it must not quit
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsCancelled() || !m.Done() || cmd == nil {
		t.Fatalf("esc should answer Close Dialog and finish, cancelled=%v done=%v", m.IsCancelled(), m.Done())
	}
	want := PracticeResult{Total: 3, Correct: 2, Skipped: 1, Misses: 1}
	if m.Result() != want {
		t.Errorf("Result() = %+v, want %+v", m.Result(), want)
	}
}

func TestPracticeAnswerIsOrderInsensitive(t *testing.T) {
	m := newTestPractice(t)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlP})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'F'}, Alt: true})
	if m.Result().Correct != 2 {
		t.Errorf("alt+F should answer Alt+Shift+F: %+v", m.Result())
	}
}

func TestPracticeHint(t *testing.T) {
	m := newTestPractice(t)
	if strings.Contains(m.View(), "Keys: Ctrl+P") {
		t.Fatal("keys shown before any hint")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !strings.Contains(m.View(), "Keys: Ctrl+P") {
		t.Errorf("? should reveal the keys:\n%s", m.View())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	for range hintAfterMisses {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	}
	if !strings.Contains(m.View(), "Keys: Ctrl+P") {
		t.Errorf("keys should show after %d misses:\n%s", hintAfterMisses, m.View())
	}
}

func TestPracticeQuit(t *testing.T) {
	m, cmd := press(newTestPractice(t), tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !m.IsCancelled() || m.Done() {
		t.Error("esc should quit when it is not the answer")
	}
}
