package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/config"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"
)

// hintAfterMisses is how many wrong presses reveal the keys.
const hintAfterMisses = 3

// ErrNothingToPractice is returned when no shortcut can be typed in a
// terminal on the chosen platform.
var ErrNothingToPractice = errors.New("no shortcuts to practice")

type practiceKeys struct {
	Skip key.Binding
	Hint key.Binding
	Quit key.Binding
}

func newPracticeKeys() practiceKeys {
	return practiceKeys{
		Skip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "skip"),
		),
		Hint: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hint"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k practiceKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Skip, k.Hint, k.Quit}
}

func (k practiceKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// PracticeResult counts how a practice session went.
type PracticeResult struct {
	Total   int
	Correct int
	Skipped int
	Misses  int
}

// Practice asks for one shortcut at a time and checks the keys pressed
// against it. A press that matches the shortcut always counts as an answer,
// even when it is also bound to skip, hint or quit.
type Practice struct {
	shortcuts []catalog.Shortcut
	platform  catalog.Platform
	current   int
	expected  []string
	misses    int
	hint      bool

	feedback   string
	feedbackOK bool
	result     PracticeResult

	keys   practiceKeys
	help   help.Model
	width  int
	done   bool
	cancel bool
}

// NewPractice builds a session over the shortcuts that a terminal can
// deliver on the configured platform. Combinations with Cmd or Win are left
// out since terminals never see those keys.
func NewPractice(shortcuts []catalog.Shortcut, cfg *config.Config) (Practice, error) {
	if err := cfg.Validate(); err != nil {
		return Practice{}, err
	}
	platform := cfg.PlatformOrCurrent()

	var drill []catalog.Shortcut
	for _, s := range shortcuts {
		combo := s.Combo(platform)
		if combo == "" || catalog.HasMeta(combo, platform) {
			continue
		}
		drill = append(drill, s)
	}
	if len(drill) == 0 {
		return Practice{}, ErrNothingToPractice
	}
	logger.Debug("Practice started",
		logger.Int("shortcuts", len(drill)),
		logger.Int("skipped_meta", len(shortcuts)-len(drill)),
		logger.String("platform", string(platform)))

	return Practice{
		shortcuts: drill,
		platform:  platform,
		expected:  catalog.ParseCombo(drill[0].Combo(platform), platform),
		result:    PracticeResult{Total: len(drill)},
		keys:      newPracticeKeys(),
		help:      help.New(),
	}, nil
}

// PressedKeys turns a terminal key event into key names. An upper-case
// letter implies Shift.
func PressedKeys(msg tea.KeyMsg, p catalog.Platform) []string {
	s := msg.String()
	if strings.HasSuffix(s, " ") {
		s = strings.TrimSuffix(s, " ") + "space"
	}
	keys := catalog.ParseCombo(s, p)
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsUpper(msg.Runes[0]) && len(keys) > 0 {
		keys = slices.Insert(keys, len(keys)-1, "Shift")
	}
	return keys
}

func (m Practice) Init() tea.Cmd {
	return nil
}

func (m Practice) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}

		pressed := PressedKeys(msg, m.platform)
		if catalog.Match(pressed, m.expected, m.platform) {
			m.result.Correct++
			m.feedback, m.feedbackOK = "✓ "+m.combo(), true
			return m.advance()
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Skip):
			m.result.Skipped++
			m.feedback, m.feedbackOK = fmt.Sprintf("Skipped %s: %s", m.shortcuts[m.current].Name, m.combo()), false
			return m.advance()

		case key.Matches(msg, m.keys.Hint):
			m.hint = !m.hint
			return m, nil
		}

		m.misses++
		m.result.Misses++
		m.feedback, m.feedbackOK = "✗ "+strings.Join(pressed, "+"), false
		logger.Debug("Practice miss",
			logger.String("shortcut", m.shortcuts[m.current].ID),
			logger.String("pressed", strings.Join(pressed, "+")))
		return m, nil
	}
	return m, nil
}

func (m Practice) advance() (tea.Model, tea.Cmd) {
	m.current++
	m.misses = 0
	m.hint = false
	if m.current >= len(m.shortcuts) {
		m.done = true
		return m, tea.Quit
	}
	m.expected = catalog.ParseCombo(m.shortcuts[m.current].Combo(m.platform), m.platform)
	return m, nil
}

func (m Practice) combo() string {
	return strings.Join(m.expected, "+")
}

func (m Practice) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("Practice (%s)", m.platform)))
	s.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d", min(m.current+1, len(m.shortcuts)), len(m.shortcuts))))
	s.WriteString("\n\n")

	if m.done {
		s.WriteString(successStyle.Render("Done!"))
		s.WriteString("\n\n")
	} else {
		sc := m.shortcuts[m.current]
		s.WriteString(comboStyle.Render(sc.Name))
		if sc.Category != "" {
			s.WriteString(" " + categoryStyle.Render(sc.Category))
		}
		s.WriteString("\n")
		if sc.Description != "" {
			width := descriptionWidth
			if m.width > 4 {
				width = min(width, m.width-4)
			}
			s.WriteString(itemStyle.Render(wordwrap.String(sc.Description, width)))
			s.WriteString("\n")
		}
		s.WriteString("\n")

		if m.hint || m.misses >= hintAfterMisses {
			s.WriteString(hintStyle.Render("Keys: " + m.combo()))
		} else {
			s.WriteString(helpStyle.Render(fmt.Sprintf("Press the shortcut (%d keys)", len(m.expected))))
		}
		s.WriteString("\n\n")
	}

	switch {
	case m.feedback == "":
		s.WriteString("\n")
	case m.feedbackOK:
		s.WriteString(successStyle.Render(m.feedback) + "\n")
	default:
		s.WriteString(errorStyle.Render(m.feedback) + "\n")
	}

	r := m.result
	s.WriteString(helpStyle.Render(fmt.Sprintf("correct %d • skipped %d • misses %d", r.Correct, r.Skipped, r.Misses)))
	s.WriteString("\n\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

// Result returns the counts so far.
func (m Practice) Result() PracticeResult {
	return m.result
}

// Done reports whether every shortcut was answered or skipped.
func (m Practice) Done() bool {
	return m.done
}

// IsCancelled returns true if the user quit before the end.
func (m Practice) IsCancelled() bool {
	return m.cancel
}
