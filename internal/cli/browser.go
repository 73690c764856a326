package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/config"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"
	"github.com/keydojo/keydojo-cli/internal/memo"
	"github.com/keydojo/keydojo-cli/internal/ui/virtuallist"
)

const (
	nameWidth        = 36
	descriptionWidth = 72
	// initialListHeight is used until the first WindowSizeMsg arrives.
	initialListHeight = 10
)

type browserKeys struct {
	list     virtuallist.KeyMap
	Select   key.Binding
	Category key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// newBrowserKeys leaves printable keys to the search box.
func newBrowserKeys() browserKeys {
	return browserKeys{
		list: virtuallist.KeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "ctrl+p"),
				key.WithHelp("↑", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "ctrl+n"),
				key.WithHelp("↓", "down"),
			),
			PageUp: key.NewBinding(
				key.WithKeys("pgup", "ctrl+u"),
				key.WithHelp("pgup", "page up"),
			),
			PageDown: key.NewBinding(
				key.WithKeys("pgdown", "ctrl+d"),
				key.WithHelp("pgdn", "page down"),
			),
			Top: key.NewBinding(
				key.WithKeys("home"),
				key.WithHelp("home", "top"),
			),
			Bottom: key.NewBinding(
				key.WithKeys("end"),
				key.WithHelp("end", "bottom"),
			),
		},
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Category: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "category"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.list.Up, k.list.Down, k.Category, k.Select, k.Help, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(),
		[]key.Binding{k.Category, k.Select},
		[]key.Binding{k.Help, k.Quit},
	)
}

func (k browserKeys) isListKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.list.Up, k.list.Down, k.list.PageUp, k.list.PageDown, k.list.Top, k.list.Bottom)
}

// shortcutSource is shared by value copies of a Browser so the memoized
// filter always sees the current shortcuts.
type shortcutSource struct {
	items []catalog.Shortcut
}

// Browser is the interactive shortcut browser: a search box over a
// virtualised list whose filtering is memoized per query.
type Browser struct {
	source     *shortcutSource
	filter     *memo.Cache[catalog.Query, []catalog.Shortcut]
	platform   catalog.Platform
	categories []string
	category   int // 0 means all categories

	search textinput.Model
	list   virtuallist.Model[catalog.Shortcut]
	keys   browserKeys
	help   help.Model

	width    int
	height   int
	selected *catalog.Shortcut
	cancel   bool
	err      error
}

// NewBrowser builds a browser over shortcuts using the list and cache
// settings of cfg.
func NewBrowser(shortcuts []catalog.Shortcut, cfg *config.Config) (Browser, error) {
	if err := cfg.Validate(); err != nil {
		return Browser{}, err
	}

	src := &shortcutSource{items: shortcuts}
	filter, err := memo.New(func(q catalog.Query) ([]catalog.Shortcut, error) {
		return catalog.Filter(src.items, q), nil
	}, memo.Options[catalog.Query, []catalog.Shortcut]{
		MaxCacheSize: cfg.MemoCacheSize,
		IsEqual:      sameShortcuts,
		Debug:        cfg.Debug,
	})
	if err != nil {
		return Browser{}, fmt.Errorf("failed to create filter cache: %w", err)
	}

	platform := cfg.PlatformOrCurrent()
	list, err := virtuallist.New(nil, renderShortcut(platform, cfg.ItemHeight), cfg.ListConfig(initialListHeight))
	if err != nil {
		return Browser{}, err
	}
	keys := newBrowserKeys()
	list.KeyMap = keys.list

	search := textinput.New()
	search.Placeholder = "Search shortcuts..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 50
	search.Focus()

	m := Browser{
		source:     src,
		filter:     filter,
		platform:   platform,
		categories: catalog.Categories(shortcuts),
		search:     search,
		list:       list,
		keys:       keys,
		help:       help.New(),
	}
	m.refresh()
	return m, nil
}

// sameShortcuts compares results by identity so a repeated filter result
// keeps the slice the list already holds.
func sameShortcuts(a, b []catalog.Shortcut) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].App != b[i].App || a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// SetShortcuts replaces the browsed shortcuts and drops every cached result.
// The chosen category is kept when the new shortcuts still have it.
func (m *Browser) SetShortcuts(shortcuts []catalog.Shortcut) {
	current := m.Query().Category
	m.source.items = shortcuts
	m.categories = catalog.Categories(shortcuts)
	m.category = 0
	if current != "" {
		if i := slices.Index(m.categories, current); i >= 0 {
			m.category = i + 1
		}
	}
	m.filter.Clear()
	m.refresh()
}

// Query returns the filter built from the search box and category.
func (m Browser) Query() catalog.Query {
	q := catalog.Query{
		Text:     strings.Join(strings.Fields(m.search.Value()), " "),
		Platform: m.platform,
	}
	if m.category > 0 {
		q.Category = m.categories[m.category-1]
	}
	return q
}

func (m *Browser) refresh() {
	items, err := m.filter.Calculate(m.Query())
	if err != nil {
		m.err = err
		logger.Warn("Shortcut filter failed", logger.Err(err))
		return
	}
	m.err = nil
	m.list.SetItems(items)
	m.list.Select(0)
}

func (m *Browser) nextCategory() {
	m.category = (m.category + 1) % (len(m.categories) + 1)
}

func (m Browser) categoryName() string {
	if m.category == 0 {
		return "all"
	}
	return m.categories[m.category-1]
}

func (m Browser) listHeight() int {
	// title, blank, search, blank, status, blank
	chrome := 6 + lipgloss.Height(m.help.View(m.keys))
	return max(1, m.height-chrome)
}

func (m Browser) Init() tea.Cmd {
	return textinput.Blink
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-4)
		m.list.SetSize(msg.Width, m.listHeight())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if s, ok := m.list.SelectedItem(); ok {
				m.selected = &s
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Category):
			m.nextCategory()
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			if m.height > 0 {
				m.list.SetSize(m.width, m.listHeight())
			}
			return m, nil

		case m.keys.isListKey(msg):
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		prev := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != prev {
			m.refresh()
		}
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Browser) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("Shortcuts (%s)", m.platform)))
	s.WriteString("\n\n")
	s.WriteString(m.search.View())
	s.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		s.WriteString(helpStyle.Italic(true).Render("  No shortcuts match"))
		s.WriteString(strings.Repeat("\n", m.list.Height()))
	} else {
		s.WriteString(m.list.View())
		s.WriteString("\n")
	}

	status := fmt.Sprintf("%d/%d shortcuts • category: %s", len(m.list.Items()), len(m.source.items), m.categoryName())
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	} else {
		status = helpStyle.Render(status)
	}
	s.WriteString(status)
	s.WriteString("\n\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

// Selected returns the shortcut chosen with enter.
func (m Browser) Selected() (catalog.Shortcut, bool) {
	if m.selected == nil {
		return catalog.Shortcut{}, false
	}
	return *m.selected, true
}

// IsCancelled returns true if the user quit without selecting.
func (m Browser) IsCancelled() bool {
	return m.cancel
}

// Visible returns the shortcuts matching the current query.
func (m Browser) Visible() []catalog.Shortcut {
	return m.list.Items()
}

// FilterStats reports how often the memoized filter was reused.
func (m Browser) FilterStats() memo.Stats {
	return m.filter.Stats()
}

func renderShortcut(p catalog.Platform, itemHeight int) virtuallist.ItemRenderer[catalog.Shortcut] {
	return func(sc catalog.Shortcut, _ int, selected bool) string {
		style, prefix := itemStyle, "  "
		if selected {
			style, prefix = selectedItemStyle, "❯ "
		}

		name := truncate.StringWithTail(sc.Name, nameWidth, "…")
		line := prefix + style.Render(fmt.Sprintf("%-*s", nameWidth, name)) + " " + comboStyle.Render(sc.Combo(p))
		if sc.Category != "" {
			line += " " + categoryStyle.Render(sc.Category)
		}
		if itemHeight == 1 || sc.Description == "" {
			return line
		}

		var b strings.Builder
		b.WriteString(line)
		for _, l := range strings.Split(wordwrap.String(sc.Description, descriptionWidth), "\n") {
			b.WriteString("\n    ")
			b.WriteString(helpStyle.Render(l))
		}
		return b.String()
	}
}
