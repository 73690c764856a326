package virtuallist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// wheelStep is how many rows one mouse wheel notch scrolls.
const wheelStep = 3

// ItemRenderer renders one item. The result is cut or padded to the
// configured item height.
type ItemRenderer[T any] func(item T, index int, selected bool) string

// Model is a bubbletea component that draws only the rows of items inside
// the current VisibleRange.
type Model[T any] struct {
	KeyMap KeyMap

	items  []T
	render ItemRenderer[T]
	window Window

	scroll int
	cursor int
	width  int
}

// New creates a list model. The geometry is validated here; scrolling and
// resizing afterwards never fail.
func New[T any](items []T, render ItemRenderer[T], cfg Config) (Model[T], error) {
	w, err := NewWindow(cfg)
	if err != nil {
		return Model[T]{}, err
	}
	return Model[T]{
		KeyMap: DefaultKeyMap(),
		items:  items,
		render: render,
		window: *w,
	}, nil
}

// SetItems replaces the backing collection, keeping the scroll position
// and cursor where they are still valid.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.cursor = min(m.cursor, max(0, len(items)-1))
	m.scroll = m.window.ClampScroll(m.scroll, len(items))
}

// Items returns the backing collection.
func (m Model[T]) Items() []T {
	return m.items
}

// SetSize updates the render width and viewport height. Non-positive heights
// are ignored; the previous height is kept.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	if err := m.window.Resize(height); err != nil {
		return
	}
	m.scroll = m.window.ClampScroll(m.window.ScrollOffsetFor(m.cursor, m.scroll), len(m.items))
}

// Height returns the viewport height.
func (m Model[T]) Height() int {
	return m.window.Config().ViewportHeight
}

// Cursor returns the selected index.
func (m Model[T]) Cursor() int {
	return m.cursor
}

// SelectedItem returns the item under the cursor.
func (m Model[T]) SelectedItem() (T, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor], true
}

// ScrollOffset returns the current scroll position in rows.
func (m Model[T]) ScrollOffset() int {
	return m.scroll
}

// ScrollTo moves the viewport, clamped to the content.
func (m *Model[T]) ScrollTo(offset int) {
	m.scroll = m.window.ClampScroll(offset, len(m.items))
}

// VisibleRange returns the window the next View call will render.
func (m Model[T]) VisibleRange() VisibleRange {
	return m.window.Range(m.scroll, len(m.items))
}

// Select moves the cursor to index and scrolls it into view.
func (m *Model[T]) Select(index int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(0, index), len(m.items)-1)
	m.scroll = m.window.ClampScroll(m.window.ScrollOffsetFor(m.cursor, m.scroll), len(m.items))
}

func (m Model[T]) pageSize() int {
	cfg := m.window.Config()
	return max(1, cfg.ViewportHeight/cfg.ItemHeight)
}

func (m Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and mouse wheel scrolling.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.KeyMap.Up):
			m.Select(m.cursor - 1)
		case key.Matches(msg, m.KeyMap.Down):
			m.Select(m.cursor + 1)
		case key.Matches(msg, m.KeyMap.PageUp):
			m.Select(m.cursor - m.pageSize())
		case key.Matches(msg, m.KeyMap.PageDown):
			m.Select(m.cursor + m.pageSize())
		case key.Matches(msg, m.KeyMap.Top):
			m.Select(0)
		case key.Matches(msg, m.KeyMap.Bottom):
			m.Select(len(m.items) - 1)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.ScrollTo(m.scroll - wheelStep)
		case tea.MouseButtonWheelDown:
			m.ScrollTo(m.scroll + wheelStep)
		}
	}

	return m, nil
}

// View renders the visible slice, clipped to exactly the viewport height.
func (m Model[T]) View() string {
	cfg := m.window.Config()
	r := m.VisibleRange()

	// rows[0] sits at virtual row r.OffsetY.
	rows := make([]string, 0, r.Len()*cfg.ItemHeight)
	for i, item := range Slice(m.items, r) {
		index := r.StartIndex + i
		rows = append(rows, fitRows(m.render(item, index, index == m.cursor), cfg.ItemHeight)...)
	}

	skip := min(max(0, m.scroll-r.OffsetY), len(rows))
	rows = rows[skip:]
	if len(rows) > cfg.ViewportHeight {
		rows = rows[:cfg.ViewportHeight]
	}

	var b strings.Builder
	for i := 0; i < cfg.ViewportHeight; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		if i < len(rows) {
			b.WriteString(m.clip(rows[i]))
		}
	}
	return b.String()
}

func (m Model[T]) clip(line string) string {
	if m.width <= 0 {
		return line
	}
	return truncate.String(line, uint(m.width))
}

func fitRows(block string, height int) []string {
	rows := strings.Split(block, "\n")
	if len(rows) > height {
		return rows[:height]
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return rows
}
