package cli

import "github.com/charmbracelet/lipgloss"

// Theme is the shared colour palette.
var Theme = struct {
	Primary       lipgloss.Color
	PrimaryStrong lipgloss.Color
	PrimaryDark   lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSubtle    lipgloss.Color
	BgSelected    lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
}{
	Primary:       lipgloss.Color("#38BDF8"),
	PrimaryStrong: lipgloss.Color("#7DD3FC"),
	PrimaryDark:   lipgloss.Color("#0369A1"),
	Text:          lipgloss.Color("#F1F5F9"),
	TextMuted:     lipgloss.Color("#CBD5E1"),
	TextSubtle:    lipgloss.Color("#64748B"),
	BgSelected:    lipgloss.Color("#1E293B"),
	Success:       lipgloss.Color("#4ADE80"),
	Warning:       lipgloss.Color("#FACC15"),
	Error:         lipgloss.Color("#F87171"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(Theme.Primary).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(Theme.TextSubtle)

	comboStyle = lipgloss.NewStyle().
			Foreground(Theme.Primary).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(Theme.TextSubtle).
			Italic(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(Theme.TextMuted)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(Theme.PrimaryStrong).
				Background(Theme.BgSelected).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(Theme.Error)

	successStyle = lipgloss.NewStyle().
			Foreground(Theme.Success)

	hintStyle = lipgloss.NewStyle().
			Foreground(Theme.Warning).
			Bold(true)
)
