package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/cli"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	practiceApp      string
	practiceCategory string
	practiceLimit    int
	practiceShuffle  bool
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Drill shortcuts by pressing their keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		shortcuts, err := loadShortcuts(cmd.Context(), cfg, practiceApp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load shortcuts: %v\n", err)
			os.Exit(1)
		}
		shortcuts = drillSet(shortcuts, practiceCategory, practiceLimit, practiceShuffle)

		practice, err := cli.NewPractice(shortcuts, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(practice, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to run practice: %v\n", err)
			os.Exit(1)
		}

		result, ok := finalModel.(cli.Practice)
		if !ok {
			return
		}
		r := result.Result()
		logger.Info("Practice finished",
			logger.Int("correct", r.Correct),
			logger.Int("skipped", r.Skipped),
			logger.Int("misses", r.Misses),
			logger.Bool("cancelled", result.IsCancelled()))
		fmt.Printf("✓ %d/%d correct, %d skipped, %d misses\n", r.Correct, r.Total, r.Skipped, r.Misses)
	},
}

// drillSet narrows shortcuts to a category, optionally shuffles them and
// keeps at most limit of them. A limit of 0 keeps all.
func drillSet(shortcuts []catalog.Shortcut, category string, limit int, shuffle bool) []catalog.Shortcut {
	if category != "" {
		shortcuts = catalog.Filter(shortcuts, catalog.Query{Category: category})
	}
	if shuffle {
		shortcuts = append([]catalog.Shortcut(nil), shortcuts...)
		rand.Shuffle(len(shortcuts), func(i, j int) {
			shortcuts[i], shortcuts[j] = shortcuts[j], shortcuts[i]
		})
	}
	if limit > 0 && len(shortcuts) > limit {
		shortcuts = shortcuts[:limit]
	}
	return shortcuts
}

func init() {
	practiceCmd.Flags().StringVarP(&practiceApp, "app", "a", "", "Only practice shortcuts of this app")
	practiceCmd.Flags().StringVarP(&practiceCategory, "category", "c", "", "Only practice shortcuts in this category")
	practiceCmd.Flags().IntVarP(&practiceLimit, "limit", "n", 0, "Practice at most this many shortcuts")
	practiceCmd.Flags().BoolVar(&practiceShuffle, "shuffle", false, "Ask in random order")
}
