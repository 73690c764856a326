package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/cli"
	internalConfig "github.com/keydojo/keydojo-cli/internal/config"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"
	"github.com/keydojo/keydojo-cli/internal/infra/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

var (
	debugFilePath string
	platformFlag  string
	dbPath        string
	appFilter     string
)

var rootCmd = &cobra.Command{
	Use:   "keydojo",
	Short: "Browse and learn keyboard shortcuts from the terminal",
	Long: `Browse and learn keyboard shortcuts from the terminal.
Import shortcut catalogs, search them and see the keys for your platform.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		// Check for unknown arguments (subcommands)
		if len(args) > 0 {
			printCustomHelp(cmd)
			os.Exit(1)
		}

		cfg := mustLoadConfig()
		shortcuts, err := loadShortcuts(cmd.Context(), cfg, appFilter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load shortcuts: %v\n", err)
			os.Exit(1)
		}

		browser, err := cli.NewBrowser(shortcuts, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithMouseCellMotion())
		finalModel, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to run browser: %v\n", err)
			os.Exit(1)
		}

		result, ok := finalModel.(cli.Browser)
		if !ok || result.IsCancelled() {
			return
		}
		logger.Debug("Browser closed", logger.Int("filter_hits", int(result.FilterStats().Hits)))
		if s, ok := result.Selected(); ok {
			fmt.Printf("%s: %s\n", s.Name, s.Combo(cfg.PlatformOrCurrent()))
		}
	},
}

// Custom help function with grouped flags
func printCustomHelp(cmd *cobra.Command) {
	fmt.Printf("Browse and learn keyboard shortcuts from the terminal\n\n")
	fmt.Printf("Usage:\n  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Printf("Commands:\n")
		for _, c := range cmd.Commands() {
			if !c.IsAvailableCommand() {
				continue
			}
			fmt.Printf("  %-22s %s\n", c.Name(), c.Short)
		}
		fmt.Printf("\n")
	}

	if cmd != cmd.Root() {
		if usages := cmd.LocalNonPersistentFlags().FlagUsages(); usages != "" {
			fmt.Printf("Flags:\n%s\n", usages)
		}
	} else {
		fmt.Printf("Flags:\n")
		printFlag(cmd, "app", "a", "Only show shortcuts of this app")
		fmt.Printf("\n")
	}

	fmt.Printf("Global Flags:\n")
	printFlag(cmd, "platform", "p", "Key layout to show: windows|mac|linux")
	printFlag(cmd, "db", "", "Path to the shortcut database")

	fmt.Printf("\nAdvanced:\n")
	printFlag(cmd, "debug-file", "", "Path to debug log file (enables detailed logging)")

	fmt.Printf("\nOther:\n")
	printFlag(cmd, "help", "h", "Show this help message")
	printFlag(cmd, "version", "v", "Show the version number")
}

const flagColumn = 22

func printFlag(cmd *cobra.Command, name, shorthand, description string) {
	if cmd.Flags().Lookup(name) == nil {
		return
	}
	fmt.Println(flagLine(name, shorthand, description))
}

// flagLine formats one help entry, wrapping the description under its own
// column.
func flagLine(name, shorthand, description string) string {
	label := "    --" + name
	if shorthand != "" {
		label = "-" + shorthand + ", --" + name
	}
	indent := "\n" + strings.Repeat(" ", flagColumn+3)
	desc := strings.ReplaceAll(wordwrap.String(description, 55), "\n", indent)
	return fmt.Sprintf("  %-*s %s", flagColumn, label, desc)
}

func init() {
	// Override the default help and usage functions
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printCustomHelp(cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		printCustomHelp(cmd)
		return nil
	})
	rootCmd.SetVersionTemplate("keydojo {{.Version}}\n")

	rootCmd.Flags().BoolP("version", "v", false, "Show the version number")
	rootCmd.Flags().StringVarP(&appFilter, "app", "a", "", "Only show shortcuts of this app")

	rootCmd.PersistentFlags().StringVar(&debugFilePath, "debug-file", "", "Path to debug log file (enables detailed logging)")
	rootCmd.PersistentFlags().StringVarP(&platformFlag, "platform", "p", "", "Key layout to show: windows|mac|linux")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the shortcut database")

	rootCmd.AddCommand(importCmd, listCmd, appsCmd, exportCmd, schemaCmd, rangeCmd, practiceCmd)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Handle --version flag
		if f := cmd.Flags().Lookup("version"); f != nil && f.Changed {
			fmt.Printf("keydojo version %s\n", version)
			os.Exit(0)
		}
	}
}

// mustLoadConfig loads the config file, applies the persistent flags and
// starts the debug logger when the config asks for it.
func mustLoadConfig() *internalConfig.Config {
	cfg, err := internalConfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if platformFlag != "" {
		cfg.Platform = platformFlag
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if debugFilePath != "" {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func openStore(cfg *internalConfig.Config) (*storage.Store, error) {
	path, err := cfg.DatabaseFile()
	if err != nil {
		return nil, err
	}
	logger.Debug("Opening store", logger.String("path", path))
	return storage.Open(path)
}

// loadShortcuts returns the stored shortcuts, or the built-in catalog when
// nothing has been imported yet.
func loadShortcuts(ctx context.Context, cfg *internalConfig.Config, app string) ([]catalog.Shortcut, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	shortcuts, err := store.ListShortcuts(ctx, app)
	if err != nil {
		return nil, err
	}
	if len(shortcuts) > 0 {
		return shortcuts, nil
	}

	builtin := catalog.Builtin()
	if app != "" && !strings.EqualFold(app, builtin.App) {
		return nil, fmt.Errorf("no shortcuts stored for app %q", app)
	}
	logger.Info("Using built-in catalog", logger.String("app", builtin.App))
	return builtin.Shortcuts, nil
}

func main() {
	_ = godotenv.Load()

	err := rootCmd.ExecuteContext(context.Background())
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger writes debug logs to --debug-file, or ~/.keydojo/debug.log when
// only the config enables debugging.
func initLogger(cfg *internalConfig.Config) error {
	if !cfg.Debug {
		return nil
	}
	path := debugFilePath
	if path == "" {
		dir, err := internalConfig.Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "debug.log")
	}
	if err := logger.Init(true, path); err != nil {
		return err
	}
	logger.Info("KeyDojo starting", logger.String("log_file", path), logger.String("version", version))
	return nil
}
