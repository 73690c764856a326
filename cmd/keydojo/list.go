package main

import (
	"fmt"
	"os"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	listApp      string
	listQuery    string
	listCategory string
	deleteApp    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print shortcuts matching a query",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		platform := cfg.PlatformOrCurrent()

		shortcuts, err := loadShortcuts(cmd.Context(), cfg, listApp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load shortcuts: %v\n", err)
			os.Exit(1)
		}

		matches := catalog.Filter(shortcuts, catalog.Query{
			Text:     listQuery,
			Category: listCategory,
			Platform: platform,
		})
		if len(matches) == 0 {
			fmt.Println("No shortcuts match")
			return
		}

		for _, s := range matches {
			fmt.Printf("%-36s %-22s %s\n", s.Name, s.Combo(platform), s.Category)
		}
	},
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List imported apps",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if deleteApp != "" {
			if err := store.DeleteApp(cmd.Context(), deleteApp); err != nil {
				fmt.Fprintf(os.Stderr, "Error: Failed to delete app: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Deleted %s\n", deleteApp)
			return
		}

		apps, err := store.ListApps(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to list apps: %v\n", err)
			os.Exit(1)
		}
		if len(apps) == 0 {
			fmt.Println("No catalogs imported; the built-in catalog is used")
			return
		}
		for _, a := range apps {
			fmt.Printf("%-20s v%-4d %4d shortcuts  imported %s\n",
				a.Name, a.Version, a.Shortcuts, a.ImportedAt.Local().Format("2006-01-02 15:04"))
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listApp, "app", "a", "", "Only list shortcuts of this app")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search terms; all must match")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list this category")

	appsCmd.Flags().StringVar(&deleteApp, "delete", "", "Delete the stored catalog of this app")
}
