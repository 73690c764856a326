package main

import (
	"fmt"
	"os"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a YAML or JSON shortcut catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		c, err := catalog.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.ImportCatalog(cmd.Context(), c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to import catalog: %v\n", err)
			os.Exit(1)
		}

		logger.Info("Catalog imported",
			logger.String("app", c.App),
			logger.Int("shortcuts", len(c.Shortcuts)),
			logger.String("file", args[0]))
		fmt.Printf("✓ Imported %d shortcuts for %s\n", len(c.Shortcuts), c.App)
	},
}
