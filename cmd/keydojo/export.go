package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	internalConfig "github.com/keydojo/keydojo-cli/internal/config"
	"github.com/keydojo/keydojo-cli/internal/exporter"
	"github.com/keydojo/keydojo-cli/internal/infra/logger"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportApp    string
	exportQuery  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export shortcuts as a cheat sheet or catalog file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		platform := cfg.PlatformOrCurrent()

		shortcuts, err := loadShortcuts(cmd.Context(), cfg, exportApp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load shortcuts: %v\n", err)
			os.Exit(1)
		}
		shortcuts = catalog.Filter(shortcuts, catalog.Query{Text: exportQuery, Platform: platform})

		req := exportRequest(cmd.Context(), cfg, shortcuts)

		if exportOut == "" {
			data, err := exporter.Render(exportFormat, req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v%s\n", err, mixedAppsHint(err))
				os.Exit(1)
			}
			os.Stdout.Write(data)
			return
		}

		if err := exporter.Export(exportFormat, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Export failed: %v%s\n", err, mixedAppsHint(err))
			os.Exit(1)
		}
		logger.Info("Shortcuts exported", logger.String("format", exportFormat), logger.String("file", exportOut))
		fmt.Printf("✓ Exported %d shortcuts to %s\n", len(shortcuts), exportOut)
	},
}

// exportRequest names the app only when the shortcuts belong to one, and
// carries that app's stored catalog version.
func exportRequest(ctx context.Context, cfg *internalConfig.Config, shortcuts []catalog.Shortcut) exporter.ExportRequest {
	req := exporter.ExportRequest{
		App:       exportApp,
		Platform:  cfg.PlatformOrCurrent(),
		Shortcuts: shortcuts,
		FilePath:  exportOut,
	}
	if apps := exporter.Apps(shortcuts); req.App == "" && len(apps) == 1 {
		req.App = apps[0]
	}
	if req.App != "" {
		req.Version = catalogVersion(ctx, cfg, req.App)
	}
	return req
}

// catalogVersion returns the version app was imported with, or the built-in
// catalog's version when app is the built-in one and was never imported.
func catalogVersion(ctx context.Context, cfg *internalConfig.Config, app string) int {
	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("Failed to open store for version lookup", logger.Err(err))
		return 0
	}
	defer store.Close()

	apps, err := store.ListApps(ctx)
	if err != nil {
		logger.Warn("Failed to list apps", logger.Err(err))
		return 0
	}
	for _, a := range apps {
		if strings.EqualFold(a.Name, app) {
			return a.Version
		}
	}
	if builtin := catalog.Builtin(); strings.EqualFold(builtin.App, app) {
		return builtin.Version
	}
	return 0
}

func mixedAppsHint(err error) string {
	if errors.Is(err, exporter.ErrMixedApps) {
		return " (pick one with --app)"
	}
	return ""
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of catalog files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := exporter.CatalogSchema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	formats := strings.Join(exporter.SupportedFormats(), "|")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Output format: "+formats)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportApp, "app", "a", "", "Only export shortcuts of this app")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "Only export shortcuts matching these terms")
}
