package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keydojo/keydojo-cli/internal/catalog"
)

// ExportRequest contains all data needed for export
type ExportRequest struct {
	App       string
	Version   int
	Platform  catalog.Platform
	Shortcuts []catalog.Shortcut
	FilePath  string
}

// ErrMixedApps is returned when a catalog export holds shortcuts of more than
// one app. A catalog file describes a single app.
var ErrMixedApps = errors.New("catalog export needs shortcuts of a single app")

// Exporter renders shortcuts in one output format.
type Exporter interface {
	Render(req ExportRequest) ([]byte, error)
	FileExtension() string
}

var exporters = map[string]Exporter{
	"markdown": &MarkdownExporter{},
	"html":     &HTMLExporter{},
	"json":     &JSONExporter{},
	"yaml":     &YAMLExporter{},
}

func lookup(format string) (Exporter, error) {
	exporter, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return exporter, nil
}

// Render returns the shortcuts in the specified format
func Render(format string, req ExportRequest) ([]byte, error) {
	exporter, err := lookup(format)
	if err != nil {
		return nil, err
	}
	return exporter.Render(req)
}

// Export writes the shortcuts to req.FilePath in the specified format
func Export(format string, req ExportRequest) error {
	exporter, err := lookup(format)
	if err != nil {
		return err
	}

	data, err := exporter.Render(req)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(req.FilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(req.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileExtension returns the extension used by format, including the dot.
func FileExtension(format string) (string, error) {
	exporter, err := lookup(format)
	if err != nil {
		return "", err
	}
	return exporter.FileExtension(), nil
}

// SupportedFormats returns list of supported export formats
func SupportedFormats() []string {
	formats := make([]string, 0, len(exporters))
	for format := range exporters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Apps returns the distinct apps of the shortcuts in first-seen order.
func Apps(shortcuts []catalog.Shortcut) []string {
	var apps []string
	seen := make(map[string]bool)
	for _, s := range shortcuts {
		key := strings.ToLower(s.App)
		if s.App == "" || seen[key] {
			continue
		}
		seen[key] = true
		apps = append(apps, s.App)
	}
	return apps
}

func (req ExportRequest) catalog() (catalog.Catalog, error) {
	app := req.App
	for _, a := range Apps(req.Shortcuts) {
		if app == "" {
			app = a
		}
		if !strings.EqualFold(a, app) {
			return catalog.Catalog{}, fmt.Errorf("%w: found %q and %q", ErrMixedApps, app, a)
		}
	}
	return catalog.Catalog{
		App:       app,
		Version:   req.Version,
		Shortcuts: req.Shortcuts,
	}, nil
}
