package exporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownExporter writes a cheat sheet with one table per category.
type MarkdownExporter struct{}

func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

func (e *MarkdownExporter) Render(req ExportRequest) ([]byte, error) {
	var md strings.Builder

	title := "Keyboard shortcuts"
	if req.App != "" {
		title = fmt.Sprintf("%s shortcuts", req.App)
	}
	fmt.Fprintf(&md, "# %s\n\n", title)
	fmt.Fprintf(&md, "Keys shown for %s.\n", req.Platform)

	groups := groupByCategory(req.Shortcuts)
	for _, g := range groups {
		fmt.Fprintf(&md, "\n## %s\n\n", g.name)
		md.WriteString("| Shortcut | Keys | Description |\n")
		md.WriteString("|---|---|---|\n")
		for _, s := range g.shortcuts {
			fmt.Fprintf(&md, "| %s | `%s` | %s |\n",
				escapeCell(s.Name), strings.ReplaceAll(s.Combo(req.Platform), "`", "'"), escapeCell(s.Description))
		}
	}

	return []byte(md.String()), nil
}

type categoryGroup struct {
	name      string
	shortcuts []catalog.Shortcut
}

func groupByCategory(shortcuts []catalog.Shortcut) []categoryGroup {
	var groups []categoryGroup
	index := make(map[string]int)
	for _, s := range shortcuts {
		name := s.Category
		if name == "" {
			name = "other"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, categoryGroup{name: name})
		}
		groups[i].shortcuts = append(groups[i].shortcuts, s)
	}
	return groups
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// HTMLExporter renders the markdown cheat sheet to a standalone page.
type HTMLExporter struct{}

func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

func (e *HTMLExporter) Render(req ExportRequest) ([]byte, error) {
	src, err := (&MarkdownExporter{}).Render(req)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Keyboard shortcuts</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
