package exporter

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/keydojo/keydojo-cli/internal/catalog"
	"gopkg.in/yaml.v3"
)

// JSONExporter writes a catalog file that `keydojo import` reads back.
type JSONExporter struct{}

func (e *JSONExporter) FileExtension() string {
	return ".json"
}

func (e *JSONExporter) Render(req ExportRequest) ([]byte, error) {
	c, err := req.catalog()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// YAMLExporter writes a catalog file that `keydojo import` reads back.
type YAMLExporter struct{}

func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

func (e *YAMLExporter) Render(req ExportRequest) ([]byte, error) {
	c, err := req.catalog()
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}

// CatalogSchema returns the JSON Schema of the catalog file format.
func CatalogSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&catalog.Catalog{})
	schema.Title = "Shortcut catalog"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
