package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed builtin.yaml
var builtinYAML []byte

// Catalog is the set of shortcuts for one application.
type Catalog struct {
	App       string     `yaml:"app" json:"app"`
	Version   int        `yaml:"version,omitempty" json:"version,omitempty"`
	Shortcuts []Shortcut `yaml:"shortcuts" json:"shortcuts"`
}

// Validate checks the app name, ID uniqueness and that every shortcut has
// Windows keys to fall back on.
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.App) == "" {
		return fmt.Errorf("%w: app name is required", ErrInvalidCatalog)
	}
	seen := make(map[string]bool, len(c.Shortcuts))
	for i, s := range c.Shortcuts {
		if s.ID == "" {
			return fmt.Errorf("%w: shortcut %d has no id", ErrInvalidCatalog, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate shortcut id %q", ErrInvalidCatalog, s.ID)
		}
		seen[s.ID] = true
		if s.Keys.Windows == "" {
			return fmt.Errorf("%w: shortcut %q has no windows keys", ErrInvalidCatalog, s.ID)
		}
	}
	return nil
}

// stamp copies the catalog's app onto each shortcut.
func (c *Catalog) stamp() {
	for i := range c.Shortcuts {
		c.Shortcuts[i].App = c.App
	}
}

// ParseYAML decodes and validates a YAML catalog.
func ParseYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.stamp()
	return &c, nil
}

// ParseJSON decodes and validates a JSON catalog. Besides the nested "keys"
// object it accepts the flat shortcutWindows/shortcutMac/shortcutLinux fields
// used by curriculum exports.
func ParseJSON(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse JSON catalog: malformed JSON")
	}
	root := gjson.ParseBytes(data)

	c := Catalog{
		App:     root.Get("app").String(),
		Version: int(root.Get("version").Int()),
	}
	root.Get("shortcuts").ForEach(func(_, v gjson.Result) bool {
		c.Shortcuts = append(c.Shortcuts, Shortcut{
			ID:          v.Get("id").String(),
			Name:        v.Get("name").String(),
			Description: v.Get("description").String(),
			Category:    v.Get("category").String(),
			Context:     v.Get("context").String(),
			Difficulty:  v.Get("difficulty").String(),
			XP:          int(firstOf(v, "xp", "xpValue").Int()),
			Keys: Keys{
				Windows: firstOf(v, "keys.windows", "shortcutWindows").String(),
				Mac:     firstOf(v, "keys.mac", "shortcutMac").String(),
				Linux:   firstOf(v, "keys.linux", "shortcutLinux").String(),
			},
		})
		return true
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.stamp()
	return &c, nil
}

func firstOf(v gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// Load reads a catalog file, choosing the decoder by extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}
}

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	c, err := ParseYAML(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}
