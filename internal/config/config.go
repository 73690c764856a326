package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/keydojo/keydojo-cli/internal/catalog"
	"github.com/keydojo/keydojo-cli/internal/infra/storage"
	"github.com/keydojo/keydojo-cli/internal/memo"
	"github.com/keydojo/keydojo-cli/internal/ui/virtuallist"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "KEYDOJO_"
	dirName   = ".keydojo"
	fileName  = "config.yaml"
)

// Config holds user preferences for the browser and the store.
type Config struct {
	Platform      string `yaml:"platform,omitempty"`
	ItemHeight    int    `yaml:"item_height"`
	Overscan      int    `yaml:"overscan"`
	MemoCacheSize int    `yaml:"memo_cache_size"`
	Debug         bool   `yaml:"debug,omitempty"`
	DatabasePath  string `yaml:"database_path,omitempty"`

	path string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ItemHeight:    1,
		Overscan:      virtuallist.DefaultOverscan,
		MemoCacheSize: memo.DefaultMaxCacheSize,
	}
}

// GetEnvVarName returns the environment variable that overrides key.
func GetEnvVarName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// Dir returns ~/.keydojo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the default config file and applies environment overrides.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path, falling back to defaults when it does not exist,
// then applies KEYDOJO_* overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(GetEnvVarName("platform")); ok {
		c.Platform = v
	}
	if v, ok := os.LookupEnv(GetEnvVarName("database_path")); ok {
		c.DatabasePath = v
	}
	for key, dst := range map[string]*int{
		"item_height":     &c.ItemHeight,
		"overscan":        &c.Overscan,
		"memo_cache_size": &c.MemoCacheSize,
	} {
		v, ok := os.LookupEnv(GetEnvVarName(key))
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", GetEnvVarName(key), err)
		}
		*dst = n
	}
	if v, ok := os.LookupEnv(GetEnvVarName("debug")); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", GetEnvVarName("debug"), err)
		}
		c.Debug = b
	}
	return nil
}

// Save writes the config back to the file it was loaded from, or the
// default location.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}

// Validate checks list geometry, cache size and platform.
func (c *Config) Validate() error {
	// Any positive height stands in for the terminal size, unknown until the
	// first resize.
	if err := c.ListConfig(1).Validate(); err != nil {
		return fmt.Errorf("invalid list settings: %w", err)
	}
	if c.MemoCacheSize <= 0 {
		return fmt.Errorf("%w: memo_cache_size must be positive, got %d", memo.ErrInvalidCacheSize, c.MemoCacheSize)
	}
	if _, err := catalog.ParsePlatform(c.Platform); err != nil {
		return err
	}
	return nil
}

// PlatformOrCurrent resolves the configured platform.
func (c *Config) PlatformOrCurrent() catalog.Platform {
	p, err := catalog.ParsePlatform(c.Platform)
	if err != nil {
		return catalog.CurrentPlatform()
	}
	return p
}

// ListConfig returns the list geometry for a viewport of the given height.
func (c *Config) ListConfig(viewportHeight int) virtuallist.Config {
	return virtuallist.Config{
		ItemHeight:     c.ItemHeight,
		ViewportHeight: viewportHeight,
		Overscan:       c.Overscan,
	}
}

// DatabaseFile returns the configured store path or ~/.keydojo/keydojo.db.
func (c *Config) DatabaseFile() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	return storage.DefaultPath()
}
