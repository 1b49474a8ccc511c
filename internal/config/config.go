// Package config reads fluxsem.yaml, the optional project configuration of
// the fluxsem command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gusakk/fluxsem/bootstrap"
	"github.com/gusakk/fluxsem/internal/log"
	"gopkg.in/yaml.v3"
)

// FileNames are the names FindConfig looks for, in order.
var FileNames = []string{"fluxsem.yaml", "fluxsem.yml"}

// Config is the parsed contents of fluxsem.yaml.
//
//	root: ./stdlib
//	prelude: [universe, influxdata/influxdb]
//	log_level: debug
//	docs:
//	  format: yaml
type Config struct {
	// Root of the corpus, relative to the directory of the config file.
	// Empty means the embedded standard library.
	Root     string   `yaml:"root"`
	Prelude  []string `yaml:"prelude"`
	LogLevel string   `yaml:"log_level"`
	Docs     Docs     `yaml:"docs"`
}

type Docs struct {
	// Format is json or yaml.
	Format string `yaml:"format"`
}

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default is the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// ParseConfig parses config data. path is only used in error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig looks for a config file in dir and its parents.
// It returns "" when there is none.
func FindConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.Docs.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%s: docs.format must be %s or %s, got %q", path, FormatJSON, FormatYAML, c.Docs.Format)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: log_level: %w", path, err)
		}
	}
	seen := make(map[string]bool, len(c.Prelude))
	for i, pkg := range c.Prelude {
		if pkg == "" {
			return fmt.Errorf("%s: prelude[%d] is empty", path, i)
		}
		if seen[pkg] {
			return fmt.Errorf("%s: prelude[%d]: %q listed twice", path, i, pkg)
		}
		seen[pkg] = true
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Prelude == nil {
		c.Prelude = bootstrap.DefaultPrelude()
	}
	if c.Docs.Format == "" {
		c.Docs.Format = FormatJSON
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}
