// Package config loads the YAML file that describes which database to query
// and how each resource exposes search, filter, sort and pagination.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"

	DefaultEngine       = EnginePostgres
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLimit        = 20
	DefaultMaxOpenConns = 4
)

type Config struct {
	Engine       string `yaml:"engine"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`

	Resources map[string]Resource `yaml:"resources"`
}

// Resource describes one queryable table.
type Resource struct {
	Table         string   `yaml:"table"`
	Columns       []string `yaml:"columns"`
	SearchFields  []string `yaml:"search_fields"`
	AllowedFields []string `yaml:"allowed_fields"`
	DefaultSort   string   `yaml:"default_sort"`
	// DefaultLimit 0 means DefaultLimit; negative disables pagination.
	DefaultLimit int `yaml:"default_limit"`
}

// LoadConfig reads path, applies defaults and environment overrides and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ApplyDefaults(cfg *Config) {
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	for name, r := range cfg.Resources {
		if r.Table == "" {
			r.Table = name
		}
		if r.DefaultLimit == 0 {
			r.DefaultLimit = DefaultLimit
		}
		cfg.Resources[name] = r
	}
}

// applyEnvOverrides reads ANYFEATURES_ENGINE, ANYFEATURES_DSN and
// ANYFEATURES_LOG_LEVEL.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ANYFEATURES_ENGINE"); val != "" {
		cfg.Engine = val
	}
	if val := os.Getenv("ANYFEATURES_DSN"); val != "" {
		cfg.DSN = val
	}
	if val := os.Getenv("ANYFEATURES_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
}

// Resource looks a resource up by name.
func (c *Config) Resource(name string) (Resource, error) {
	r, ok := c.Resources[name]
	if !ok {
		return Resource{}, fmt.Errorf("unknown resource %q (have: %s)", name, strings.Join(c.ResourceNames(), ", "))
	}
	return r, nil
}

func (c *Config) ResourceNames() []string {
	out := make([]string, 0, len(c.Resources))
	for name := range c.Resources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tables returns the distinct tables behind all resources, sorted.
func (c *Config) Tables() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range c.Resources {
		if !seen[r.Table] {
			seen[r.Table] = true
			out = append(out, r.Table)
		}
	}
	sort.Strings(out)
	return out
}
