// Package config loads the project configuration the dm tool runs
// against. A missing or unparseable file is fatal at startup; nothing
// downstream handles its absence.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultPath is where Load looks when no -c flag is given.
const DefaultPath = "corebook.yml"

// API locates the remote dataset API.
type API struct {
	Host    string `yaml:"host"`
	Version string `yaml:"version"`
}

// Config identifies the project and dataset every command operates on.
type Config struct {
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
	API     API    `yaml:"api"`
	// Token is an optional write token; the DM_TOKEN environment
	// variable takes precedence.
	Token string `yaml:"token"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	cfg := &Config{
		API: API{
			Host:    "https://api.corebook.io",
			Version: "v1",
		},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("config %q: project is required", path)
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("config %q: dataset is required", path)
	}
	return cfg, nil
}
