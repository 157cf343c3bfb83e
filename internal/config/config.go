// Package config loads the optional named resolver-group configuration
// file the cmd/mhost CLI skeleton accepts, following sudo-tiz's
// internal/config package for how this corpus shapes a YAML config loader
// (gopkg.in/yaml.v3, a path argument, a typed result).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a named set of resolver groups, each a list of
// NameServerConfig text forms (spec §3's grammar), keyed by a name the CLI
// can reference with --group.
type Config struct {
	ResolverGroups map[string][]string `yaml:"resolver_groups"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	return &cfg, nil
}

// Group returns the raw NameServerConfig text forms for a named group, or
// false if no such group is defined.
func (c *Config) Group(name string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	servers, ok := c.ResolverGroups[name]
	return servers, ok
}
