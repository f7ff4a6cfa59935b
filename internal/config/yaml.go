package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a single, fully-resolved Config from path, bypassing the
// global/local/env layering Load performs. Grounded on the teacher's
// YAMLPersister.Load (os.ReadFile + yaml.Unmarshal), used here so
// `mcrun` can load an exact config snapshot (e.g. one written by SaveFile)
// without re-running default/env resolution.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveFile writes cfg to path as YAML, grounded on the teacher's
// YAMLPersister.Save (yaml.Marshal + os.WriteFile). Useful for persisting
// the effective, fully-resolved configuration a run used alongside its
// trace report.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
