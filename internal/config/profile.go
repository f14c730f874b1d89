package config

import (
	"fmt"
	"os"

	"github.com/jengzang/riskzones-backend-go/internal/analysis/clustering"
	"gopkg.in/yaml.v3"
)

// LoadClusterProfile returns the clustering profile for a run. An empty path
// yields the defaults; otherwise the YAML file is decoded on top of them, so
// a profile only lists what it changes.
func LoadClusterProfile(path string) (clustering.Config, error) {
	cfg := clustering.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return clustering.Config{}, fmt.Errorf("failed to read cluster profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return clustering.Config{}, fmt.Errorf("failed to parse cluster profile %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return clustering.Config{}, fmt.Errorf("invalid cluster profile %s: %w", path, err)
	}

	return cfg, nil
}
