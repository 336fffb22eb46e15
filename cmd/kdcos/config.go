package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/viant/kdcos/kdtree"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by all commands. Values from the YAML
// file are overridden by explicitly set flags.
type Config struct {
	DB      string `yaml:"db"`
	Dataset string `yaml:"dataset"`
	Prune   string `yaml:"prune"`
	Presort bool   `yaml:"presort,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		DB:      "kdcos.sqlite",
		Dataset: "default",
		Prune:   kdtree.PruneCosineBound.String(),
	}
}

// LoadConfig reads path, falling back to defaults when path is empty or the
// file does not exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DB == "" {
		cfg.DB = DefaultConfig().DB
	}
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultConfig().Dataset
	}
	return cfg, nil
}

// TreeOptions translates the config into kdtree build options.
func (c *Config) TreeOptions() ([]kdtree.Option, error) {
	strategy, err := kdtree.ParsePruneStrategy(c.Prune)
	if err != nil {
		return nil, err
	}
	opts := []kdtree.Option{kdtree.WithPruning(strategy)}
	if c.Presort {
		opts = append(opts, kdtree.WithSumPresort())
	}
	return opts, nil
}
