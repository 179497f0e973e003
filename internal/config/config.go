// Package config loads the optional statbadge.yaml from the working root.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working root; its absence is not an error.
const FileName = "statbadge.yaml"

type Config struct {
	Owner        string    `yaml:"owner"`
	Repo         string    `yaml:"repo"`
	Branch       string    `yaml:"branch"`
	SourceBranch string    `yaml:"source_branch"`
	LogLevel     string    `yaml:"log_level"`
	Downloads    Downloads `yaml:"downloads"`
	LOC          LOC       `yaml:"loc"`
}

type Downloads struct {
	Path        string   `yaml:"path"`
	Label       string   `yaml:"label"`
	Strategy    string   `yaml:"strategy"`
	Crates      []string `yaml:"crates"`
	RegistryURL string   `yaml:"registry_url"`
}

type LOC struct {
	Path    string   `yaml:"path"`
	Label   string   `yaml:"label"`
	Command []string `yaml:"command"`
}

// Default mirrors what the badge files of git_function_history were
// published with.
func Default() Config {
	return Config{
		Branch:       "stats",
		SourceBranch: "main",
		LogLevel:     "info",
		Downloads: Downloads{
			Path:        "downloads.json",
			Label:       "Crates.io Total Downloads",
			Strategy:    "total",
			RegistryURL: "https://crates.io/api/v1",
		},
		LOC: LOC{
			Path:    "loc.json",
			Label:   "Total Lines of Code",
			Command: []string{"tokei", "--output=json"},
		},
	}
}

// Load overlays root/statbadge.yaml on the defaults.
func Load(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Branch == "" {
		errs = append(errs, errors.New("branch must not be empty"))
	}
	if c.Downloads.Path == "" || c.Downloads.Label == "" {
		errs = append(errs, errors.New("downloads.path and downloads.label must not be empty"))
	}
	switch c.Downloads.Strategy {
	case "total", "breakdown":
	default:
		errs = append(errs, fmt.Errorf("downloads.strategy %q must be total or breakdown", c.Downloads.Strategy))
	}
	if c.LOC.Path == "" || c.LOC.Label == "" {
		errs = append(errs, errors.New("loc.path and loc.label must not be empty"))
	}
	if len(c.LOC.Command) == 0 {
		errs = append(errs, errors.New("loc.command must not be empty"))
	}
	return errors.Join(errs...)
}
