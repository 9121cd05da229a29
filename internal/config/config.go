package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const FileName = ".scrvs.yaml"

type IgnoreRule struct {
	Rule   string `yaml:"rule"`
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

type Logger struct {
	Level           string `yaml:"level"`
	JSONFormat      bool   `yaml:"jsonFormat"`
	IncludeLocation bool   `yaml:"includeLocation"`
}

// Rules and Ignore carry omitempty so a written config round-trips: absent
// keys unmarshal back to nil instead of empty slices.
type Config struct {
	SeverityThreshold string       `yaml:"severityThreshold"`
	MaxFileSizeBytes  int64        `yaml:"maxFileSizeBytes"`
	Rules             []string     `yaml:"rules,omitempty"`
	Ignore            []IgnoreRule `yaml:"ignore,omitempty"`
	Logger            Logger       `yaml:"logger"`
}

func Default() Config {
	return Config{
		SeverityThreshold: "INFO",
		MaxFileSizeBytes:  10 * 1024 * 1024,
		Logger:            Logger{Level: "info"},
	}
}

// Load searches upward from startDir for a .scrvs.yaml and merges it over the
// defaults. Returns the config, the path it was loaded from (empty when no
// file was found) and any read or parse error.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir := startDir
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return cfg, candidate, fmt.Errorf("reading %s: %w", candidate, err)
			}
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, candidate, fmt.Errorf("parsing %s: %w", candidate, err)
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}

// Write serializes cfg as YAML into dir, for the init command.
func Write(cfg Config, dir string) (string, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	return path, os.WriteFile(path, b, 0o644)
}
