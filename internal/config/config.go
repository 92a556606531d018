// Package config reads ~/.tablero/config.yaml. A default file is written the
// first time the directory is touched so users have something to edit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

const defaultConfigYAML = `# tablero configuration
# Base URL of the task board API.
api_base: http://127.0.0.1:5000

# Seconds before a request is abandoned.
timeout_seconds: 10

# Default theme: dark or light. The t key in the board toggles and persists it.
theme: dark
`

// Config models config.yaml.
type Config struct {
	APIBase        string `yaml:"api_base"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Theme          string `yaml:"theme"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBase:        "http://127.0.0.1:5000",
		TimeoutSeconds: 10,
		Theme:          "dark",
	}
}

// Load reads the config from dir (empty means ~/.tablero), applying defaults
// for missing values. The TABLERO_API env var overrides api_base.
func Load(dir string) (Config, error) {
	cfg := Defaults()

	path, err := configPath(dir)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		// first run: leave a commented default behind, best effort
		writeDefault(path)
	} else if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIBase == "" {
		cfg.APIBase = Defaults().APIBase
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Defaults().TimeoutSeconds
	}
	if cfg.Theme == "" {
		cfg.Theme = Defaults().Theme
	}
	if env := strings.TrimSpace(os.Getenv("TABLERO_API")); env != "" {
		cfg.APIBase = env
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return cfg, nil
}

func configPath(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home: %w", err)
		}
		dir = filepath.Join(home, ".tablero")
	}
	return filepath.Join(dir, configFileName), nil
}

func writeDefault(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
