package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath points at the yaml config file. When unset, subscope.yaml in
// the working directory is used if present, otherwise the defaults apply.
const EnvConfigPath = "SUBSCOPE_CONFIG"

const defaultConfigFile = "subscope.yaml"

type Config struct {
	Database  string          `yaml:"database"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type DashboardConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Database:  "scopes.db",
		Dashboard: DashboardConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads the config file named by EnvConfigPath, falling back to
// subscope.yaml and then to the defaults. Fields missing from the file keep
// their default values.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfigPath)
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return cfg, nil
		}
		path = defaultConfigFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Database == "" {
		return Config{}, fmt.Errorf("config file %s has no database path", path)
	}
	return cfg, nil
}
