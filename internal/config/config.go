// Package config is the app-level YAML configuration: listen address, data
// dir, fetch tuning. Runtime sync settings (feed URL, interval) live in the
// settings table instead, so they can change without a restart.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Feed struct {
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RequestsPerSec float64 `yaml:"requests_per_second"`
		Burst          int     `yaml:"burst"`
	} `yaml:"feed"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.App.DataDir = "."
	cfg.Feed.UserAgent = "CarSyncEngine/1.0 (+inventory feed sync)"
	cfg.Feed.TimeoutSeconds = 30
	cfg.Feed.RequestsPerSec = 1.0
	cfg.Feed.Burst = 2
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
