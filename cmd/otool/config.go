package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML config file
type Config struct {
	DataDir     string    `yaml:"dataDir"`
	NodeID      string    `yaml:"nodeId"`
	BindAddr    string    `yaml:"bindAddr"`
	MetricsAddr string    `yaml:"metricsAddr"`
	Log         LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func defaultConfig() Config {
	return Config{
		DataDir:     "./otool-data",
		MetricsAddr: "127.0.0.1:9090",
		Log:         LogConfig{Level: "info"},
	}
}

// loadConfig reads path over the defaults. Keys missing from the file keep
// their default values.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}
