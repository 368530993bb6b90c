package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropspot/dropspot/go/clients/dropspot_client"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`
	Feed struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"feed"`
	Watch struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"watch"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dropspot_session.json"
	}
	return filepath.Join(home, ".dropspot", "session.json")
}

func defaultConfig() *Config {
	config := &Config{}
	config.API.BaseURL = dropspot_client.DefaultBaseURL
	config.Session.Path = defaultSessionPath()
	config.Watch.IntervalSeconds = 30
	return config
}

// loadConfig reads the optional yaml config file and applies environment
// overrides on top.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.API.BaseURL = getEnv("DROPSPOT_API_BASE_URL", config.API.BaseURL)
	config.Session.Path = getEnv("DROPSPOT_SESSION_PATH", config.Session.Path)
	if url := os.Getenv("DROPSPOT_FEED_URL"); url != "" {
		config.Feed.Enabled = true
		config.Feed.URL = url
	}

	return config, nil
}

func (c *Config) watchInterval() time.Duration {
	if c.Watch.IntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}
