package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAPIURL is used when neither config nor environment provide one.
const DefaultAPIURL = "http://localhost:4000"

// EnvAPIURL overrides the configured API URL when set.
const EnvAPIURL = "FERN_API_URL"

// Config represents the global ~/.fern/config.toml.
type Config struct {
	APIURL         string `toml:"api_url"`
	DefaultProfile string `toml:"default_profile"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// ResolveAPIURL determines the API base URL using precedence:
// 1. FERN_API_URL environment variable
// 2. config.toml api_url
// 3. DefaultAPIURL
func ResolveAPIURL(cfg *Config) string {
	if env := os.Getenv(EnvAPIURL); env != "" {
		return strings.TrimRight(env, "/")
	}
	if cfg != nil && cfg.APIURL != "" {
		return strings.TrimRight(cfg.APIURL, "/")
	}
	return DefaultAPIURL
}

// WSURL derives the realtime endpoint from an API base URL
// (http -> ws, https -> wss).
func WSURL(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://")
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://")
	}
	return apiURL
}
