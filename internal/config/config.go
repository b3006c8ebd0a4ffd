package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all boardcall configuration.
type Config struct {
	Offline  bool   `toml:"offline"`
	LogLevel string `toml:"log_level"`

	// TaxonomyPath overrides the embedded category catalog.
	TaxonomyPath string `toml:"taxonomy_path"`

	Miro  MiroConfig  `toml:"miro"`
	Gong  GongConfig  `toml:"gong"`
	Cache CacheConfig `toml:"cache"`
	Retry RetryConfig `toml:"retry"`
}

type MiroConfig struct {
	BaseURL  string `toml:"base_url"`
	TokenEnv string `toml:"token_env"`
}

type GongConfig struct {
	BaseURL      string `toml:"base_url"`
	AccessKeyEnv string `toml:"access_key_env"`
	SecretEnv    string `toml:"secret_env"`
}

type CacheConfig struct {
	// Path is the sqlite location; ":memory:" keeps the cache
	// process-lifetime only.
	Path       string `toml:"path"`
	TTLSeconds int    `toml:"ttl_seconds"`
	MaxEntries int    `toml:"max_entries"`
}

type RetryConfig struct {
	MaxAttempts     int `toml:"max_attempts"`
	MaxDelaySeconds int `toml:"max_delay_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Miro: MiroConfig{
			TokenEnv: "MIRO_ACCESS_TOKEN",
		},
		Gong: GongConfig{
			AccessKeyEnv: "GONG_ACCESS_KEY",
			SecretEnv:    "GONG_ACCESS_KEY_SECRET",
		},
		Cache: CacheConfig{
			Path:       ":memory:",
			TTLSeconds: 300,
			MaxEntries: 256,
		},
		Retry: RetryConfig{
			MaxAttempts:     3,
			MaxDelaySeconds: 60,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.TaxonomyPath = expandHome(cfg.TaxonomyPath)
	cfg.Cache.Path = expandCachePath(cfg.Cache.Path)
	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "boardcall", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "boardcall", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// expandCachePath expands ~ but leaves the ":memory:" sentinel alone.
func expandCachePath(path string) string {
	if path == ":memory:" {
		return path
	}
	return expandHome(path)
}

// MiroToken reads the whiteboard credential from the configured env var.
func (c Config) MiroToken() string {
	return os.Getenv(c.Miro.TokenEnv)
}

// GongCredentials reads the call-platform credentials from the
// configured env vars.
func (c Config) GongCredentials() (key, secret string) {
	return os.Getenv(c.Gong.AccessKeyEnv), os.Getenv(c.Gong.SecretEnv)
}
