package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pathprobe/pathprobe/pkg/pipeline"
)

// Config holds the file-backed settings. Flags override whatever the file
// provides.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig carries default render settings.
type RenderConfig struct {
	Height  string `toml:"height"`
	Width   string `toml:"width"`
	Physics bool   `toml:"physics"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "none".
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
}

// StoreConfig selects the snapshot store backend.
type StoreConfig struct {
	// Backend is one of "file", "mongo".
	Backend         string `toml:"backend"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig carries defaults for the serve command.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Height: pipeline.DefaultHeight,
			Width:  pipeline.DefaultWidth,
		},
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "file"},
		Server: ServerConfig{Listen: "127.0.0.1:8411"},
	}
}

// LoadConfig reads the TOML config at path, or the default location when path
// is empty. A missing default config file is not an error; a missing explicit
// one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/pathprobe/config.toml, falling
// back to ~/.config.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
