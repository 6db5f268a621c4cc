package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.wolfpack/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`

	Auth     Auth     `toml:"auth"`
	Database Database `toml:"database"`
	Blob     Blob     `toml:"blob"`
	Invite   Invite   `toml:"invite"`
	UI       UI       `toml:"ui"`
}

// Auth configures the hosted identity endpoint.
type Auth struct {
	BaseURL string `toml:"base_url"`
}

// Database configures the hosted document database.
type Database struct {
	URI  string `toml:"uri"`
	Name string `toml:"name"`
}

// Blob configures image storage and URL resolution.
type Blob struct {
	PublicBaseURL string `toml:"public_base_url"`
	Prefix        string `toml:"prefix"`
	JPEGQuality   int    `toml:"jpeg_quality"`
}

// Invite configures the out-of-band invite acceptance endpoint.
type Invite struct {
	AcceptURL string `toml:"accept_url"`
}

// UI holds presentation tunables.
type UI struct {
	SplashSeconds int `toml:"splash_seconds"`
}

// Default returns the config used when no file exists yet.
func Default() *Config {
	return &Config{
		DefaultProfile: "main",
		Database:       Database{URI: "mongodb://localhost:27017", Name: "wolfpack"},
		Blob:           Blob{Prefix: "images", JPEGQuality: 80},
		UI:             UI{SplashSeconds: 2},
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default on a missing file.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
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

func (c *Config) applyDefaults() {
	if c.DefaultProfile == "" {
		c.DefaultProfile = "main"
	}
	if c.Blob.Prefix == "" {
		c.Blob.Prefix = "images"
	}
	if c.Blob.JPEGQuality <= 0 || c.Blob.JPEGQuality > 100 {
		c.Blob.JPEGQuality = 80
	}
	if c.UI.SplashSeconds < 0 {
		c.UI.SplashSeconds = 0
	}
}
