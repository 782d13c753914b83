package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvBaseURL = "STUDIO_BASE_URL"
	EnvAPIKey  = "STUDIO_API_KEY"
)

// Config holds CLI configuration stored at ~/.studio/config.
type Config struct {
	APIKey        string `yaml:"api_key,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`
	ImageDropDir  string `yaml:"image_drop_dir,omitempty"`
	MaxImageBytes int64  `yaml:"max_image_bytes,omitempty"`
	LogFile       string `yaml:"log_file,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
	// DeleteFailureRedirect leaves the detail screen after a rejected
	// delete. Unset means true.
	DeleteFailureRedirect *bool `yaml:"delete_failure_redirect,omitempty"`
}

// Dir returns the directory holding config and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".studio")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// DefaultLogFile is used when log_file is not set.
func DefaultLogFile() string {
	return filepath.Join(Dir(), "studio.log")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	cfg, err := readFile()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadStored reads the file as stored, without environment overrides, so
// it can be edited and saved back. A missing file yields an empty config.
func LoadStored() (*Config, error) {
	cfg, err := readFile()
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

func readFile() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxImageBytes < 0 {
		return nil, fmt.Errorf("config max_image_bytes must not be negative")
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except a missing file yields an empty config with
// environment overrides applied.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{}
		cfg.applyEnv()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
}

// RedirectOnDeleteFailure resolves delete_failure_redirect with its default.
func (c *Config) RedirectOnDeleteFailure() bool {
	if c == nil || c.DeleteFailureRedirect == nil {
		return true
	}
	return *c.DeleteFailureRedirect
}

// LogPath resolves log_file with its default.
func (c *Config) LogPath() string {
	if c == nil || strings.TrimSpace(c.LogFile) == "" {
		return DefaultLogFile()
	}
	return c.LogFile
}

// Set assigns a config field by its YAML key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_key":
		c.APIKey = value
	case "base_url":
		c.BaseURL = strings.TrimRight(value, "/")
	case "image_drop_dir":
		c.ImageDropDir = value
	case "log_file":
		c.LogFile = value
	case "log_level":
		c.LogLevel = value
	case "max_image_bytes":
		var n int64
		if _, err := fmt.Sscan(value, &n); err != nil || n < 0 {
			return fmt.Errorf("max_image_bytes: want a non-negative integer, got %q", value)
		}
		c.MaxImageBytes = n
	case "delete_failure_redirect":
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			v := true
			c.DeleteFailureRedirect = &v
		case "false", "no", "0":
			v := false
			c.DeleteFailureRedirect = &v
		default:
			return fmt.Errorf("delete_failure_redirect: want true or false, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Save writes the config to disk with secure permissions. Concurrent
// writers are serialised through a lock file next to the config.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}
