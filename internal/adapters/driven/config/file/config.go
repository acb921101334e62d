// Package file implements TOML configuration for docuquery.
//
// Configuration is stored at ~/.docuquery/config.toml and covers the
// backend connection, the local history archive, and the watch folder.
// A missing file is not an error: Load returns the defaults so a fresh
// install works without any setup.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/letscode5108/DocuQuery/internal/core/services"
)

// Defaults applied when the config file is missing or leaves a field unset.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 120
)

// Config is the on-disk configuration.
type Config struct {
	Verbose bool          `toml:"verbose"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// ServerConfig describes the backend connection.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	Protocol       string `toml:"protocol"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// HistoryConfig controls the local SQLite archive of resolved exchanges.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	DataDir string `toml:"data_dir"`
}

// WatchConfig controls the watch-folder auto-uploader.
type WatchConfig struct {
	Dir string `toml:"dir"`
}

// Timeout returns the configured request timeout.
func (c ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        DefaultBaseURL,
			Protocol:       string(services.ProtocolDocument),
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		History: HistoryConfig{Enabled: true},
	}
}

// DefaultPath returns ~/.docuquery/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docuquery", "config.toml"), nil
}

// Load reads the configuration from path. If path is empty the default
// location is used. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	// Re-apply defaults for fields the file left empty.
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = DefaultBaseURL
	}
	if cfg.Server.Protocol == "" {
		cfg.Server.Protocol = string(services.ProtocolDocument)
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		cfg.Server.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return cfg, nil
}

// Save writes the configuration to path, creating the directory if needed.
// If path is empty the default location is used.
func Save(cfg Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Write with restricted permissions
	return os.WriteFile(path, data, 0600)
}
