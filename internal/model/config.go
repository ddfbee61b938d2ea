package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the backend API.
type ServerConfig struct {
	// BaseURL is the root URL of the API (e.g. https://pm.example.com/api-v1).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// WorkspaceID is the workspace opened by default on startup.
	WorkspaceID string `mapstructure:"workspace_id" yaml:"workspace_id"`

	// RequestTimeoutSec bounds each REST call.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// StreamConfig holds reconnect tuning for the notification push stream.
type StreamConfig struct {
	// ReconnectBaseMs is the first backoff delay after a dropped connection.
	ReconnectBaseMs int `mapstructure:"reconnect_base_ms" yaml:"reconnect_base_ms"`

	// ReconnectMaxMs caps the exponential backoff.
	ReconnectMaxMs int `mapstructure:"reconnect_max_ms" yaml:"reconnect_max_ms"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	PageSize int    `mapstructure:"page_size" yaml:"page_size"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Stream  StreamConfig  `mapstructure:"stream" yaml:"stream"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/teamdeck/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "teamdeck", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:           "http://localhost:8000/api-v1",
			RequestTimeoutSec: 30,
		},
		Stream: StreamConfig{
			ReconnectBaseMs: 1000,
			ReconnectMaxMs:  30000,
		},
		Display: DisplayConfig{
			Theme:    "default",
			PageSize: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:8000/api-v1")
	v.SetDefault("server.request_timeout_sec", 30)
	v.SetDefault("stream.reconnect_base_ms", 1000)
	v.SetDefault("stream.reconnect_max_ms", 30000)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.page_size", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.PageSize <= 0 {
		cfg.Display.PageSize = 5
	}
	if cfg.Stream.ReconnectBaseMs <= 0 {
		cfg.Stream.ReconnectBaseMs = 1000
	}
	if cfg.Stream.ReconnectMaxMs < cfg.Stream.ReconnectBaseMs {
		cfg.Stream.ReconnectMaxMs = 30000
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("stream", cfg.Stream)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
