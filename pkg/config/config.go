package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Server is the scrape job backend
	Server struct {
		BaseURL        string `toml:"base_url"`
		RequestTimeout int    `toml:"request_timeout"` // seconds, 0 = no client timeout
	} `toml:"server"`

	// Output
	Output struct {
		Dir string `toml:"dir"` // where downloaded lead files are saved
	} `toml:"output"`

	// Log
	Log struct {
		Dir   string `toml:"dir"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// DefaultConfig returns a config with default values
// The base URL matches the port the job backend listens on
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.BaseURL = "http://127.0.0.1:5002"
	cfg.Server.RequestTimeout = 0 // scrape jobs block until finished
	cfg.Output.Dir = "output"
	cfg.Log.Dir = "tmp"
	cfg.Log.Level = "info"
	return cfg
}

// ConfigPath returns the path to the config file.
// LEAD_SCRAPER_CONFIG overrides the default location.
func ConfigPath() (string, error) {
	if p := os.Getenv("LEAD_SCRAPER_CONFIG"); p != "" {
		return expandHome(p)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "lead-scraper")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from path and applies env overrides.
// Creates the file with defaults if it doesn't exist
func LoadFrom(configPath string) (*Config, error) {
	cfg, err := LoadFileFrom(configPath)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadFile reads the config file at the default path without env
// overrides. Use it for a config that will be saved back.
func LoadFile() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFileFrom(configPath)
}

// LoadFileFrom reads the config file at path without env overrides,
// creating it with defaults if it doesn't exist
func LoadFileFrom(configPath string) (*Config, error) {
	configPath, err := expandHome(configPath)
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read existing config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults for any missing values
	defaultCfg := DefaultConfig()
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaultCfg.Server.BaseURL
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultCfg.Output.Dir
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = defaultCfg.Log.Dir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
	if cfg.Server.RequestTimeout < 0 {
		cfg.Server.RequestTimeout = defaultCfg.Server.RequestTimeout
	}

	return &cfg, nil
}

// applyEnv overrides values from the environment (useful for Docker)
func applyEnv(cfg *Config) {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if dir := os.Getenv("LEAD_SCRAPER_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
}

// Save writes the configuration to the default config path
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the configuration to path
func SaveTo(cfg *Config, configPath string) error {
	configPath, err := expandHome(configPath)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to TOML
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome expands a leading ~ in path
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(path, "~", homeDir, 1), nil
}
