package cli

import (
	"fmt"
	"strconv"
	"strings"

	"lead-scraper-go/pkg/config"
	"lead-scraper-go/pkg/utils"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "server.base_url=http://127.0.0.1:5002")
//
// The value is written to the config file as read from disk, so env
// overrides in effect for this run are not persisted.
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	// Validate against the running config first
	if err := setValue(a.cfg, section, key, value); err != nil {
		return err
	}

	stored, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := setValue(stored, section, key, value); err != nil {
		return err
	}

	// The client is rebuilt from the new values on next use
	a.client = nil
	return config.Save(stored)
}

func setValue(cfg *config.Config, section, key, value string) error {
	switch section {
	case "server":
		switch key {
		case "base_url":
			baseURL, err := utils.ValidateBaseURL(value)
			if err != nil {
				return err
			}
			cfg.Server.BaseURL = baseURL
		case "request_timeout":
			timeout, err := strconv.Atoi(value)
			if err != nil || timeout < 0 {
				return fmt.Errorf("invalid request_timeout value: %s", value)
			}
			cfg.Server.RequestTimeout = timeout
		default:
			return fmt.Errorf("unknown server key: %s", key)
		}
	case "output":
		switch key {
		case "dir":
			if value == "" {
				return fmt.Errorf("output dir cannot be empty")
			}
			cfg.Output.Dir = value
		default:
			return fmt.Errorf("unknown output key: %s", key)
		}
	case "log":
		switch key {
		case "dir":
			if value == "" {
				return fmt.Errorf("log dir cannot be empty")
			}
			cfg.Log.Dir = value
		case "level":
			if _, err := logrus.ParseLevel(value); err != nil {
				return fmt.Errorf("invalid log level: %s", value)
			}
			cfg.Log.Level = value
		default:
			return fmt.Errorf("unknown log key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return nil
}
