// Package config handles the global configuration file and environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/refdoi/config.yml.
type GlobalConfig struct {
	Mailto         string `yaml:"mailto,omitempty"`
	CrossrefURL    string `yaml:"crossref_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refdoi"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// ErrUnknownKey is returned for a key that is not a configuration setting.
var ErrUnknownKey = errors.New("unknown configuration key")

// Keys lists the settable keys in display order.
var Keys = []string{"mailto", "crossref-url", "timeout"}

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refdoi/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Save writes the config to GlobalConfigPath, creating its directory, and
// refreshes the cache.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	saved := *c
	globalConfigCache = &saved
	return nil
}

// NormalizeKey converts key formats (crossref-url, crossref_url, CROSSREF_URL)
// to the dashed form used in Keys.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "timeout-seconds" {
		return "timeout"
	}
	return key
}

// Get returns the value stored under key, as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "mailto":
		return c.Mailto, nil
	case "crossref-url":
		return c.CrossrefURL, nil
	case "timeout":
		if c.TimeoutSeconds == 0 {
			return "", nil
		}
		return strconv.Itoa(c.TimeoutSeconds), nil
	default:
		return "", fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}
}

// Set validates value and stores it under key. An empty value clears the key.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch NormalizeKey(key) {
	case "mailto":
		if value != "" && !strings.Contains(value, "@") {
			return fmt.Errorf("%w: mailto %q is not an email address", ErrInvalid, value)
		}
		c.Mailto = value
	case "crossref-url":
		if value != "" {
			if err := validateURL(value); err != nil {
				return err
			}
		}
		c.CrossrefURL = value
	case "timeout":
		if value == "" {
			c.TimeoutSeconds = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: timeout %q must be a non-negative number of seconds", ErrInvalid, value)
		}
		c.TimeoutSeconds = n
	default:
		return fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}
	return nil
}

// Values returns every key with its stored value.
func (c *GlobalConfig) Values() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k], _ = c.Get(k)
	}
	return out
}
