// Package config handles persistent user configuration for ecosniper.
//
// Configuration is stored as JSON at ~/.config/ecosniper/config.json (or
// the platform-equivalent path returned by os.UserConfigDir). Secrets are
// never stored here; they live in the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "ecosniper"
	fileName = "config.json"
)

// Defaults applied when a field is unset.
const (
	DefaultEndpoint   = "ovh-eu"
	DefaultSubsidiary = "IE"
	DefaultOS         = "none_64.en"
	DefaultDuration   = "P1M"
	DefaultInterval   = 60
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	// Endpoint is the OVH API endpoint name ("ovh-eu", "ovh-ca", "ovh-us").
	Endpoint string `json:"endpoint,omitempty"`

	// Subsidiary selects the ordering region and catalog ("IE", "FR", ...).
	Subsidiary string `json:"subsidiary,omitempty"`

	// TargetOS is the operating system preselected for new tasks.
	TargetOS string `json:"target_os,omitempty"`

	// TargetDuration is the ISO-8601 billing period for new tasks.
	TargetDuration string `json:"target_duration,omitempty"`

	// TelegramChatID is where order notifications go. Empty disables them.
	TelegramChatID string `json:"telegram_chat_id,omitempty"`

	// DefaultIntervalSeconds is the check interval preselected for new tasks.
	DefaultIntervalSeconds int `json:"default_interval_seconds,omitempty"`
}

// EndpointOrDefault returns the configured endpoint or "ovh-eu".
func (c *Config) EndpointOrDefault() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// SubsidiaryOrDefault returns the configured subsidiary or "IE".
func (c *Config) SubsidiaryOrDefault() string {
	if c.Subsidiary == "" {
		return DefaultSubsidiary
	}
	return c.Subsidiary
}

// TargetOSOrDefault returns the configured OS or "none_64.en".
func (c *Config) TargetOSOrDefault() string {
	if c.TargetOS == "" {
		return DefaultOS
	}
	return c.TargetOS
}

// TargetDurationOrDefault returns the configured duration or "P1M".
func (c *Config) TargetDurationOrDefault() string {
	if c.TargetDuration == "" {
		return DefaultDuration
	}
	return c.TargetDuration
}

// IntervalOrDefault returns the configured check interval or 60 seconds.
func (c *Config) IntervalOrDefault() int {
	if c.DefaultIntervalSeconds == 0 {
		return DefaultInterval
	}
	return c.DefaultIntervalSeconds
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

// loadFrom reads the config from the given path. If path is empty, the
// default Path() is used. Exported only for testing via LoadFrom.
func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

// saveTo writes the config to the given path. If path is empty, the
// default Path() is used.
func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
