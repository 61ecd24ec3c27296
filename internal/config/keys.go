package config

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "target-os").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save). Invalid values are
	// rejected with an error.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "endpoint",
		Description: "OVH API endpoint (ovh-eu, ovh-ca, ovh-us)",
		Get:         func(cfg *Config) string { return cfg.Endpoint },
		Set: func(cfg *Config, v string) error {
			switch v {
			case "ovh-eu", "ovh-ca", "ovh-us":
				cfg.Endpoint = v
				return nil
			}
			return fmt.Errorf("config: endpoint must be one of ovh-eu, ovh-ca, ovh-us")
		},
	},
	{
		Name:        "subsidiary",
		Description: "Ordering subsidiary used for carts and the catalog (e.g. IE, FR, DE)",
		Get:         func(cfg *Config) string { return cfg.Subsidiary },
		Set: func(cfg *Config, v string) error {
			v = strings.ToUpper(strings.TrimSpace(v))
			if len(v) != 2 {
				return fmt.Errorf("config: subsidiary must be a two-letter code")
			}
			cfg.Subsidiary = v
			return nil
		},
	},
	{
		Name:        "target-os",
		Description: "Operating system preselected for new purchase tasks",
		Get:         func(cfg *Config) string { return cfg.TargetOS },
		Set: func(cfg *Config, v string) error {
			cfg.TargetOS = v
			return nil
		},
	},
	{
		Name:        "target-duration",
		Description: "Billing period for new purchase tasks (ISO-8601, e.g. P1M)",
		Get:         func(cfg *Config) string { return cfg.TargetDuration },
		Set: func(cfg *Config, v string) error {
			cfg.TargetDuration = v
			return nil
		},
	},
	{
		Name:        "telegram-chat-id",
		Description: "Telegram chat to notify about order outcomes (empty disables)",
		Get:         func(cfg *Config) string { return cfg.TelegramChatID },
		Set: func(cfg *Config, v string) error {
			cfg.TelegramChatID = v
			return nil
		},
	},
	{
		Name:        "default-interval",
		Description: "Check interval in seconds preselected for new tasks (5-600)",
		Get: func(cfg *Config) string {
			if cfg.DefaultIntervalSeconds == 0 {
				return ""
			}
			return strconv.Itoa(cfg.DefaultIntervalSeconds)
		},
		Set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: default-interval must be an integer: %w", err)
			}
			if n < 5 || n > 600 {
				return fmt.Errorf("config: default-interval must be between 5 and 600 seconds")
			}
			cfg.DefaultIntervalSeconds = n
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
