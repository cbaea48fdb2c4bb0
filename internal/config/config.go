package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FallbackURL is used when no other source provides an endpoint URL. It
// points at the shared read-only sheet gateway and carries no token.
const FallbackURL = "https://script.google.com/macros/s/AKfycbziYwpJylR0RqE6rpc1Yehoi3jXNwY4VkkguFznbSF3Of5UkELcN2QL6Yko931mIwz8/exec"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INTAKE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: INTAKE_USER_SHEET -> user_sheet, etc.
	// The endpoint pair is excluded here: it ranks below the config-file
	// sources, so Endpoint resolves it from separate fields instead.
	if err := k.Load(env.Provider("INTAKE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "INTAKE_"))
		if key == "appscript_url" || key == "appscript_token" {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.envURL = os.Getenv("INTAKE_APPSCRIPT_URL")
	cfg.envToken = os.Getenv("INTAKE_APPSCRIPT_TOKEN")

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UserSheet:    "User",
		ConfigSheet:  "Config",
		FetchTimeout: 8,
		CacheTTL:     60,
		Server: Server{
			Port:    8710,
			DataDir: ".intake",
		},
	}
}

// Endpoint resolves the sheet gateway URL and token. Sources are consulted
// in priority order: nested deployment section, flat file keys, environment
// (INTAKE_APPSCRIPT_URL/_TOKEN), then the built-in fallback with no token.
// The first source with a non-empty URL wins and supplies the token.
func (c *Config) Endpoint() (url, token string) {
	if c.Deployment.AppscriptURL != "" {
		return c.Deployment.AppscriptURL, c.Deployment.AppscriptToken
	}
	if c.AppscriptURL != "" {
		return c.AppscriptURL, c.AppscriptToken
	}
	if c.envURL != "" {
		return c.envURL, c.envToken
	}
	return FallbackURL, ""
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.UserSheet == "" {
		return fmt.Errorf("user_sheet is required")
	}
	if c.ConfigSheet == "" {
		return fmt.Errorf("config_sheet is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl_seconds must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
