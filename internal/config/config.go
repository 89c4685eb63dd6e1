package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envPrefix is the prefix of environment overrides. Nested keys use a double
// underscore: CADENA_SERVER__PORT -> server.port.
const envPrefix = "CADENA_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CADENA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps CADENA_CHAT__MAX_TOKENS to chat.max_tokens.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
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

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}

	if c.Runtime.Host == "" {
		return fmt.Errorf("runtime.host is required")
	}
	if u, err := url.Parse(c.Runtime.Host); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid runtime.host %q: must be an absolute URL", c.Runtime.Host)
	}

	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be between 0 and 2")
	}
	if c.Chat.MaxTokens < 1 || c.Chat.MaxTokens > 2048 {
		return fmt.Errorf("chat.max_tokens must be between 1 and 2048")
	}

	if len(c.Chess.AllowedHosts) == 0 {
		return fmt.Errorf("chess.allowed_hosts must not be empty")
	}
	if c.Chess.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("chess.fetch_timeout_seconds must be non-negative")
	}

	return nil
}

// DatabasePath returns the location of the SQLite database inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cadena.db")
}

// MaskToken renders a credential for diagnostics without revealing it.
func MaskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
