// Package config loads the CLI configuration from the user config
// directory, with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cozeauth/pkg/oauth"
)

const (
	userConfigDir  = ".config/cozeauth"
	configFileName = "config.yaml"
)

// Config holds the CLI configuration. Every field can also come from the
// environment; the environment wins over the file.
type Config struct {
	// BaseURL is the API base URL (COZE_API_BASE).
	BaseURL string `yaml:"base_url"`

	// WWWBaseURL overrides the derived authorization-page base URL.
	WWWBaseURL string `yaml:"www_base_url,omitempty"`

	// ClientID is the OAuth client id (COZE_CLIENT_ID).
	ClientID string `yaml:"client_id"`

	// ClientSecret is the client secret for the web flow (COZE_CLIENT_SECRET).
	ClientSecret string `yaml:"client_secret,omitempty"`

	// PublicKeyID is the key id for the JWT-bearer flow (COZE_PUBLIC_KEY_ID).
	PublicKeyID string `yaml:"public_key_id,omitempty"`

	// PrivateKeyFile is the path to the PEM private key for the JWT-bearer
	// flow (COZE_PRIVATE_KEY_FILE).
	PrivateKeyFile string `yaml:"private_key_file,omitempty"`

	// WorkspaceID scopes authorization requests to a workspace.
	WorkspaceID string `yaml:"workspace_id,omitempty"`

	// RedirectPort is the local callback port for the browser login flow.
	RedirectPort int `yaml:"redirect_port,omitempty"`

	// UseKeyring stores credentials in the OS keyring instead of files.
	UseKeyring bool `yaml:"use_keyring,omitempty"`
}

// envOverrides maps environment variables onto config fields.
var envOverrides = map[string]func(*Config, string){
	"COZE_API_BASE":         func(c *Config, v string) { c.BaseURL = v },
	"COZE_CLIENT_ID":        func(c *Config, v string) { c.ClientID = v },
	"COZE_CLIENT_SECRET":    func(c *Config, v string) { c.ClientSecret = v },
	"COZE_PUBLIC_KEY_ID":    func(c *Config, v string) { c.PublicKeyID = v },
	"COZE_PRIVATE_KEY_FILE": func(c *Config, v string) { c.PrivateKeyFile = v },
	"COZE_WORKSPACE_ID":     func(c *Config, v string) { c.WorkspaceID = v },
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		BaseURL:      oauth.ComBaseURL,
		RedirectPort: 3000,
	}
}

// DefaultPath returns the default config file path under the user's home
// directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// Load reads the config file at path, starting from the defaults and
// applying environment overrides last. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		slog.Debug("loaded config", "path", path)
	}

	for name, apply := range envOverrides {
		if value := os.Getenv(name); value != "" {
			apply(&cfg, value)
		}
	}
	return cfg, nil
}

// Validate checks the fields every flow needs.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("client_id is not configured (set it in config.yaml or COZE_CLIENT_ID)")
	}
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	return nil
}

// ValidateJWT checks the additional fields the JWT-bearer flow needs.
func (c *Config) ValidateJWT() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PublicKeyID == "" {
		return errors.New("public_key_id is not configured")
	}
	if c.PrivateKeyFile == "" {
		return errors.New("private_key_file is not configured")
	}
	return nil
}
