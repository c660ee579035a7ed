// package config loads the CLI configuration from a TOML file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config is the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Callback    CallbackConfig    `toml:"callback"`
	Export      ExportConfig      `toml:"export"`
}

// CredentialsConfig contains the Spotify application credentials.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	// Scopes are the authorization scopes requested at login.
	Scopes []string `toml:"scopes"`
	// UsePKCE selects the PKCE flow, which needs no client secret.
	UsePKCE bool `toml:"use_pkce"`
}

// DatabaseConfig contains token store settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CallbackConfig contains the loopback server settings used during login.
type CallbackConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ExportConfig contains default settings for playlist exports.
type ExportConfig struct {
	// Format is one of "json", "csv", "markdown" or "txt".
	Format     string `toml:"format"`
	OutputDir  string `toml:"output_dir"`
	NumWorkers int    `toml:"num_workers"`
	// RateLimit is the maximum number of requests per second.
	RateLimit float64 `toml:"rate_limit"`
}

// RedirectURI returns the redirect URI registered for the loopback callback
// server.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d/callback", c.Callback.Host, c.Callback.Port)
}

// Load reads and parses a TOML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Default returns a Config with defaults loaded from the embedded example
// config.
func Default() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile writes the embedded example config to the specified path.
// It refuses to overwrite an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
