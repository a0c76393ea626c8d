// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; connection params go to the OS
// keychain through internal/profile.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flightbridge/cli/internal/xdg"
)

// Transport names accepted in Config.Transport.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string `json:"log_level"`
	// Endpoint overrides the discovered bridge URL when non-empty.
	Endpoint string `json:"endpoint"`
	// Transport selects the wire protocol: "http" (default) or "grpc".
	Transport string `json:"transport"`
	// TimeoutSeconds bounds a single bridge round trip; 0 leaves it to the network.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Defaults returns the settings used when no config file exists.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		Transport:      TransportHTTP,
		TimeoutSeconds: 30,
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables FLIGHT_ENDPOINT and FLIGHT_LOG_LEVEL override the file.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	c.ApplyEnv()
	c.normalize()
	return c, nil
}

// ApplyEnv overlays environment variables onto the current config values.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("FLIGHT_ENDPOINT")); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("FLIGHT_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) normalize() {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport != TransportGRPC {
		c.Transport = TransportHTTP
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
