// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"flightbridge/cli/internal/dsn"
	"flightbridge/cli/internal/xdg"
)

// Config holds the settings of `flight serve`. Values are layered: defaults,
// then the YAML file, then FLIGHT_SERVER_* variables, then command-line flags.
type Config struct {
	Addr           string        `yaml:"addr"`
	GRPCAddr       string        `yaml:"grpc_addr"`
	Storage        string        `yaml:"storage"`
	APIKey         string        `yaml:"api_key"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	DrainTimeout   time.Duration `yaml:"drain_timeout"`
	ConfigFile     string        `yaml:"-"`
}

// SetDefaults fills every empty field with its built-in default.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Storage == "" {
		c.Storage = dsn.DefaultStorage
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 8 << 20
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 10 * time.Second
	}
	if c.ConfigFile == "" {
		if dir, err := xdg.ConfigDir(); err == nil {
			c.ConfigFile = filepath.Join(dir, "server.yaml")
		}
	}
}

// ApplyEnv overlays FLIGHT_SERVER_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FLIGHT_SERVER_CONFIG"); v != "" {
		c.ConfigFile = v
	}
	if v := os.Getenv("FLIGHT_SERVER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("FLIGHT_SERVER_GRPC_ADDR"); v != "" {
		c.GRPCAddr = v
	}
	if v := os.Getenv("FLIGHT_SERVER_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("FLIGHT_SERVER_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("FLIGHT_SERVER_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitComma(v)
	}
	if v := os.Getenv("FLIGHT_SERVER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FLIGHT_SERVER_DRAIN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DrainTimeout = d
		}
	}
}

// LoadFile populates the config from a YAML file. A missing file is not an
// error.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

func splitComma(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
