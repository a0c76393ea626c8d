// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/server"
)

var serveFlags server.Config

// serveCmd runs the reference backend.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a Flight bridge backend",
	Long: `The serve command runs a backend that answers bridge envelopes over HTTP
(POST / and POST /flight.php) and, with --grpc-addr, over gRPC.

Records are kept in the storage given by --storage:
  memory://                      in-process, lost on exit (default)
  redis://host:6379/0            Redis hashes
  postgres://user:pw@host/db     PostgreSQL tables (also enables raw)

Settings are layered: built-in defaults, the YAML file given by --config,
FLIGHT_SERVER_* variables, then flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServerConfig(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("log-level") {
			logx.Configure(cfg.LogLevel)
		}
		if cfg.LogJSON {
			logx.UseJSON(os.Stderr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, cfg, Version)
	},
}

// loadServerConfig layers defaults, the YAML file, the environment and the
// flags that were set explicitly.
func loadServerConfig(cmd *cobra.Command) (server.Config, error) {
	path := firstNonEmpty(serveFlags.ConfigFile, os.Getenv("FLIGHT_SERVER_CONFIG"))
	if path == "" {
		var d server.Config
		d.SetDefaults()
		path = d.ConfigFile
	}
	var cfg server.Config
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}
	cfg.ConfigFile = path
	cfg.ApplyEnv()
	overlayFlags(cmd, &cfg)
	cfg.SetDefaults()
	return cfg, nil
}

func overlayFlags(cmd *cobra.Command, cfg *server.Config) {
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr = serveFlags.Addr
	}
	if f.Changed("grpc-addr") {
		cfg.GRPCAddr = serveFlags.GRPCAddr
	}
	if f.Changed("storage") {
		cfg.Storage = serveFlags.Storage
	}
	if f.Changed("api-key") {
		cfg.APIKey = serveFlags.APIKey
	}
	if f.Changed("allow-origin") {
		cfg.AllowedOrigins = serveFlags.AllowedOrigins
	}
	if f.Changed("log-json") {
		cfg.LogJSON = serveFlags.LogJSON
	}
	if f.Changed("drain-timeout") {
		cfg.DrainTimeout = serveFlags.DrainTimeout
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.ConfigFile, "config", "", "YAML config file (default $XDG_CONFIG_HOME/flightbridge/server.yaml)")
	f.StringVar(&serveFlags.Addr, "addr", ":8080", "HTTP listen address")
	f.StringVar(&serveFlags.GRPCAddr, "grpc-addr", "", "gRPC listen address (disabled when empty)")
	f.StringVar(&serveFlags.Storage, "storage", "memory://", "Storage URL: memory://, redis://..., postgres://...")
	f.StringVar(&serveFlags.APIKey, "api-key", "", "Require config.key to match this value")
	f.StringSliceVar(&serveFlags.AllowedOrigins, "allow-origin", nil, "CORS origin allowed to call the backend (repeatable)")
	f.BoolVar(&serveFlags.LogJSON, "log-json", false, "Write JSON log lines")
	f.DurationVar(&serveFlags.DrainTimeout, "drain-timeout", 0, "How long to wait for in-flight requests on shutdown")
}
