// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of the Flight CLI. The data
// commands forward one bridge request each to the configured backend, connect
// persists connection params, render mounts fetched rows into a UI tree and
// serve runs the reference backend.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"flightbridge/cli/internal/config"
	"flightbridge/cli/internal/logging"
	"flightbridge/cli/internal/logx"
)

var (
	showVersion bool

	flagEndpoint  string
	flagTransport string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagNoProfile bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flight",
	Short: "Flight CLI for talking to a Flight bridge backend",
	Long: `Flight sends insert, fetch, update, delete, search and raw requests to a
Flight bridge backend over HTTP or gRPC, and can run a reference backend
itself with "flight serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logx.Log.Warn().Err(err).Msg("config unreadable, using defaults")
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		logx.Configure(cfg.LogLevel)
		settings = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeSession()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Errors are printed with secrets masked.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("flight", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagEndpoint, "endpoint", "", "Bridge endpoint URL (overrides config and FLIGHT_ENDPOINT)")
	pf.StringVar(&flagTransport, "transport", "", "Wire protocol: http or grpc")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Round-trip timeout (e.g. 10s)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, none")
	pf.BoolVar(&flagNoProfile, "no-profile", false, "Ignore the connection profile saved by connect")
}
