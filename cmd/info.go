// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"flightbridge/cli/internal/endpoint"
	"flightbridge/cli/internal/logging"
)

// infoCmd shows where requests go and what they carry, with secrets masked.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current endpoint, transport and connection params",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		cfg := s.holder.Snapshot()

		source := "default (derived from " + endpoint.LoaderEnv + ")"
		switch {
		case flagEndpoint != "":
			source = "--endpoint flag"
		case s.holder.Overridden():
			source = "saved profile"
		case settings.Endpoint != "":
			source = "config file"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Endpoint:  %s\n", cfg.Endpoint)
		fmt.Fprintf(&b, "Source:    %s\n", source)
		fmt.Fprintf(&b, "Transport: %s\n", s.kind)
		if len(cfg.Params) == 0 {
			b.WriteString("Params:    (none)")
		} else {
			b.WriteString("Params:    " + logging.FormatParams(cfg.Params))
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Bridge Connection")).
			WithPadding(1).
			Println(b.String())
		pterm.Println()
		pterm.Println("To update these params, run: flight connect")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
