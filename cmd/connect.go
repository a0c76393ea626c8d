// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"flightbridge/cli/internal/bridge"
	"flightbridge/cli/internal/logging"
	"flightbridge/cli/internal/profile"
	"flightbridge/cli/internal/terminal"
)

var (
	connectURL    string
	connectVerify string
	connectNoSave bool
)

// connectCmd stores connection params for subsequent bridge calls.
var connectCmd = &cobra.Command{
	Use:   "connect [key=value ...]",
	Short: "Set the connection params sent with every request",
	Long: `The connect command sets the params forwarded verbatim as "config" with
every request, and optionally a custom bridge URL. Params are saved in the OS
keychain so later invocations reuse them.

Values are parsed as JSON when possible: port=5432 is a number, tls=true a
boolean. Without arguments the params are prompted for and erased from the
terminal after entry.

Example: flight connect host=db.local user=app password=secret --url http://localhost:8080/flight.php`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words := args
		if len(words) == 0 && connectURL == "" {
			line, err := promptParams()
			if err != nil {
				return err
			}
			words = strings.Fields(line)
		}
		params, err := parseAssignments(words)
		if err != nil {
			return err
		}

		s := openSession()
		s.holder.Connect(params, connectURL)
		cfg := s.holder.Snapshot()

		if connectVerify != "" {
			r := call("verifying connection", func() bridge.Result {
				return s.bridge.Fetch(cmd.Context(), connectVerify, map[string]any{"_limit": 1})
			})
			if err := report(cmd.OutOrStdout(), r, "none"); err != nil {
				pterm.Println("Connection failed. Params were not saved.")
				return err
			}
		}

		if !connectNoSave {
			st, err := profile.Default()
			if err != nil {
				pterm.Warning.Println("Secure storage is not available on this system; params apply to this run only.")
				return err
			}
			p := profile.Profile{Params: params}
			if s.holder.Overridden() {
				p.Endpoint = cfg.Endpoint
			}
			if err := st.Save(p); err != nil {
				pterm.Error.Println("Failed to save connection params securely.")
				return err
			}
		}

		pterm.Success.Printf("Connected to %s\n", cfg.Endpoint)
		if len(params) > 0 {
			pterm.Println("   params: " + logging.FormatParams(params))
		}
		return nil
	},
}

// disconnectCmd removes the saved profile.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the saved connection params",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := profile.Default()
		if err != nil {
			return err
		}
		if err := st.Clear(); err != nil {
			return err
		}
		pterm.Success.Println("Saved connection params removed")
		return nil
	},
}

func promptParams() (string, error) {
	prompt := "Enter connection params (key=value ...): "
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(line)
	terminal.ClearPreviousLines(len(prompt) + len(line))
	if line == "" {
		if err != nil {
			return "", err
		}
		return "", errors.New("no params entered")
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(connectCmd, disconnectCmd)
	connectCmd.Flags().StringVar(&connectURL, "url", "", "Custom bridge URL to use instead of the default")
	connectCmd.Flags().StringVar(&connectVerify, "verify", "", "Fetch one row of this table before saving")
	connectCmd.Flags().BoolVar(&connectNoSave, "no-save", false, "Do not store the params in the keychain")
}
