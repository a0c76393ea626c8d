// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flightbridge/cli/internal/bridge"
)

var (
	outputFormat string

	fetchLimit  int
	fetchOffset int
	fetchOrder  string
)

var insertCmd = &cobra.Command{
	Use:     "insert TABLE JSON",
	Short:   "Insert a record",
	Example: `  flight insert users '{"name":"Ada","age":36}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseObject(args[1])
		if err != nil {
			return err
		}
		return run(cmd, "inserting", func(b *bridge.Bridge) bridge.Result {
			return b.Insert(cmd.Context(), args[0], data)
		})
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch TABLE [column=value ...]",
	Short: "Fetch records, optionally filtered",
	Long: `Fetch records of TABLE. Each column=value argument is forwarded as a query
param; the reference backend treats them as equality filters and reserves
_limit, _offset and _order.`,
	Example: `  flight fetch users active=true --limit 10 --order -age`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		if fetchLimit > 0 {
			query["_limit"] = fetchLimit
		}
		if fetchOffset > 0 {
			query["_offset"] = fetchOffset
		}
		if fetchOrder != "" {
			query["_order"] = fetchOrder
		}
		return run(cmd, "fetching", func(b *bridge.Bridge) bridge.Result {
			return b.Fetch(cmd.Context(), args[0], query)
		})
	},
}

var updateCmd = &cobra.Command{
	Use:     "update TABLE ID JSON",
	Short:   "Update a record by id",
	Example: `  flight update users 42 '{"age":37}'`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseObject(args[2])
		if err != nil {
			return err
		}
		return run(cmd, "updating", func(b *bridge.Bridge) bridge.Result {
			return b.Update(cmd.Context(), args[0], parseValue(args[1]), data)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete TABLE ID",
	Short: "Delete a record by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, "deleting", func(b *bridge.Bridge) bridge.Result {
			return b.Delete(cmd.Context(), args[0], parseValue(args[1]))
		})
	},
}

var searchCmd = &cobra.Command{
	Use:     "search TABLE COLUMN VALUE",
	Short:   "Search a column for a value",
	Example: `  flight search users name Ada`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, "searching", func(b *bridge.Bridge) bridge.Result {
			return b.Search(cmd.Context(), args[0], args[1], parseValue(args[2]))
		})
	},
}

var rawCmd = &cobra.Command{
	Use:     "raw SQL [PARAM ...]",
	Short:   "Run a raw statement with positional params",
	Example: `  flight raw 'SELECT * FROM users WHERE age > $1' 30`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := make([]any, 0, len(args)-1)
		for _, a := range args[1:] {
			params = append(params, parseValue(a))
		}
		return run(cmd, "running query", func(b *bridge.Bridge) bridge.Result {
			return b.Raw(cmd.Context(), args[0], params)
		})
	},
}

// run performs one bridge call and prints its result.
func run(cmd *cobra.Command, doing string, fn func(*bridge.Bridge) bridge.Result) error {
	switch outputFormat {
	case "json", "table", "none":
	default:
		return fmt.Errorf("unknown output format %q (want json, table or none)", outputFormat)
	}
	s := openSession()
	r := call(doing, func() bridge.Result { return fn(s.bridge) })
	return report(cmd.OutOrStdout(), r, outputFormat)
}

func init() {
	for _, c := range []*cobra.Command{insertCmd, fetchCmd, updateCmd, deleteCmd, searchCmd, rawCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json, table or none")
		rootCmd.AddCommand(c)
	}
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Maximum number of rows")
	fetchCmd.Flags().IntVar(&fetchOffset, "offset", 0, "Rows to skip")
	fetchCmd.Flags().StringVar(&fetchOrder, "order", "", `Sort column; prefix "-" or suffix " desc" for descending`)
}
