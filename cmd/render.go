// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/mount"
	"flightbridge/cli/internal/store"
	"flightbridge/cli/internal/ui"
)

var (
	renderTitle string
	renderWatch time.Duration
)

// renderCmd fetches a table into a store and mounts a view of it, printing
// the resulting HTML after every state change.
var renderCmd = &cobra.Command{
	Use:   "render TABLE [column=value ...]",
	Short: "Render fetched rows as an HTML table",
	Long: `The render command fetches TABLE, keeps the rows in a state store and
mounts a table view into an "app" container. The container's HTML is printed
whenever the state changes. With --watch the table is refetched on an interval
until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		table := args[0]
		title := renderTitle
		if title == "" {
			title = table
		}

		s := openSession()
		st := store.New(store.State{"title": title, "rows": []map[string]any{}, "status": "loading"})
		app := ui.NewElement("div")
		app.SetAttribute("id", "app")

		unbind, err := mount.Bind(app, st, tableView)
		if err != nil {
			return err
		}
		defer unbind()

		out := cmd.OutOrStdout()
		unsubscribe := st.Subscribe(func(store.State) { printTree(out, app) })
		defer unsubscribe()

		refresh := func(ctx context.Context) error {
			r := s.bridge.Fetch(ctx, table, query)
			if !r.Success {
				st.SetState(store.State{"status": "error: " + r.Error})
				return r.Err()
			}
			rows, err := r.Rows()
			if err != nil {
				return err
			}
			st.SetState(store.State{"rows": rows, "status": fmt.Sprintf("%d rows", len(rows))})
			return nil
		}

		if renderWatch <= 0 {
			return refresh(cmd.Context())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		t := time.NewTicker(renderWatch)
		defer t.Stop()
		for {
			if err := refresh(ctx); err != nil {
				logx.Log.Warn().Err(err).Str("table", table).Msg("refresh failed")
			}
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
	},
}

// tableView renders the store state as a titled table.
func tableView(state store.State) *ui.Node {
	title, _ := state["title"].(string)
	status, _ := state["status"].(string)
	rows, _ := state["rows"].([]map[string]any)

	body := []any{}
	var cols []string
	if len(rows) > 0 {
		cols = columnsOf(rows)
		head := make([]any, 0, len(cols))
		for _, c := range cols {
			head = append(head, ui.CreateElement("th", nil, c))
		}
		body = append(body, ui.CreateElement("tr", ui.Props{"className": "head"}, head...))
	}
	for _, row := range rows {
		cells := make([]any, 0, len(cols))
		for _, c := range cols {
			text := ""
			if v, ok := row[c]; ok && v != nil {
				text = cell(v)
			}
			cells = append(cells, ui.CreateElement("td", nil, text))
		}
		body = append(body, ui.CreateElement("tr", nil, cells...))
	}

	return ui.CreateElement("section", ui.Props{"className": "flight-table"},
		ui.CreateElement("h1", nil, title),
		ui.CreateElement("p", ui.Props{"className": "status"}, status),
		ui.CreateElement("table", nil, body...),
	)
}

func printTree(w io.Writer, n *ui.Node) {
	if err := n.Render(w); err != nil {
		logx.Log.Error().Err(err).Msg("render failed")
		return
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Heading of the rendered table (defaults to TABLE)")
	renderCmd.Flags().DurationVar(&renderWatch, "watch", 0, "Refetch on this interval until interrupted")
}
