// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"flightbridge/cli/internal/bridge"
	"flightbridge/cli/internal/httperrors"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// startSpinner shows an inline spinner with text while a bridge call runs.
// It is a no-op when stdout is not a terminal. The returned func stops it and
// removes the line.
func startSpinner(text string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for i := 0; ; i++ {
			area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			select {
			case <-t.C:
			case <-stop:
				return
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
		_ = area.Stop()
		cursor.Show()
	}
}

// call runs fn behind a spinner.
func call(text string, fn func() bridge.Result) bridge.Result {
	stop := startSpinner(text)
	defer stop()
	return fn()
}

// report prints r as JSON, as a table ("table") or not at all ("none") and
// returns its error. Transport
// failures get the network diagnosis from httperrors first.
func report(w io.Writer, r bridge.Result, format string) error {
	if !r.Success {
		if cause := r.Cause(); cause != nil {
			_ = httperrors.FormatNetworkError(cause, openSession().holder.Snapshot().Endpoint)
		} else {
			pterm.Error.Println(r.Error)
		}
		return r.Err()
	}
	switch format {
	case "none":
		return nil
	case "table":
		if rows, err := r.Rows(); err == nil {
			return printRows(w, rows)
		}
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

// printRows renders rows as a table. Columns are the union of every row's
// keys, sorted, with "id" first when present.
func printRows(w io.Writer, rows []map[string]any) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}
	cols := columnsOf(rows)
	data := pterm.TableData{cols}
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := row[c]; ok && v != nil {
				line[i] = cell(v)
			}
		}
		data = append(data, line)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

func columnsOf(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if i := slices.Index(cols, "id"); i > 0 {
		cols = append([]string{"id"}, slices.Delete(cols, i, i+1)...)
	}
	return cols
}

func cell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any, []any:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
