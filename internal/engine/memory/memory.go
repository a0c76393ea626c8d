// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package memory is a process-local storage engine. Rows live in insertion
// order per table and vanish with the process.
package memory

import (
	"context"
	"maps"
	"sync"

	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/errors"
)

// Engine keeps tables in memory.
type Engine struct {
	mu     sync.RWMutex
	tables map[string][]engine.Row
}

func New() *Engine {
	return &Engine{tables: make(map[string][]engine.Row)}
}

func (e *Engine) Name() string { return "memory" }

func (e *Engine) Close() error { return nil }

func (e *Engine) Insert(_ context.Context, table string, data engine.Row) (any, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	row := maps.Clone(data)
	if row == nil {
		row = engine.Row{}
	}
	id, ok := row[engine.IDColumn]
	if !ok || engine.KeyOf(id) == "" {
		id = engine.NewID()
		row[engine.IDColumn] = id
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(table, id) >= 0 {
		return nil, errors.New(errors.InvalidRequest, "duplicate id "+engine.KeyOf(id))
	}
	e.tables[table] = append(e.tables[table], row)
	return id, nil
}

func (e *Engine) Fetch(_ context.Context, table string, q engine.Query) ([]engine.Row, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneRows(q.Apply(e.tables[table])), nil
}

func (e *Engine) Update(_ context.Context, table string, id any, data engine.Row) (int64, error) {
	if err := engine.CheckTable(table); err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(table, id)
	if i < 0 {
		return 0, nil
	}
	// Rows handed out by Fetch are copies, so replacing is enough.
	next := maps.Clone(e.tables[table][i])
	maps.Copy(next, data)
	next[engine.IDColumn] = e.tables[table][i][engine.IDColumn]
	e.tables[table][i] = next
	return 1, nil
}

func (e *Engine) Delete(_ context.Context, table string, id any) (int64, error) {
	if err := engine.CheckTable(table); err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(table, id)
	if i < 0 {
		return 0, nil
	}
	rows := e.tables[table]
	e.tables[table] = append(rows[:i:i], rows[i+1:]...)
	return 1, nil
}

func (e *Engine) Search(_ context.Context, table, column string, value any) ([]engine.Row, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	if column == "" {
		return nil, errors.New(errors.InvalidRequest, "search column is required")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []engine.Row{}
	for _, r := range e.tables[table] {
		if engine.Contains(r, column, value) {
			out = append(out, maps.Clone(r))
		}
	}
	return out, nil
}

func (e *Engine) Raw(context.Context, string, []any) (engine.RawResult, error) {
	return engine.RawResult{}, engine.ErrRawUnsupported
}

// indexOf must be called with mu held.
func (e *Engine) indexOf(table string, id any) int {
	key := engine.KeyOf(id)
	for i, r := range e.tables[table] {
		if engine.KeyOf(r[engine.IDColumn]) == key {
			return i
		}
	}
	return -1
}

func cloneRows(rows []engine.Row) []engine.Row {
	out := make([]engine.Row, len(rows))
	for i, r := range rows {
		out[i] = maps.Clone(r)
	}
	return out
}
