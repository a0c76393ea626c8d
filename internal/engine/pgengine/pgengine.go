// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgengine stores rows in PostgreSQL tables through a pgx pool. It is
// the only engine that runs raw SQL.
package pgengine

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flightbridge/cli/internal/dsn"
	"flightbridge/cli/internal/engine"
	ferrors "flightbridge/cli/internal/errors"
	"flightbridge/cli/internal/logx"
)

// Engine is safe for concurrent use.
type Engine struct {
	Pool      *pgxpool.Pool
	inspector *SchemaInspector
}

// Open normalizes the postgres URL, connects and pings.
func Open(ctx context.Context, raw string) (*Engine, error) {
	normalized, err := dsn.Normalize(raw)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, normalized)
	if err != nil {
		return nil, engine.Failed("connect to postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, engine.Failed("connect to postgres", err)
	}
	return New(pool), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Engine {
	return &Engine{Pool: pool, inspector: NewSchemaInspector(pool)}
}

func (e *Engine) Name() string { return "postgres" }

func (e *Engine) Close() error {
	e.Pool.Close()
	return nil
}

func (e *Engine) table(ctx context.Context, table string) (*TableInfo, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	ti, err := e.inspector.Lookup(ctx, table)
	if err != nil {
		return nil, engine.Failed("inspect "+table, err)
	}
	return ti, nil
}

func (e *Engine) Insert(ctx context.Context, table string, data engine.Row) (any, error) {
	ti, err := e.table(ctx, table)
	if err != nil {
		return nil, err
	}
	if _, ok := data[ti.PrimaryKey]; !ok && !ti.AutoIncrement {
		data = withID(data, ti.PrimaryKey, engine.NewID())
	}
	st := buildInsert(ti, data)
	var id any
	if err := e.Pool.QueryRow(ctx, st.sql, st.args...).Scan(&id); err != nil {
		return nil, engine.Failed("insert", err)
	}
	return normalizeValue(id), nil
}

func withID(data engine.Row, col, id string) engine.Row {
	out := maps.Clone(data)
	if out == nil {
		out = engine.Row{}
	}
	out[col] = id
	return out
}

func (e *Engine) Fetch(ctx context.Context, table string, q engine.Query) ([]engine.Row, error) {
	ti, err := e.table(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := e.query(ctx, buildSelect(ti, q))
	if err != nil {
		return nil, engine.Failed("fetch", err)
	}
	return rows, nil
}

func (e *Engine) Update(ctx context.Context, table string, id any, data engine.Row) (int64, error) {
	ti, err := e.table(ctx, table)
	if err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	st := buildUpdate(ti, id, data)
	if len(st.args) == 1 {
		return 0, ferrors.New(ferrors.InvalidRequest, "update needs at least one column")
	}
	tag, err := e.Pool.Exec(ctx, st.sql, st.args...)
	if err != nil {
		return 0, engine.Failed("update", err)
	}
	return tag.RowsAffected(), nil
}

func (e *Engine) Delete(ctx context.Context, table string, id any) (int64, error) {
	ti, err := e.table(ctx, table)
	if err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	st := buildDelete(ti, id)
	tag, err := e.Pool.Exec(ctx, st.sql, st.args...)
	if err != nil {
		return 0, engine.Failed("delete", err)
	}
	return tag.RowsAffected(), nil
}

func (e *Engine) Search(ctx context.Context, table, column string, value any) ([]engine.Row, error) {
	ti, err := e.table(ctx, table)
	if err != nil {
		return nil, err
	}
	if column == "" {
		return nil, ferrors.New(ferrors.InvalidRequest, "search column is required")
	}
	rows, err := e.query(ctx, buildSearch(ti, column, value))
	if err != nil {
		return nil, engine.Failed("search", err)
	}
	return rows, nil
}

// Raw runs sql inside a transaction and returns its rows (if any) and the
// affected row count. Cached schema metadata is dropped afterwards since the
// statement may have changed a table.
func (e *Engine) Raw(ctx context.Context, sql string, params []any) (engine.RawResult, error) {
	if sql == "" {
		return engine.RawResult{}, ferrors.New(ferrors.InvalidRequest, "sql is required")
	}
	defer e.inspector.ClearCache()

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return engine.RawResult{}, engine.Failed("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, sql, params...)
	if err != nil {
		return engine.RawResult{}, engine.Failed("raw", err)
	}
	out, err := collect(rows)
	if err != nil {
		return engine.RawResult{}, engine.Failed("raw", err)
	}
	affected := rows.CommandTag().RowsAffected()
	if err := tx.Commit(ctx); err != nil {
		return engine.RawResult{}, engine.Failed("commit", err)
	}
	logx.Log.Debug().Int("rows", len(out)).Int64("affected", affected).Msg("raw statement executed")
	return engine.RawResult{Rows: out, Affected: affected}, nil
}

func (e *Engine) query(ctx context.Context, st statement) ([]engine.Row, error) {
	rows, err := e.Pool.Query(ctx, st.sql, st.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// collect drains rows into maps keyed by column name and closes rows.
func collect(rows pgx.Rows) ([]engine.Row, error) {
	defer rows.Close()
	fds := rows.FieldDescriptions()
	out := []engine.Row{}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(engine.Row, len(fds))
		for i, fd := range fds {
			row[fd.Name] = normalizeValue(vals[i])
		}
		out = append(out, row)
	}
	rows.Close()
	return out, rows.Err()
}

// normalizeValue turns pgx values that do not marshal to readable JSON into
// strings: UUIDs as their canonical form and other byte slices as hex.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return formatUUID(x)
	case []byte:
		if len(x) == 16 {
			return formatUUID([16]byte(x))
		}
		return fmt.Sprintf("\\x%x", x)
	}
	return v
}

func formatUUID(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
