// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgengine

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"flightbridge/cli/internal/engine"
)

// TableInfo is the part of a table's schema the engine needs: the key
// column used for ids and whether it is filled by a sequence.
type TableInfo struct {
	Schema        string
	Table         string
	PrimaryKey    string
	AutoIncrement bool
}

// SchemaInspector reads primary key metadata from information_schema and
// caches it per table name.
type SchemaInspector struct {
	pool  *pgxpool.Pool
	mu    sync.RWMutex
	cache map[string]*TableInfo
}

func NewSchemaInspector(pool *pgxpool.Pool) *SchemaInspector {
	return &SchemaInspector{pool: pool, cache: make(map[string]*TableInfo)}
}

// Lookup returns the cached info for table ("name" or "schema.name"). Tables
// without a primary key fall back to the "id" column.
func (si *SchemaInspector) Lookup(ctx context.Context, table string) (*TableInfo, error) {
	si.mu.RLock()
	info, ok := si.cache[table]
	si.mu.RUnlock()
	if ok {
		return info, nil
	}

	schema, name := splitTableName(table)
	info = &TableInfo{Schema: schema, Table: name, PrimaryKey: engine.IDColumn}

	conn, err := si.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const pkQuery = `
		SELECT kc.column_name, COALESCE(c.column_default LIKE 'nextval%' OR c.is_identity = 'YES', false)
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kc
		  ON tc.constraint_name = kc.constraint_name AND tc.table_schema = kc.table_schema
		JOIN information_schema.columns c
		  ON kc.table_schema = c.table_schema AND kc.table_name = c.table_name AND kc.column_name = c.column_name
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kc.ordinal_position
		LIMIT 1`
	err = conn.QueryRow(ctx, pkQuery, schema, name).Scan(&info.PrimaryKey, &info.AutoIncrement)
	if err != nil && !isNoRows(err) {
		return nil, err
	}

	si.mu.Lock()
	si.cache[table] = info
	si.mu.Unlock()
	return info, nil
}

// ClearCache drops cached metadata, e.g. after a raw DDL statement.
func (si *SchemaInspector) ClearCache() {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.cache = make(map[string]*TableInfo)
}

// splitTableName defaults the schema to public.
func splitTableName(table string) (schema, name string) {
	if s, n, ok := strings.Cut(table, "."); ok {
		return s, n
	}
	return "public", table
}
