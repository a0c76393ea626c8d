// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package engine defines the storage contract of the reference backend and
// the row helpers shared by its implementations.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"flightbridge/cli/internal/errors"
)

// Row is one stored record.
type Row = map[string]any

// RawResult is the outcome of a raw statement.
type RawResult struct {
	Rows     []Row
	Affected int64
}

// Engine executes the data actions of the envelope protocol. Implementations
// must be safe for concurrent use.
type Engine interface {
	// Insert stores data and returns its id. A missing "id" is generated.
	Insert(ctx context.Context, table string, data Row) (any, error)
	Fetch(ctx context.Context, table string, q Query) ([]Row, error)
	// Update merges data into the row with the given id.
	Update(ctx context.Context, table string, id any, data Row) (int64, error)
	Delete(ctx context.Context, table string, id any) (int64, error)
	// Search returns rows whose column contains value, ignoring case.
	Search(ctx context.Context, table, column string, value any) ([]Row, error)
	Raw(ctx context.Context, sql string, params []any) (RawResult, error)
	Name() string
	Close() error
}

// IDColumn is the key column used by engines without a schema.
const IDColumn = "id"

// ErrRawUnsupported is returned by engines that cannot run SQL.
var ErrRawUnsupported = errors.New(errors.InvalidRequest, "raw statements require the postgres engine")

// NewID returns a fresh row id.
func NewID() string { return uuid.NewString() }

// CheckTable rejects empty table names.
func CheckTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return errors.New(errors.InvalidRequest, "table is required")
	}
	return nil
}

// CheckID rejects a missing id.
func CheckID(id any) error {
	if id == nil || KeyOf(id) == "" {
		return errors.New(errors.InvalidRequest, "id is required")
	}
	return nil
}

// KeyOf returns the canonical string form of an id or column value. JSON
// numbers decode as float64, so 7 and 7.0 share a key.
func KeyOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprint(int64(x))
		}
	case float32:
		if x == float32(int64(x)) {
			return fmt.Sprint(int64(x))
		}
	}
	return fmt.Sprint(v)
}

// Matches reports whether row equals every filter.
func Matches(row Row, filters map[string]any) bool {
	for k, want := range filters {
		got, ok := row[k]
		if !ok || KeyOf(got) != KeyOf(want) {
			return false
		}
	}
	return true
}

// Contains reports whether row[column] contains value, ignoring case.
func Contains(row Row, column string, value any) bool {
	got, ok := row[column]
	if !ok || got == nil {
		return false
	}
	return strings.Contains(strings.ToLower(KeyOf(got)), strings.ToLower(KeyOf(value)))
}

// Failed wraps a storage error.
func Failed(op string, err error) error {
	if err == nil {
		return nil
	}
	if k := errors.KindOf(err); k != "" {
		return err
	}
	return errors.Wrap(errors.EngineFailed, op, err)
}
