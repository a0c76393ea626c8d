// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgengine

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"flightbridge/cli/internal/engine"
)

// statement is a query and its positional arguments.
type statement struct {
	sql  string
	args []any
}

func quoteTable(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

func quoteColumn(col string) string {
	return pgx.Identifier{col}.Sanitize()
}

// sortedKeys keeps generated SQL stable for equal inputs.
func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func buildInsert(ti *TableInfo, data engine.Row) statement {
	cols := sortedKeys(data)
	if len(cols) == 0 {
		return statement{sql: fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s",
			quoteTable(ti.Schema, ti.Table), quoteColumn(ti.PrimaryKey))}
	}
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = quoteColumn(c)
		marks[i] = "$" + strconv.Itoa(i+1)
		args[i] = data[c]
	}
	return statement{
		sql: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			quoteTable(ti.Schema, ti.Table), strings.Join(quoted, ", "), strings.Join(marks, ", "), quoteColumn(ti.PrimaryKey)),
		args: args,
	}
}

func buildSelect(ti *TableInfo, q engine.Query) statement {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", quoteTable(ti.Schema, ti.Table))
	var args []any
	for i, c := range sortedKeys(q.Filters) {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, engine.KeyOf(q.Filters[c]))
		fmt.Fprintf(&b, "CAST(%s AS TEXT) = $%d", quoteColumn(c), len(args))
	}
	if q.Order != "" {
		fmt.Fprintf(&b, " ORDER BY %s", quoteColumn(q.Order))
		if q.Desc {
			b.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.Offset)
	}
	return statement{sql: b.String(), args: args}
}

func buildUpdate(ti *TableInfo, id any, data engine.Row) statement {
	var sets []string
	var args []any
	for _, c := range sortedKeys(data) {
		if c == ti.PrimaryKey {
			continue
		}
		args = append(args, data[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteColumn(c), len(args)))
	}
	args = append(args, engine.KeyOf(id))
	return statement{
		sql: fmt.Sprintf("UPDATE %s SET %s WHERE CAST(%s AS TEXT) = $%d",
			quoteTable(ti.Schema, ti.Table), strings.Join(sets, ", "), quoteColumn(ti.PrimaryKey), len(args)),
		args: args,
	}
}

func buildDelete(ti *TableInfo, id any) statement {
	return statement{
		sql: fmt.Sprintf("DELETE FROM %s WHERE CAST(%s AS TEXT) = $1",
			quoteTable(ti.Schema, ti.Table), quoteColumn(ti.PrimaryKey)),
		args: []any{engine.KeyOf(id)},
	}
}

func buildSearch(ti *TableInfo, column string, value any) statement {
	return statement{
		sql: fmt.Sprintf("SELECT * FROM %s WHERE CAST(%s AS TEXT) ILIKE '%%' || $1 || '%%'",
			quoteTable(ti.Schema, ti.Table), quoteColumn(column)),
		args: []any{escapeLike(engine.KeyOf(value))},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
