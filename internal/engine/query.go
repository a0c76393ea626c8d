// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"flightbridge/cli/internal/errors"
)

// Reserved fetch parameters. Every other parameter is an equality filter.
const (
	ParamLimit  = "_limit"
	ParamOffset = "_offset"
	ParamOrder  = "_order"
)

// Query is a parsed fetch request.
type Query struct {
	Filters map[string]any
	Limit   int // 0 means no limit
	Offset  int
	Order   string
	Desc    bool
}

// ParseQuery splits fetch params into filters and paging. The order may be
// given as "col", "-col" or "col desc".
func ParseQuery(params map[string]any) (Query, error) {
	q := Query{Filters: map[string]any{}}
	for k, v := range params {
		switch k {
		case ParamLimit:
			n, err := nonNegative(k, v)
			if err != nil {
				return q, err
			}
			q.Limit = n
		case ParamOffset:
			n, err := nonNegative(k, v)
			if err != nil {
				return q, err
			}
			q.Offset = n
		case ParamOrder:
			q.Order, q.Desc = parseOrder(KeyOf(v))
		default:
			q.Filters[k] = v
		}
	}
	return q, nil
}

func nonNegative(name string, v any) (int, error) {
	n, err := strconv.Atoi(KeyOf(v))
	if err != nil || n < 0 {
		return 0, errors.New(errors.InvalidRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

func parseOrder(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return strings.TrimSpace(rest), true
	}
	col, dir, _ := strings.Cut(s, " ")
	return col, strings.EqualFold(strings.TrimSpace(dir), "desc")
}

// Apply filters, orders and pages rows in memory. The input is not modified.
func (q Query) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if Matches(r, q.Filters) {
			out = append(out, r)
		}
	}
	if q.Order != "" {
		slices.SortStableFunc(out, func(a, b Row) int {
			c := compareValues(a[q.Order], b[q.Order])
			if q.Desc {
				return -c
			}
			return c
		})
	}
	if q.Offset >= len(out) {
		return []Row{}
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// compareValues orders numbers numerically and everything else by its
// string form. Missing values sort first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(KeyOf(a), KeyOf(b))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
