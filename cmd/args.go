// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAssignments turns key=value words into a params map. Values are read
// as JSON when they parse (numbers, booleans, null, objects) and as plain
// strings otherwise, so port=5432 is a number and host=db.local a string.
func parseAssignments(words []string) (map[string]any, error) {
	out := make(map[string]any, len(words))
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", w)
		}
		out[k] = parseValue(v)
	}
	return out, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

// parseObject decodes a JSON object argument.
func parseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	return m, nil
}
