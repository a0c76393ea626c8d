// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import "encoding/json"

// toJSONValues round-trips v through JSON so that engine rows (which may hold
// int64, time.Time or driver types) become the plain values structpb accepts.
func toJSONValues(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	err = json.Unmarshal(b, &out)
	return out, err
}
