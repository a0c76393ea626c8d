// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"encoding/json"
	"fmt"
	"maps"

	ferrors "flightbridge/cli/internal/errors"
)

// FailureMessage is the error of every result the bridge synthesizes itself.
const FailureMessage = "Connection to bridge failed"

// Result is the outcome of a bridge call: Success, or failure with an Error
// message. Callers branch on Success (or Err) instead of catching anything.
// Backend-reported failures keep their extra fields (error codes and the
// like) in Payload.
type Result struct {
	Success bool
	Error   string
	// Payload holds every response field other than success and error.
	Payload map[string]any

	cause error
}

// connectionFailed is the normalized result for any transport-layer failure.
func connectionFailed(cause error) Result {
	return Result{Error: FailureMessage, cause: cause}
}

// ParseResult converts a decoded response object into a Result. The object
// must carry a boolean "success"; a missing or non-string "error" on failure
// is kept as an empty message. Every other field goes to Payload, whatever
// the outcome.
func ParseResult(fields map[string]any) (Result, error) {
	raw, ok := fields["success"]
	if !ok {
		return Result{}, fmt.Errorf("response has no success field")
	}
	success, ok := raw.(bool)
	if !ok {
		return Result{}, fmt.Errorf("response success field is %T, not bool", raw)
	}
	payload := maps.Clone(fields)
	delete(payload, "success")
	delete(payload, "error")
	if !success {
		msg, _ := fields["error"].(string)
		return Result{Error: msg, Payload: payload}, nil
	}
	return Result{Success: true, Payload: payload}, nil
}

// Cause returns the transport error behind a synthesized failure, or nil for
// successes and backend-reported failures.
func (r Result) Cause() error { return r.cause }

// Err returns nil on success and a typed error otherwise: TransportFailed
// when the bridge synthesized the failure, BackendFailed when the backend
// reported it.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.cause != nil {
		return ferrors.Wrap(ferrors.TransportFailed, r.Error, r.cause)
	}
	return ferrors.New(ferrors.BackendFailed, r.Error)
}

// Get returns a payload field.
func (r Result) Get(key string) (any, bool) {
	v, ok := r.Payload[key]
	return v, ok
}

// Decode unmarshals the payload field key into v.
func (r Result) Decode(key string, v any) error {
	raw, ok := r.Payload[key]
	if !ok {
		return fmt.Errorf("result has no %q field", key)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Rows decodes the conventional "data" list of fetch/search/raw results.
func (r Result) Rows() ([]map[string]any, error) {
	var rows []map[string]any
	if err := r.Decode("data", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Fields flattens the result back to the wire shape.
func (r Result) Fields() map[string]any {
	out := make(map[string]any, len(r.Payload)+2)
	maps.Copy(out, r.Payload)
	if !r.Success {
		out["error"] = r.Error
	}
	out["success"] = r.Success
	return out
}

// MarshalJSON renders the wire shape.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}
