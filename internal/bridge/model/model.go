// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the wire shapes exchanged with a bridge backend.
// The types are transport-agnostic: the HTTP transport serializes them as
// JSON and the gRPC transport carries the same JSON object inside a
// google.protobuf.Struct.
package model

import (
	"encoding/json"
	"fmt"
)

// Action names the operation a backend must perform.
type Action string

const (
	ActionInsert Action = "insert"
	ActionFetch  Action = "fetch"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSearch Action = "search"
	ActionRaw    Action = "raw"
)

// Actions lists every action in protocol order.
var Actions = []Action{ActionInsert, ActionFetch, ActionUpdate, ActionDelete, ActionSearch, ActionRaw}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// SearchClause is the column/value pair of a search request.
type SearchClause struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// Envelope is one request to the backend. Table, Data and ID are always
// present on the wire (null when unused); the remaining fields only appear
// for the actions that use them.
type Envelope struct {
	Config map[string]any `json:"config"`
	Action Action         `json:"action"`
	Table  *string        `json:"table"`
	Data   map[string]any `json:"data"`
	ID     any            `json:"id"`

	// Params is an object of filters for fetch and a positional list for raw.
	Params any           `json:"params,omitempty"`
	Search *SearchClause `json:"search,omitempty"`
	// SQL is set on every raw envelope, even when empty.
	SQL *string `json:"sql,omitempty"`
}

// TableName returns the table or "" when the envelope carries none.
func (e Envelope) TableName() string {
	if e.Table == nil {
		return ""
	}
	return *e.Table
}

// Statement returns the raw SQL or "" when the envelope carries none.
func (e Envelope) Statement() string {
	if e.SQL == nil {
		return ""
	}
	return *e.SQL
}

// FetchParams returns the fetch filters; a missing or non-object params
// field yields an empty map.
func (e Envelope) FetchParams() map[string]any {
	if m, ok := e.Params.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// RawParams returns the positional parameters of a raw query.
func (e Envelope) RawParams() ([]any, error) {
	switch p := e.Params.(type) {
	case nil:
		return nil, nil
	case []any:
		return p, nil
	default:
		return nil, fmt.Errorf("raw params must be a list, got %T", e.Params)
	}
}

// Fields returns the envelope as a generic JSON object. This is the form the
// gRPC transport packs into a Struct.
func (e Envelope) Fields() (map[string]any, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnvelopeFromFields is the inverse of Fields, used by backends that receive
// a generic object.
func EnvelopeFromFields(fields map[string]any) (Envelope, error) {
	var env Envelope
	b, err := json.Marshal(fields)
	if err != nil {
		return env, err
	}
	err = json.Unmarshal(b, &env)
	return env, err
}

// Ptr returns a pointer to s; handy for Envelope.Table.
func Ptr(s string) *string { return &s }
