// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"fmt"

	"flightbridge/cli/internal/bridge/model"
)

// Request is one of the six bridge operations. The set is closed: only the
// types in this file implement it, and Encode switches over all of them.
type Request interface {
	Action() model.Action
	isRequest()
}

// InsertRequest adds Data as a new record of Table.
type InsertRequest struct {
	Table string
	Data  map[string]any
}

// FetchRequest lists records of Table matching Query.
type FetchRequest struct {
	Table string
	Query map[string]any
}

// UpdateRequest replaces fields of the record identified by ID.
type UpdateRequest struct {
	Table string
	ID    any
	Data  map[string]any
}

// DeleteRequest removes the record identified by ID.
type DeleteRequest struct {
	Table string
	ID    any
}

// SearchRequest finds records whose Column matches Value.
type SearchRequest struct {
	Table  string
	Column string
	Value  any
}

// RawRequest runs an engine-specific statement, bypassing the table abstraction.
type RawRequest struct {
	SQL    string
	Params []any
}

func (InsertRequest) Action() model.Action { return model.ActionInsert }
func (FetchRequest) Action() model.Action  { return model.ActionFetch }
func (UpdateRequest) Action() model.Action { return model.ActionUpdate }
func (DeleteRequest) Action() model.Action { return model.ActionDelete }
func (SearchRequest) Action() model.Action { return model.ActionSearch }
func (RawRequest) Action() model.Action    { return model.ActionRaw }

func (InsertRequest) isRequest() {}
func (FetchRequest) isRequest()  {}
func (UpdateRequest) isRequest() {}
func (DeleteRequest) isRequest() {}
func (SearchRequest) isRequest() {}
func (RawRequest) isRequest()    {}

// Encode builds the envelope for req using config as the forwarded params.
func Encode(config map[string]any, req Request) (model.Envelope, error) {
	if config == nil {
		config = map[string]any{}
	}
	env := model.Envelope{Config: config, Action: req.Action()}

	switch r := req.(type) {
	case InsertRequest:
		env.Table = model.Ptr(r.Table)
		env.Data = r.Data
	case FetchRequest:
		env.Table = model.Ptr(r.Table)
		query := r.Query
		if query == nil {
			query = map[string]any{}
		}
		env.Params = query
	case UpdateRequest:
		env.Table = model.Ptr(r.Table)
		env.Data = r.Data
		env.ID = r.ID
	case DeleteRequest:
		env.Table = model.Ptr(r.Table)
		env.ID = r.ID
	case SearchRequest:
		env.Table = model.Ptr(r.Table)
		env.Search = &model.SearchClause{Column: r.Column, Value: r.Value}
	case RawRequest:
		params := r.Params
		if params == nil {
			params = []any{}
		}
		env.SQL = model.Ptr(r.SQL)
		env.Params = params
	default:
		return env, fmt.Errorf("bridge: unsupported request %T", req)
	}
	return env, nil
}
