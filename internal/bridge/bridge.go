// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge is the remote data-operation gateway. Every operation is
// encoded as one envelope, sent in a single round trip through a Transport,
// and answered with a normalized Result.
//
// The bridge never returns an error and never panics: any failure to
// serialize, send or decode is reported as a Result whose Error is
// FailureMessage, and the cause is logged. There is no retry, caching or
// timeout of its own; the transport's client bounds the round trip.
package bridge

import (
	"context"
	"fmt"

	"flightbridge/cli/internal/bridge/model"
	"flightbridge/cli/internal/httperrors"
	"flightbridge/cli/internal/logging"
	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/transport"
)

// Transport performs one round trip: serialize env, deliver it to endpoint,
// and decode the response object. Implementations live in the httpclient and
// grpcclient subpackages.
type Transport interface {
	Exchange(ctx context.Context, endpoint string, env model.Envelope) (map[string]any, error)
}

// Bridge sends requests using the connection state held by conn.
type Bridge struct {
	conn      *transport.Holder
	transport Transport
}

// New creates a bridge bound to conn and tr.
func New(conn *transport.Holder, tr Transport) *Bridge {
	return &Bridge{conn: conn, transport: tr}
}

// Insert adds data as a new record of table.
func (b *Bridge) Insert(ctx context.Context, table string, data map[string]any) Result {
	return b.Do(ctx, InsertRequest{Table: table, Data: data})
}

// Fetch lists records of table; query is forwarded as the params object.
func (b *Bridge) Fetch(ctx context.Context, table string, query map[string]any) Result {
	return b.Do(ctx, FetchRequest{Table: table, Query: query})
}

// Update changes the record of table identified by id.
func (b *Bridge) Update(ctx context.Context, table string, id any, data map[string]any) Result {
	return b.Do(ctx, UpdateRequest{Table: table, ID: id, Data: data})
}

// Delete removes the record of table identified by id.
func (b *Bridge) Delete(ctx context.Context, table string, id any) Result {
	return b.Do(ctx, DeleteRequest{Table: table, ID: id})
}

// Search finds records of table whose column matches value.
func (b *Bridge) Search(ctx context.Context, table, column string, value any) Result {
	return b.Do(ctx, SearchRequest{Table: table, Column: column, Value: value})
}

// Raw runs sql with positional params on the backend engine.
func (b *Bridge) Raw(ctx context.Context, sql string, params []any) Result {
	return b.Do(ctx, RawRequest{SQL: sql, Params: params})
}

// Do executes req. The connection state is read once, before the round trip.
// A response without a boolean "success" field is treated like a transport
// failure and comes back as FailureMessage.
func (b *Bridge) Do(ctx context.Context, req Request) (res Result) {
	cfg := b.conn.Snapshot()
	action := model.Action("unknown")
	if req != nil {
		action = req.Action()
	}

	defer func() {
		if p := recover(); p != nil {
			res = b.fail(cfg, action, fmt.Errorf("panic during round trip: %v", p))
		}
	}()

	if req == nil {
		return b.fail(cfg, action, fmt.Errorf("nil request"))
	}
	env, err := Encode(cfg.Params, req)
	if err != nil {
		return b.fail(cfg, action, err)
	}
	fields, err := b.transport.Exchange(ctx, cfg.Endpoint, env)
	if err != nil {
		return b.fail(cfg, action, err)
	}
	res, err = ParseResult(fields)
	if err != nil {
		return b.fail(cfg, action, fmt.Errorf("decode response: %w", err))
	}
	if !res.Success {
		logx.Log.Debug().Str("action", string(action)).Str("error", res.Error).Msg("bridge reported failure")
	}
	return res
}

func (b *Bridge) fail(cfg transport.Config, action model.Action, cause error) Result {
	logx.Log.Error().
		Str("cause", logging.Mask(cause.Error())).
		Str("action", string(action)).
		Str("endpoint", logging.Mask(cfg.Endpoint)).
		Str("config", logging.FormatParams(cfg.Params)).
		Str("category", string(httperrors.Classify(cause))).
		Msg(logx.MsgBridgeFailed)
	return connectionFailed(cause)
}
