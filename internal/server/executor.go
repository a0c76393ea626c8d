// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"flightbridge/cli/internal/bridge/model"
	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/errors"
	"flightbridge/cli/internal/logging"
	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/metrics"
)

// Response is the JSON object returned for every envelope.
type Response map[string]any

func failure(msg string) Response { return Response{"success": false, "error": msg} }

// Executor runs envelopes against an engine. The HTTP and gRPC front ends
// share it, so both speak exactly the same protocol.
type Executor struct {
	engine engine.Engine
	apiKey string
}

func NewExecutor(e engine.Engine, apiKey string) *Executor {
	return &Executor{engine: e, apiKey: apiKey}
}

// Execute decodes fields into an envelope and runs it. The status is the
// HTTP status the response should travel with; failures always carry
// success=false so clients never need to read it.
func (x *Executor) Execute(ctx context.Context, fields map[string]any) (Response, int) {
	start := time.Now()
	env, err := model.EnvelopeFromFields(fields)
	if err != nil {
		metrics.ObserveRequest("", metrics.OutcomeRejected, time.Since(start))
		return failure("malformed envelope: " + err.Error()), http.StatusBadRequest
	}

	resp, err := x.run(ctx, env)
	status, outcome := http.StatusOK, metrics.OutcomeSuccess
	if err != nil {
		resp = failure(message(err))
		status, outcome = statusOf(err)
		ev := logx.Log.Warn()
		if outcome == metrics.OutcomeError {
			ev = logx.Log.Error()
		}
		ev.Str("action", string(env.Action)).
			Str("table", env.TableName()).
			Str("cause", logging.Mask(err.Error())).
			Msg("envelope failed")
	}
	metrics.ObserveRequest(string(env.Action), outcome, time.Since(start))
	return resp, status
}

func (x *Executor) run(ctx context.Context, env model.Envelope) (Response, error) {
	if !env.Action.Valid() {
		return nil, errors.New(errors.InvalidRequest, "unknown action "+string(env.Action))
	}
	if err := x.authorize(env.Config); err != nil {
		return nil, err
	}
	table := env.TableName()

	switch env.Action {
	case model.ActionInsert:
		id, err := x.engine.Insert(ctx, table, env.Data)
		if err != nil {
			return nil, err
		}
		return Response{"success": true, "id": id}, nil

	case model.ActionFetch:
		q, err := engine.ParseQuery(env.FetchParams())
		if err != nil {
			return nil, err
		}
		rows, err := x.engine.Fetch(ctx, table, q)
		if err != nil {
			return nil, err
		}
		return Response{"success": true, "data": rows}, nil

	case model.ActionUpdate:
		if len(env.Data) == 0 {
			return nil, errors.New(errors.InvalidRequest, "update needs data")
		}
		n, err := x.engine.Update(ctx, table, env.ID, env.Data)
		if err != nil {
			return nil, err
		}
		return Response{"success": true, "affected": n}, nil

	case model.ActionDelete:
		n, err := x.engine.Delete(ctx, table, env.ID)
		if err != nil {
			return nil, err
		}
		return Response{"success": true, "affected": n}, nil

	case model.ActionSearch:
		if env.Search == nil {
			return nil, errors.New(errors.InvalidRequest, "search clause is required")
		}
		rows, err := x.engine.Search(ctx, table, env.Search.Column, env.Search.Value)
		if err != nil {
			return nil, err
		}
		return Response{"success": true, "data": rows}, nil

	case model.ActionRaw:
		params, err := env.RawParams()
		if err != nil {
			return nil, errors.Wrap(errors.InvalidRequest, "raw params", err)
		}
		res, err := x.engine.Raw(ctx, env.Statement(), params)
		if err != nil {
			return nil, err
		}
		rows := res.Rows
		if rows == nil {
			rows = []engine.Row{}
		}
		return Response{"success": true, "data": rows, "affected": res.Affected}, nil
	}
	return nil, errors.New(errors.InvalidRequest, "unknown action "+string(env.Action))
}

// authorize compares config.key with the configured API key. No key
// configured means every envelope is accepted.
func (x *Executor) authorize(config map[string]any) error {
	if x.apiKey == "" {
		return nil
	}
	got, _ := config["key"].(string)
	if subtle.ConstantTimeCompare([]byte(got), []byte(x.apiKey)) != 1 {
		return errors.New(errors.InvalidRequest, "invalid api key")
	}
	return nil
}

// message drops the kind prefix of *errors.E; the client only needs the
// human part.
func message(err error) string {
	if e, ok := err.(*errors.E); ok {
		if e.Err != nil {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Message
	}
	return err.Error()
}

func statusOf(err error) (int, string) {
	if errors.KindOf(err) == errors.InvalidRequest {
		return http.StatusBadRequest, metrics.OutcomeRejected
	}
	return http.StatusInternalServerError, metrics.OutcomeError
}
