// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package redisengine stores tables in Redis. Each table is a hash of JSON
// rows keyed by id plus a sorted set that keeps insertion order.
package redisengine

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"maps"
	"net"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"flightbridge/cli/internal/dsn"
	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/errors"
)

// DefaultPrefix namespaces every key written by the engine.
const DefaultPrefix = "flight"

// Engine is safe for concurrent use.
type Engine struct {
	client redis.UniversalClient
	prefix string
}

// Open connects to the redis:// or rediss:// URL and pings the server.
// A bare host:port is accepted too.
func Open(ctx context.Context, raw string) (*Engine, error) {
	opts, err := options(raw)
	if err != nil {
		return nil, err
	}
	c := redis.NewUniversalClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, engine.Failed("connect to redis", err)
	}
	return New(c, DefaultPrefix), nil
}

// New wraps an existing client.
func New(client redis.UniversalClient, prefix string) *Engine {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Engine{client: client, prefix: prefix}
}

func options(raw string) (*redis.UniversalOptions, error) {
	if !strings.Contains(raw, "://") {
		return &redis.UniversalOptions{Addrs: []string{raw}}, nil
	}
	info, err := dsn.NewRedisResolver().Parse(raw)
	if err != nil {
		return nil, err
	}
	db, err := strconv.Atoi(info.Database)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidRequest, "redis database index", err)
	}
	opts := &redis.UniversalOptions{
		Addrs:    []string{net.JoinHostPort(info.Host, info.Port)},
		Username: info.User,
		Password: info.Password,
		DB:       db,
	}
	if info.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

func (e *Engine) Name() string { return "redis" }

func (e *Engine) Close() error { return e.client.Close() }

func (e *Engine) rowsKey(table string) string  { return e.prefix + ":" + table + ":rows" }
func (e *Engine) orderKey(table string) string { return e.prefix + ":" + table + ":order" }
func (e *Engine) seqKey(table string) string   { return e.prefix + ":" + table + ":seq" }

func (e *Engine) Insert(ctx context.Context, table string, data engine.Row) (any, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	row := maps.Clone(data)
	if row == nil {
		row = engine.Row{}
	}
	id, ok := row[engine.IDColumn]
	if !ok || engine.KeyOf(id) == "" {
		id = engine.NewID()
		row[engine.IDColumn] = id
	}
	b, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidRequest, "encode row", err)
	}
	key := engine.KeyOf(id)
	created, err := e.client.HSetNX(ctx, e.rowsKey(table), key, b).Result()
	if err != nil {
		return nil, engine.Failed("insert", err)
	}
	if !created {
		return nil, errors.New(errors.InvalidRequest, "duplicate id "+key)
	}
	seq, err := e.client.Incr(ctx, e.seqKey(table)).Result()
	if err != nil {
		return nil, engine.Failed("insert", err)
	}
	if err := e.client.ZAdd(ctx, e.orderKey(table), redis.Z{Score: float64(seq), Member: key}).Err(); err != nil {
		return nil, engine.Failed("insert", err)
	}
	return id, nil
}

// all loads every row of table in insertion order.
func (e *Engine) all(ctx context.Context, table string) ([]engine.Row, error) {
	ids, err := e.client.ZRange(ctx, e.orderKey(table), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []engine.Row{}, nil
	}
	vals, err := e.client.HMGet(ctx, e.rowsKey(table), ids...).Result()
	if err != nil {
		return nil, err
	}
	rows := make([]engine.Row, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var row engine.Row
		if err := json.Unmarshal([]byte(s), &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Engine) Fetch(ctx context.Context, table string, q engine.Query) ([]engine.Row, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	rows, err := e.all(ctx, table)
	if err != nil {
		return nil, engine.Failed("fetch", err)
	}
	return q.Apply(rows), nil
}

// Update merges data under WATCH so concurrent updates of one table retry
// instead of overwriting each other.
func (e *Engine) Update(ctx context.Context, table string, id any, data engine.Row) (int64, error) {
	if err := engine.CheckTable(table); err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	rowsKey, key := e.rowsKey(table), engine.KeyOf(id)
	var affected int64
	txf := func(tx *redis.Tx) error {
		affected = 0
		s, err := tx.HGet(ctx, rowsKey, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		var row engine.Row
		if err := json.Unmarshal([]byte(s), &row); err != nil {
			return err
		}
		keep := row[engine.IDColumn]
		maps.Copy(row, data)
		row[engine.IDColumn] = keep
		b, err := json.Marshal(row)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, rowsKey, key, b)
			return nil
		})
		if err == nil {
			affected = 1
		}
		return err
	}
	for range 5 {
		err := e.client.Watch(ctx, txf, rowsKey)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return 0, engine.Failed("update", err)
		}
		return affected, nil
	}
	return 0, engine.Failed("update", redis.TxFailedErr)
}

func (e *Engine) Delete(ctx context.Context, table string, id any) (int64, error) {
	if err := engine.CheckTable(table); err != nil {
		return 0, err
	}
	if err := engine.CheckID(id); err != nil {
		return 0, err
	}
	key := engine.KeyOf(id)
	var del *redis.IntCmd
	_, err := e.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.HDel(ctx, e.rowsKey(table), key)
		p.ZRem(ctx, e.orderKey(table), key)
		return nil
	})
	if err != nil {
		return 0, engine.Failed("delete", err)
	}
	return del.Val(), nil
}

func (e *Engine) Search(ctx context.Context, table, column string, value any) ([]engine.Row, error) {
	if err := engine.CheckTable(table); err != nil {
		return nil, err
	}
	if column == "" {
		return nil, errors.New(errors.InvalidRequest, "search column is required")
	}
	rows, err := e.all(ctx, table)
	if err != nil {
		return nil, engine.Failed("search", err)
	}
	out := []engine.Row{}
	for _, r := range rows {
		if engine.Contains(r, column, value) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (e *Engine) Raw(context.Context, string, []any) (engine.RawResult, error) {
	return engine.RawResult{}, engine.ErrRawUnsupported
}
