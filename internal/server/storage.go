// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"

	"flightbridge/cli/internal/dsn"
	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/engine/memory"
	"flightbridge/cli/internal/engine/pgengine"
	"flightbridge/cli/internal/engine/redisengine"
)

// OpenEngine returns the storage engine selected by the URL scheme.
func OpenEngine(ctx context.Context, storage string) (engine.Engine, error) {
	if err := dsn.Validate(storage); err != nil {
		return nil, err
	}
	switch dsn.Detect(storage) {
	case dsn.EngineRedis:
		return redisengine.Open(ctx, storage)
	case dsn.EnginePostgres:
		return pgengine.Open(ctx, storage)
	default:
		return memory.New(), nil
	}
}
