// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn selects and normalizes the storage URL of the reference backend.
// The URL scheme picks the engine: memory://, redis:// (or rediss://) and
// postgres:// (or postgresql://). An empty URL means memory://.
package dsn

import "fmt"

// Engine names a storage engine.
type Engine string

const (
	EngineMemory   Engine = "memory"
	EngineRedis    Engine = "redis"
	EnginePostgres Engine = "postgres"
	EngineUnknown  Engine = "unknown"
)

// Info is a parsed storage URL.
type Info struct {
	Engine   Engine
	Host     string
	Port     string
	User     string
	Password string
	// Database is the database name for postgres and the numeric index for redis.
	Database string
	TLS      bool
	Params   map[string]string
	Original string
}

// Resolver parses and normalizes URLs of one engine.
type Resolver interface {
	Parse(raw string) (*Info, error)
	Normalize(info *Info) (string, error)
	Validate(raw string) error
}

// ParseError explains why a storage URL was rejected.
type ParseError struct {
	URL    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid storage URL: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid storage URL: %s", e.Reason)
}

func newParseError(raw, reason, hint string) *ParseError {
	return &ParseError{URL: raw, Reason: reason, Hint: hint}
}
