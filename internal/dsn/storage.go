// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import "strings"

// DefaultStorage is used when no storage URL is configured.
const DefaultStorage = "memory://"

// Detect returns the engine selected by the URL scheme.
func Detect(raw string) Engine {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case lower == "", strings.HasPrefix(lower, "memory://"), lower == "memory":
		return EngineMemory
	case strings.HasPrefix(lower, "redis://"), strings.HasPrefix(lower, "rediss://"):
		return EngineRedis
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return EnginePostgres
	}
	return EngineUnknown
}

func resolverFor(raw string) (Resolver, error) {
	switch Detect(raw) {
	case EngineMemory:
		return memoryResolver{}, nil
	case EngineRedis:
		return NewRedisResolver(), nil
	case EnginePostgres:
		return NewPostgresResolver(), nil
	}
	return nil, newParseError(raw, "unknown storage engine", "use memory://, redis:// or postgres://")
}

// Parse returns the details of a storage URL.
func Parse(raw string) (*Info, error) {
	r, err := resolverFor(raw)
	if err != nil {
		return nil, err
	}
	return r.Parse(raw)
}

// Normalize parses raw and returns its canonical form.
func Normalize(raw string) (string, error) {
	r, err := resolverFor(raw)
	if err != nil {
		return "", err
	}
	info, err := r.Parse(raw)
	if err != nil {
		return "", err
	}
	return r.Normalize(info)
}

// Validate checks raw without normalizing it.
func Validate(raw string) error {
	r, err := resolverFor(raw)
	if err != nil {
		return err
	}
	return r.Validate(raw)
}

type memoryResolver struct{}

func (memoryResolver) Parse(raw string) (*Info, error) {
	return &Info{Engine: EngineMemory, Original: raw, Params: map[string]string{}}, nil
}

func (memoryResolver) Normalize(*Info) (string, error) { return DefaultStorage, nil }

func (memoryResolver) Validate(string) error { return nil }
