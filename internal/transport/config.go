// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transport holds the connection parameters every bridge call
// forwards to the backend, plus the endpoint those calls are sent to.
//
// A Holder is created once by the application and injected into the bridge.
// Connect may be called at any time; each bridge call takes a Snapshot when it
// builds its envelope, so a concurrent Connect only affects calls that have
// not snapshotted yet.
package transport

import (
	"maps"
	"strings"
	"sync"
)

// Config is an immutable view of the connection state.
type Config struct {
	// Params are opaque credentials/parameters forwarded verbatim.
	Params map[string]any
	// Endpoint is the resolved bridge URL (or gRPC target).
	Endpoint string
}

// Holder is the process-wide connection state. The zero value is not usable;
// construct it with NewHolder.
type Holder struct {
	mu       sync.RWMutex
	params   map[string]any
	endpoint string
	override bool
}

// NewHolder returns a Holder whose endpoint is the given default.
func NewHolder(defaultEndpoint string) *Holder {
	return &Holder{endpoint: defaultEndpoint}
}

// Connect stores params for all subsequent calls. A non-empty customURL
// replaces the endpoint for the rest of the process. Params are not validated;
// the last call wins.
func (h *Holder) Connect(params map[string]any, customURL ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params = maps.Clone(params)
	for _, u := range customURL {
		if u = strings.TrimSpace(u); u != "" {
			h.endpoint = u
			h.override = true
		}
	}
}

// Snapshot returns the current config. Params is never nil so that it
// serializes as {} even before Connect has run.
func (h *Holder) Snapshot() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	params := maps.Clone(h.params)
	if params == nil {
		params = map[string]any{}
	}
	return Config{Params: params, Endpoint: h.endpoint}
}

// Overridden reports whether Connect has replaced the default endpoint.
func (h *Holder) Overridden() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.override
}
