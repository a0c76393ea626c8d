// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httpclient implements the bridge wire protocol over HTTP: one POST
// per request with a JSON envelope body, answered by a JSON result object.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"flightbridge/cli/internal/bridge/model"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Transport posts envelopes to the bridge endpoint.
type Transport struct {
	// client is the underlying HTTP client; its Timeout bounds the round trip.
	client *http.Client
	// userAgent identifies the CLI to the backend.
	userAgent string
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) { t.userAgent = ua }
}

// New creates a Transport. timeout bounds each round trip; zero leaves it to
// the network stack and the caller's context.
func New(timeout time.Duration, opts ...Option) *Transport {
	t := &Transport{
		client:    &http.Client{Timeout: timeout},
		userAgent: "flightbridge-cli/1.0",
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Exchange POSTs env to endpoint and decodes the response object. The HTTP
// status is not interpreted: backends report failures inside the body, often
// with a 4xx/5xx status, and that body is still the result. A body that is not
// a JSON object is an error.
func (t *Transport) Exchange(ctx context.Context, endpoint string, env model.Envelope) (map[string]any, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode response (status %d): body is null", resp.StatusCode)
	}
	return out, nil
}
