// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC implementation of bridge.Transport.
// Each envelope is sent as one unary flight.Bridge/Execute call; the reply
// Struct is the result object. Connections are opened lazily per endpoint and
// reused for the life of the Transport.
package grpcclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"flightbridge/cli/internal/bridge/model"
	"flightbridge/cli/internal/bridge/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Transport implements bridge.Transport over gRPC.
type Transport struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
	opts  []grpc.DialOption
}

// New creates a Transport. Extra dial options are appended to the ones
// derived from each endpoint's scheme (used by tests to inject a dialer).
func New(opts ...grpc.DialOption) *Transport {
	return &Transport{conns: make(map[string]*grpc.ClientConn), opts: opts}
}

// Exchange sends env to endpoint and returns the reply as a generic object.
func (t *Transport) Exchange(ctx context.Context, endpoint string, env model.Envelope) (map[string]any, error) {
	fields, err := env.Fields()
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	conn, err := t.conn(endpoint)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, rpc.ExecuteMethod, in, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// Close releases every open connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var firstErr error
	for target, c := range t.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(t.conns, target)
	}
	return firstErr
}

func (t *Transport) conn(endpoint string) (*grpc.ClientConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.conns[endpoint]; ok {
		return c, nil
	}

	target, creds := dialTarget(endpoint)
	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, t.opts...)
	c, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	t.conns[endpoint] = c
	return c, nil
}

// dialTarget maps an endpoint to a gRPC target and credentials.
// grpcs:// and https:// use TLS (default port 443); grpc://, http:// and bare
// host:port use plaintext. Any other string is handed to gRPC unchanged.
func dialTarget(endpoint string) (string, credentials.TransportCredentials) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, insecure.NewCredentials()
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, insecure.NewCredentials()
	}
	switch u.Scheme {
	case "grpcs", "https":
		host := u.Host
		if _, _, err := net.SplitHostPort(host); err != nil {
			host = net.JoinHostPort(host, "443")
		}
		tlsCfg := &tls.Config{ServerName: u.Hostname(), MinVersion: tls.VersionTLS12}
		return host, credentials.NewTLS(tlsCfg)
	case "grpc", "http":
		return u.Host, insecure.NewCredentials()
	default:
		return endpoint, insecure.NewCredentials()
	}
}
