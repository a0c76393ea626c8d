// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package grpcclient

import (
	"context"
	"net"
	"testing"

	"flightbridge/cli/internal/bridge/model"
	"flightbridge/cli/internal/bridge/rpc"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type echoServer struct {
	got map[string]any
}

func (s *echoServer) Execute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.got = in.AsMap()
	if s.got["action"] == "raw" {
		return nil, status.Error(codes.Unavailable, "engine offline")
	}
	return structpb.NewStruct(map[string]any{"success": true, "id": "abc"})
}

func startServer(t *testing.T, srv rpc.BridgeServer) *Transport {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	rpc.RegisterBridgeServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	tr := New(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestExchangeCarriesEnvelope(t *testing.T) {
	srv := &echoServer{}
	tr := startServer(t, srv)

	env := model.Envelope{
		Config: map[string]any{"user": "root"},
		Action: model.ActionInsert,
		Table:  model.Ptr("users"),
		Data:   map[string]any{"name": "Ann", "age": float64(31)},
	}
	out, err := tr.Exchange(context.Background(), "passthrough:///bufnet", env)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	wantSent := map[string]any{
		"config": map[string]any{"user": "root"},
		"action": "insert",
		"table":  "users",
		"data":   map[string]any{"name": "Ann", "age": float64(31)},
		"id":     nil,
	}
	if diff := cmp.Diff(wantSent, srv.got); diff != "" {
		t.Errorf("server received (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"success": true, "id": "abc"}, out); diff != "" {
		t.Errorf("reply (-want +got):\n%s", diff)
	}
}

func TestExchangeSurfacesStatusErrors(t *testing.T) {
	tr := startServer(t, &echoServer{})

	_, err := tr.Exchange(context.Background(), "passthrough:///bufnet", model.Envelope{Action: model.ActionRaw})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("err = %v, want Unavailable", err)
	}
}

func TestDialTarget(t *testing.T) {
	tests := []struct {
		endpoint string
		target   string
		secure   bool
	}{
		{"localhost:9090", "localhost:9090", false},
		{"grpc://bridge.internal:9090", "bridge.internal:9090", false},
		{"grpcs://bridge.example.com", "bridge.example.com:443", true},
		{"https://bridge.example.com:8443/flight", "bridge.example.com:8443", true},
		{"dns:///bridge.example.com:9090", "dns:///bridge.example.com:9090", false},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			target, creds := dialTarget(tt.endpoint)
			if target != tt.target {
				t.Errorf("target = %q, want %q", target, tt.target)
			}
			if got := creds.Info().SecurityProtocol == "tls"; got != tt.secure {
				t.Errorf("secure = %v, want %v (protocol %q)", got, tt.secure, creds.Info().SecurityProtocol)
			}
		})
	}
}
