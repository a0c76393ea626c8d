// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"flightbridge/cli/internal/bridge/rpc"
	"flightbridge/cli/internal/logx"
)

// grpcBridge serves flight.Bridge/Execute. Protocol failures travel inside
// the reply (success=false) exactly like over HTTP; only an unencodable reply
// is a gRPC error.
type grpcBridge struct {
	x *Executor
}

func (g grpcBridge) Execute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	resp, _ := g.x.Execute(ctx, in.AsMap())
	fields, err := toJSONValues(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

// NewGRPCServer returns a server with the bridge service registered.
func NewGRPCServer(x *Executor, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary))
	s := grpc.NewServer(opts...)
	rpc.RegisterBridgeServer(s, grpcBridge{x: x})
	return s
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	ev := logx.Log.Info()
	if err != nil {
		ev = logx.Log.Error().Err(err)
	}
	ev.Str("method", info.FullMethod).Msg("grpc")
	return resp, err
}
