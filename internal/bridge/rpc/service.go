// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rpc describes the gRPC form of the bridge protocol: a single unary
// method whose request and reply are the JSON envelope and result carried as
// google.protobuf.Struct, so no generated stubs are required on either side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "flight.Bridge"
	// ExecuteMethod is the full method path of the only RPC.
	ExecuteMethod = "/flight.Bridge/Execute"
)

// BridgeServer is implemented by backends that accept envelopes over gRPC.
type BridgeServer interface {
	Execute(ctx context.Context, envelope *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBridgeServer registers srv on s.
func RegisterBridgeServer(s grpc.ServiceRegistrar, srv BridgeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the hand-written descriptor for flight.Bridge.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flight/bridge.proto",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecuteMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServer).Execute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
