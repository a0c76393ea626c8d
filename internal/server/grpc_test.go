package server

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"flightbridge/cli/internal/bridge"
	"flightbridge/cli/internal/bridge/grpcclient"
	"flightbridge/cli/internal/engine/memory"
	"flightbridge/cli/internal/transport"
)

func TestBridgeRoundTripOverGRPC(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := NewGRPCServer(NewExecutor(memory.New(), ""))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	tr := grpcclient.New(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	t.Cleanup(func() { _ = tr.Close() })

	b := bridge.New(transport.NewHolder("passthrough:///bufnet"), tr)
	ctx := context.Background()

	ins := b.Insert(ctx, "users", map[string]any{"id": "u1", "name": "Ann"})
	if !ins.Success {
		t.Fatalf("insert: %+v (cause %v)", ins, ins.Cause())
	}
	res := b.Delete(ctx, "users", "u1")
	var affected float64
	if err := res.Decode("affected", &affected); err != nil || affected != 1 {
		t.Errorf("delete affected = %v, %v", affected, err)
	}

	res = b.Search(ctx, "users", "", "x")
	if res.Success || res.Error != "search column is required" {
		t.Errorf("backend failure should pass through: %+v", res)
	}
}
