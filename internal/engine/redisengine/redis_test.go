package redisengine

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/errors"
)

func newEngine(t *testing.T) (*Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	e, err := Open(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e, mr
}

func TestInsertFetchKeepsOrder(t *testing.T) {
	ctx := context.Background()
	e, mr := newEngine(t)

	for _, name := range []string{"c", "a", "b"} {
		if _, err := e.Insert(ctx, "notes", engine.Row{"id": name, "title": "note " + name}); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := e.Fetch(ctx, "notes", engine.Query{})
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r["id"].(string))
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if !mr.Exists("flight:notes:rows") || !mr.Exists("flight:notes:order") {
		t.Error("expected hash and sorted set keys")
	}
}

func TestInsertGeneratesIDAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	id, err := e.Insert(ctx, "t", engine.Row{"v": 1})
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := id.(string); s == "" {
		t.Fatalf("id = %#v", id)
	}
	if _, err := e.Insert(ctx, "t", engine.Row{"id": id}); errors.KindOf(err) != errors.InvalidRequest {
		t.Errorf("duplicate insert err = %v", err)
	}
}

func TestUpdateDeleteSearch(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	if _, err := e.Insert(ctx, "users", engine.Row{"id": 1, "name": "Grace Hopper"}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Insert(ctx, "users", engine.Row{"id": 2, "name": "Alan Turing"}); err != nil {
		t.Fatal(err)
	}

	n, err := e.Update(ctx, "users", 1.0, engine.Row{"name": "Grace B. Hopper", "id": 99})
	if err != nil || n != 1 {
		t.Fatalf("Update = %d, %v", n, err)
	}
	if n, _ := e.Update(ctx, "users", 3, engine.Row{"name": "x"}); n != 0 {
		t.Errorf("update of missing row affected %d", n)
	}

	found, err := e.Search(ctx, "users", "name", "b. hop")
	if err != nil {
		t.Fatal(err)
	}
	want := []engine.Row{{"id": 1.0, "name": "Grace B. Hopper"}}
	if diff := cmp.Diff(want, found); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}

	n, err = e.Delete(ctx, "users", "2")
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	rows, _ := e.Fetch(ctx, "users", engine.Query{Filters: map[string]any{"name": "Alan Turing"}})
	if len(rows) != 0 {
		t.Errorf("deleted row still fetched: %v", rows)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		raw     string
		addr    string
		db      int
		pass    string
		tls     bool
		wantErr bool
	}{
		{raw: "localhost:6379", addr: "localhost:6379"},
		{raw: "redis://:secret@cache:6380/2", addr: "cache:6380", db: 2, pass: "secret"},
		{raw: "rediss://cache", addr: "cache:6379", tls: true},
		{raw: "redis://cache/notanumber", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			opts, err := options(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if opts.Addrs[0] != tt.addr || opts.DB != tt.db || opts.Password != tt.pass || (opts.TLSConfig != nil) != tt.tls {
				t.Errorf("options = %+v", opts)
			}
		})
	}
}

func TestRawUnsupported(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.Raw(context.Background(), "select 1", nil); errors.KindOf(err) != errors.InvalidRequest {
		t.Errorf("err = %v", err)
	}
}
