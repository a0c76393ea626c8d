package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"flightbridge/cli/internal/engine"
	"flightbridge/cli/internal/engine/memory"
)

func env(action string, extra map[string]any) map[string]any {
	out := map[string]any{"config": map[string]any{}, "action": action, "table": "notes", "data": nil, "id": nil}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func TestExecutorActions(t *testing.T) {
	ctx := context.Background()
	x := NewExecutor(memory.New(), "")

	resp, status := x.Execute(ctx, env("insert", map[string]any{"data": map[string]any{"id": "n1", "title": "Hello"}}))
	if status != http.StatusOK || resp["id"] != "n1" || resp["success"] != true {
		t.Fatalf("insert = %v (%d)", resp, status)
	}
	x.Execute(ctx, env("insert", map[string]any{"data": map[string]any{"id": "n2", "title": "World"}}))

	resp, _ = x.Execute(ctx, env("fetch", map[string]any{"params": map[string]any{"_order": "-id", "_limit": 1.0}}))
	want := Response{"success": true, "data": []engine.Row{{"id": "n2", "title": "World"}}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("fetch mismatch (-want +got):\n%s", diff)
	}

	resp, _ = x.Execute(ctx, env("update", map[string]any{"id": "n1", "data": map[string]any{"title": "Hi"}}))
	if resp["affected"] != int64(1) {
		t.Errorf("update = %v", resp)
	}

	resp, _ = x.Execute(ctx, env("search", map[string]any{"search": map[string]any{"column": "title", "value": "HI"}}))
	want = Response{"success": true, "data": []engine.Row{{"id": "n1", "title": "Hi"}}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}

	resp, _ = x.Execute(ctx, env("delete", map[string]any{"id": "n2"}))
	if resp["affected"] != int64(1) {
		t.Errorf("delete = %v", resp)
	}
}

func TestExecutorRejections(t *testing.T) {
	ctx := context.Background()
	x := NewExecutor(memory.New(), "")

	tests := []struct {
		name   string
		fields map[string]any
		status int
	}{
		{"unknown action", env("truncate", nil), http.StatusBadRequest},
		{"missing action", map[string]any{"table": "t"}, http.StatusBadRequest},
		{"missing table", env("insert", map[string]any{"table": nil}), http.StatusBadRequest},
		{"update without data", env("update", map[string]any{"id": "x"}), http.StatusBadRequest},
		{"delete without id", env("delete", nil), http.StatusBadRequest},
		{"search without clause", env("search", nil), http.StatusBadRequest},
		{"bad limit", env("fetch", map[string]any{"params": map[string]any{"_limit": "lots"}}), http.StatusBadRequest},
		{"raw on memory", env("raw", map[string]any{"sql": "select 1", "params": []any{}}), http.StatusBadRequest},
		{"table of wrong type", env("insert", map[string]any{"table": 5.0}), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, status := x.Execute(ctx, tt.fields)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if resp["success"] != false {
				t.Errorf("success = %v", resp["success"])
			}
			if msg, _ := resp["error"].(string); msg == "" {
				t.Errorf("missing error message: %v", resp)
			}
		})
	}
}

func TestExecutorAPIKey(t *testing.T) {
	ctx := context.Background()
	x := NewExecutor(memory.New(), "s3cret")

	resp, status := x.Execute(ctx, env("fetch", nil))
	if status != http.StatusBadRequest || resp["error"] != "invalid api key" {
		t.Errorf("no key: %v (%d)", resp, status)
	}
	resp, _ = x.Execute(ctx, env("fetch", map[string]any{"config": map[string]any{"key": "wrong"}}))
	if resp["success"] != false {
		t.Errorf("wrong key accepted: %v", resp)
	}
	resp, status = x.Execute(ctx, env("fetch", map[string]any{"config": map[string]any{"key": "s3cret"}}))
	if status != http.StatusOK || resp["success"] != true {
		t.Errorf("right key rejected: %v", resp)
	}
}
