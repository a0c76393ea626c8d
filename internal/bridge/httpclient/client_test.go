// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flightbridge/cli/internal/bridge/model"

	"github.com/google/go-cmp/cmp"
)

func TestExchangePostsJSONEnvelope(t *testing.T) {
	var gotMethod, gotType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":1}]}`)
	}))
	defer srv.Close()

	env := model.Envelope{
		Config: map[string]any{"db": "shop"},
		Action: model.ActionFetch,
		Table:  model.Ptr("orders"),
		Params: map[string]any{},
	}
	out, err := New(time.Second).Exchange(context.Background(), srv.URL, env)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotType != "application/json" {
		t.Errorf("content type = %q", gotType)
	}
	wantBody := map[string]any{
		"config": map[string]any{"db": "shop"},
		"action": "fetch",
		"table":  "orders",
		"data":   nil,
		"id":     nil,
		"params": map[string]any{},
	}
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	if out["success"] != true {
		t.Errorf("response = %v", out)
	}
}

func TestExchangeKeepsBodyOfErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"error":"unknown table"}`)
	}))
	defer srv.Close()

	out, err := New(0).Exchange(context.Background(), srv.URL, model.Envelope{Action: model.ActionFetch})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if out["error"] != "unknown table" {
		t.Errorf("response = %v", out)
	}
}

func TestExchangeRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	_, err := New(0).Exchange(context.Background(), srv.URL, model.Envelope{Action: model.ActionFetch})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("err = %v, want decode error", err)
	}
}

func TestExchangeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(time.Second).Exchange(context.Background(), url, model.Envelope{}); err == nil {
		t.Fatal("expected an error for a closed server")
	}
}
