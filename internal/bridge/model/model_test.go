// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvelopeWireShape(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "search keeps null table fields",
			env: Envelope{
				Config: map[string]any{},
				Action: ActionSearch,
				Table:  Ptr("users"),
				Search: &SearchClause{Column: "name", Value: "Bob"},
			},
			want: `{"config":{},"action":"search","table":"users","data":null,"id":null,"search":{"column":"name","value":"Bob"}}`,
		},
		{
			name: "raw with empty params list",
			env: Envelope{
				Config: map[string]any{},
				Action: ActionRaw,
				Params: []any{},
				SQL:    Ptr("select 1"),
			},
			want: `{"config":{},"action":"raw","table":null,"data":null,"id":null,"params":[],"sql":"select 1"}`,
		},
		{
			name: "raw keeps an empty statement",
			env: Envelope{
				Config: map[string]any{},
				Action: ActionRaw,
				Params: []any{},
				SQL:    Ptr(""),
			},
			want: `{"config":{},"action":"raw","table":null,"data":null,"id":null,"params":[],"sql":""}`,
		},
		{
			name: "fetch with empty params object",
			env: Envelope{
				Config: map[string]any{"db": "shop"},
				Action: ActionFetch,
				Table:  Ptr("orders"),
				Params: map[string]any{},
			},
			want: `{"config":{"db":"shop"},"action":"fetch","table":"orders","data":null,"id":null,"params":{}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.env)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("wire = %s\nwant   %s", b, tt.want)
			}
		})
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	env := Envelope{
		Config: map[string]any{"user": "root"},
		Action: ActionUpdate,
		Table:  Ptr("users"),
		Data:   map[string]any{"name": "Ann"},
		ID:     float64(7),
	}
	fields, err := env.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if _, ok := fields["search"]; ok {
		t.Error("unused search field should be omitted")
	}
	back, err := EnvelopeFromFields(fields)
	if err != nil {
		t.Fatalf("EnvelopeFromFields: %v", err)
	}
	if diff := cmp.Diff(env, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsAccessors(t *testing.T) {
	fetch := Envelope{Params: map[string]any{"status": "open"}}
	if got := fetch.FetchParams()["status"]; got != "open" {
		t.Errorf("FetchParams()[status] = %v", got)
	}
	if got := (Envelope{}).FetchParams(); len(got) != 0 {
		t.Errorf("FetchParams() on empty = %v", got)
	}

	raw := Envelope{Params: []any{float64(1), "x"}}
	params, err := raw.RawParams()
	if err != nil || len(params) != 2 {
		t.Errorf("RawParams() = %v, %v", params, err)
	}
	if _, err := (Envelope{Params: map[string]any{}}).RawParams(); err == nil {
		t.Error("RawParams() accepted an object")
	}
}

func TestActionValid(t *testing.T) {
	for _, a := range Actions {
		if !a.Valid() {
			t.Errorf("%q should be valid", a)
		}
	}
	if Action("drop").Valid() {
		t.Error(`"drop" should not be valid`)
	}
}
