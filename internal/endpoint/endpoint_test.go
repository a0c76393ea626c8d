// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import "testing"

func TestDerive(t *testing.T) {
	tests := []struct {
		name   string
		loader string
		want   string
	}{
		{
			name:   "script in nested folder",
			loader: "https://cdn.example.com/libs/venjs/flightBridge.js",
			want:   "https://cdn.example.com/libs/venjs/flight.php",
		},
		{
			name:   "script at root keeps port",
			loader: "http://localhost:8080/flightBridge.js?v=3",
			want:   "http://localhost:8080/flight.php",
		},
		{
			name:   "directory url",
			loader: "https://example.com/app/",
			want:   "https://example.com/app/flight.php",
		},
		{
			name:   "empty",
			loader: "",
			want:   DefaultURL,
		},
		{
			name:   "relative path",
			loader: "js/flightBridge.js",
			want:   DefaultURL,
		},
		{
			name:   "unparsable",
			loader: "http://[::1",
			want:   DefaultURL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.loader); got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.loader, got, tt.want)
			}
		})
	}
}

func TestDefaultIsResolvedOnce(t *testing.T) {
	ClearCache()
	defer ClearCache()

	first := Default("https://a.example/x/loader.js")
	second := Default("https://b.example/y/loader.js")

	if first != "https://a.example/x/flight.php" {
		t.Fatalf("first = %q", first)
	}
	if second != first {
		t.Fatalf("second resolution = %q, want cached %q", second, first)
	}
}
