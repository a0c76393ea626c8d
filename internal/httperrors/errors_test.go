// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryNone},
		{"context deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), CategoryTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, CategoryDNS},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), CategoryRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), CategoryTLS},
		{"decode", errors.New("decode response: invalid character '<' looking for beginning of value"), CategoryDecode},
		{"server", errors.New("unexpected status 502 Bad Gateway"), CategoryServer},
		{"grpc unavailable", status.Error(codes.Unavailable, "connection error"), CategoryUnavailable},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), CategoryTimeout},
		{"generic", errors.New("something odd"), CategoryGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	if got := ExtractHostFromURL("https://example.com:8443/app/flight.php"); got != "example.com:8443" {
		t.Errorf("got %q", got)
	}
	if got := ExtractHostFromURL("::not a url"); got != "server" {
		t.Errorf("got %q", got)
	}
}
