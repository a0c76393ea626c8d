// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns bridge transport failures into categories and
// user-friendly terminal messages. The bridge itself never surfaces these
// errors to application code; the CLI uses this package to explain why a
// result came back as "Connection to bridge failed".
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Category is a coarse classification of a transport failure.
type Category string

const (
	CategoryNone        Category = ""
	CategoryTimeout     Category = "timeout"
	CategoryDNS         Category = "dns"
	CategoryRefused     Category = "connection_refused"
	CategoryTLS         Category = "tls"
	CategoryServer      Category = "server"
	CategoryUnavailable Category = "unavailable"
	CategoryDecode      Category = "decode"
	CategoryGeneric     Category = "generic"
)

// Classify inspects err and returns its category. gRPC status errors are
// mapped by code; everything else is inspected as a net/http error.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown && st.Code() != codes.OK {
		switch st.Code() {
		case codes.DeadlineExceeded:
			return CategoryTimeout
		case codes.Unavailable:
			return CategoryUnavailable
		case codes.Internal:
			return CategoryServer
		}
	}
	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isSSLError(err):
		return CategoryTLS
	case isDecodeError(err):
		return CategoryDecode
	case isServerError(err.Error()):
		return CategoryServer
	}
	return CategoryGeneric
}

// FormatNetworkError prints a user-friendly explanation of err for the given
// endpoint and returns a wrapped error for logging/debugging.
func FormatNetworkError(err error, endpoint string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, ExtractHostFromURL(endpoint))
	return fmt.Errorf("network error: %w", err)
}

// displayErrorMessage shows a formatted error message to the user based on error type.
func displayErrorMessage(err error, host string) {
	switch Classify(err) {
	case CategoryTimeout:
		showTimeoutError(host)
	case CategoryDNS:
		showDNSError(host)
	case CategoryRefused, CategoryUnavailable:
		showConnectionRefusedError(host)
	case CategoryTLS:
		showSSLError(host)
	case CategoryDecode:
		showDecodeError(host)
	case CategoryServer:
		showServerError(host)
	default:
		showGenericError(host, err.Error())
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// isDecodeError checks if the backend answered with something that is not a
// result envelope (HTML error page, truncated JSON and so on).
func isDecodeError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "decode response") ||
		strings.Contains(errStr, "invalid character") ||
		strings.Contains(errStr, "unexpected end of json")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "status 500") ||
		strings.Contains(lower, "status 502") ||
		strings.Contains(lower, "status 503") ||
		strings.Contains(lower, "status 504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable")
}

func showTimeoutError(host string) {
	pterm.Printf("⏱️  Timed out waiting for the bridge at %s\n", host)
	pterm.Println()
	pterm.Println("The backend took too long to respond. This could mean:")
	pterm.Println("  • Slow network connection")
	pterm.Println("  • The backend is busy running a long query")
	pterm.Println()
	pterm.Println("Raise the timeout with --timeout or try again.")
	pterm.Println()
}

func showDNSError(host string) {
	pterm.Printf("🌐 Cannot resolve %s\n", host)
	pterm.Println()
	pterm.Println("Check the endpoint with: flight info")
	pterm.Println()
}

func showConnectionRefusedError(host string) {
	pterm.Printf("🚫 Connection refused by %s\n", host)
	pterm.Println()
	pterm.Println("Nothing is accepting bridge requests there. This could mean:")
	pterm.Println("  • The backend is not running (start one with: flight serve)")
	pterm.Println("  • Wrong endpoint address or port")
	pterm.Println()
}

func showSSLError(host string) {
	pterm.Printf("🔒 Secure connection to %s failed\n", host)
	pterm.Println()
	pterm.Println("Cannot establish HTTPS. Check the certificate, your proxy settings and the system clock.")
	pterm.Println()
}

func showDecodeError(host string) {
	pterm.Printf("📦 %s did not answer with a bridge result\n", host)
	pterm.Println()
	pterm.Println("The endpoint responded, but not with a JSON result envelope.")
	pterm.Println("Make sure the endpoint points at the bridge script, not a web page.")
	pterm.Println()
}

func showServerError(host string) {
	pterm.Printf("⚠️  The bridge at %s failed internally\n", host)
	pterm.Println()
	pterm.Println("Check the backend logs for details.")
	pterm.Println()
}

func showGenericError(host string, errDetails string) {
	pterm.Printf("❌ Cannot reach the bridge at %s\n", host)
	pterm.Println()
	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
