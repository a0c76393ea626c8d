// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoint derives the default bridge URL from the URL the runtime was
// loaded from. It is the discovery collaborator only: an explicit override set
// through transport.Holder.Connect always wins over anything resolved here.
package endpoint

import (
	"net/url"
	"strings"
)

// BackendFile is the bridge script name expected next to the loader.
const BackendFile = "flight.php"

// DefaultURL is used when the loader URL is unknown or unusable.
const DefaultURL = "https://raw.githubusercontent.com/Myxo-victor/venjs/main/flight.php"

// Derive takes the loader URL's origin and directory and appends BackendFile.
// An empty, relative or unparsable loader URL yields DefaultURL.
func Derive(loaderURL string) string {
	loaderURL = strings.TrimSpace(loaderURL)
	if loaderURL == "" {
		return DefaultURL
	}
	u, err := url.Parse(loaderURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return DefaultURL
	}

	// Drop the last path segment (the loader itself), keep the directory.
	parts := strings.Split(u.EscapedPath(), "/")
	parts = parts[:len(parts)-1]
	folder := strings.Join(parts, "/")

	return u.Scheme + "://" + u.Host + folder + "/" + BackendFile
}
