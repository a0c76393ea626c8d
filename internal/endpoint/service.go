// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import (
	"os"

	"flightbridge/cli/internal/logx"
)

// LoaderEnv names the environment variable that reports the URL the runtime
// was loaded from, the Go stand-in for the hosting page's script tag.
const LoaderEnv = "FLIGHT_LOADER_URL"

// Default resolves the endpoint once per process from loaderURL and caches
// the result. Later calls return the cached value whatever they pass.
func Default(loaderURL string) string {
	if u, ok := getCached(); ok {
		return u
	}
	u := setCached(Derive(loaderURL))
	logx.Log.Debug().Str("loader", loaderURL).Str("endpoint", u).Msg("bridge endpoint resolved")
	return u
}

// FromEnvironment is Default fed from LoaderEnv.
func FromEnvironment() string {
	return Default(os.Getenv(LoaderEnv))
}
