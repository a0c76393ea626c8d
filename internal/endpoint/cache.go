// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import "sync"

var (
	// Resolved endpoint, computed once per process.
	cached     string
	cachedSet  bool
	cachedLock sync.RWMutex
)

// getCached returns the cached endpoint and whether one was stored.
func getCached() (string, bool) {
	cachedLock.RLock()
	defer cachedLock.RUnlock()
	return cached, cachedSet
}

// setCached stores the endpoint unless another goroutine got there first and
// returns the value that ended up in the cache.
func setCached(u string) string {
	cachedLock.Lock()
	defer cachedLock.Unlock()
	if !cachedSet {
		cached, cachedSet = u, true
	}
	return cached
}

// ClearCache forgets the resolved endpoint (primarily for testing).
func ClearCache() {
	cachedLock.Lock()
	defer cachedLock.Unlock()
	cached, cachedSet = "", false
}
