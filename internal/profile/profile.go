// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package profile persists the connection parameters given to "flight
// connect" so later invocations can reuse them. Profiles live in the OS
// keychain because params routinely carry passwords and API keys.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightbridge/cli/internal/keychain"
	"flightbridge/cli/internal/transport"
)

// Profile is the saved result of a connect call.
type Profile struct {
	Params   map[string]any `json:"params"`
	Endpoint string         `json:"endpoint,omitempty"`
	SavedAt  time.Time      `json:"saved_at"`
}

// Empty reports whether nothing was saved.
func (p Profile) Empty() bool {
	return len(p.Params) == 0 && p.Endpoint == ""
}

// Apply replays the profile onto h as if connect had been called again.
func (p Profile) Apply(h *transport.Holder) {
	if p.Empty() {
		return
	}
	h.Connect(p.Params, p.Endpoint)
}

// Store reads and writes the profile through a keychain manager.
type Store struct {
	km *keychain.Manager
}

// NewStore returns a Store backed by km.
func NewStore(km *keychain.Manager) *Store {
	return &Store{km: km}
}

// Default returns a Store on the process-wide keychain.
func Default() (*Store, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return nil, err
	}
	return NewStore(km), nil
}

// Load returns the saved profile. A missing profile yields the zero value.
func (s *Store) Load() (Profile, error) {
	data, err := s.km.Load(keychain.KeyProfile)
	if errors.Is(err, keychain.ErrNotFound) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("corrupt profile in keychain: %w", err)
	}
	return p, nil
}

// Save replaces the stored profile.
func (s *Store) Save(p Profile) error {
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.km.Save(keychain.KeyProfile, data)
}

// Clear removes the stored profile.
func (s *Store) Clear() error {
	return s.km.Delete(keychain.KeyProfile)
}
