// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe access to the OS credential store.
// The CLI keeps connection parameters there because they usually carry
// credentials (API keys, passwords) that must not land in a plain config file.
//
// macOS uses the security command (falling back to the Keychain and pass
// backends of 99designs/keyring), Windows uses the Credential Manager and
// Linux uses the Secret Service, KWallet or pass. Setting
// FLIGHT_KEYRING_PASSWORD enables an encrypted file store under the XDG state
// directory for headless machines.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"flightbridge/cli/internal/xdg"
)

// ServiceName identifies our credential store namespace.
const ServiceName = "flightbridge"

// Keys used for secrets in the credential store.
const (
	KeyProfile = "connection_profile"
	KeyStorage = "server_storage"
)

// ErrNotFound is returned when a key has never been stored.
var ErrNotFound = errors.New("keychain: item not found")

var (
	globalManager *Manager
	mu            sync.Mutex
)

// backend is the minimal credential store the manager needs.
type backend interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// Manager serializes access to one backend.
type Manager struct {
	mu      sync.RWMutex
	backend backend
}

// NewManager opens the platform credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if b, err := newSecurityBackend(); err == nil {
			return &Manager{backend: b}, nil
		}
	}
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return FromKeyring(ring), nil
}

// FromKeyring wraps an opened keyring, e.g. keyring.NewArrayKeyring in tests.
func FromKeyring(ring keyring.Keyring) *Manager {
	return &Manager{backend: ringBackend{ring: ring}}
}

// GetManager returns the process-wide manager, retrying initialization on
// every call until it succeeds.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return m, nil
}

func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:   ServiceName,
		PassPrefix:    ServiceName,
		WinCredPrefix: ServiceName,
	}
	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		cfg.AllowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}
	if pw := os.Getenv("FLIGHT_KEYRING_PASSWORD"); pw != "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.AllowedBackends = append(cfg.AllowedBackends, keyring.FileBackend)
		cfg.FileDir = dir
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
	}
	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg) or set FLIGHT_KEYRING_PASSWORD")
		}
		return nil, errors.New("no credential store available. Start a Secret Service provider or set FLIGHT_KEYRING_PASSWORD")
	}
	return ring, nil
}

// Save stores value under key, replacing any previous value.
func (m *Manager) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(key, value)
}

// Load returns the value stored under key or ErrNotFound.
func (m *Manager) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend.Get(key)
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Delete(key)
}

// ClearAll removes every key the CLI writes.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for _, k := range []string{KeyProfile, KeyStorage} {
		errs = append(errs, m.backend.Delete(k))
	}
	return errors.Join(errs...)
}

type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key string, value []byte) error {
	return r.ring.Set(keyring.Item{Key: key, Data: value, Label: ServiceName + " " + key})
}

func (r ringBackend) Get(key string) ([]byte, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
