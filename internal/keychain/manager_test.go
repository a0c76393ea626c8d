// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestManagerRoundTrip(t *testing.T) {
	m := FromKeyring(keyring.NewArrayKeyring(nil))

	if _, err := m.Load(KeyProfile); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save: err = %v, want ErrNotFound", err)
	}
	if err := m.Save(KeyProfile, []byte(`{"endpoint":"x"}`)); err != nil {
		t.Fatal(err)
	}
	got, err := m.Load(KeyProfile)
	if err != nil || string(got) != `{"endpoint":"x"}` {
		t.Fatalf("Load = %q, %v", got, err)
	}
	if err := m.Delete(KeyProfile); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(KeyProfile); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := m.Load(KeyProfile); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete: %v", err)
	}
}

func TestClearAll(t *testing.T) {
	m := FromKeyring(keyring.NewArrayKeyring(nil))
	_ = m.Save(KeyProfile, []byte("a"))
	_ = m.Save(KeyStorage, []byte("b"))
	if err := m.ClearAll(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{KeyProfile, KeyStorage} {
		if _, err := m.Load(k); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s survived ClearAll: %v", k, err)
		}
	}
}
