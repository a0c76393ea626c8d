package profile

import (
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/google/go-cmp/cmp"

	"flightbridge/cli/internal/keychain"
	"flightbridge/cli/internal/transport"
)

func newStore() *Store {
	return NewStore(keychain.FromKeyring(keyring.NewArrayKeyring(nil)))
}

func TestLoadMissingIsEmpty(t *testing.T) {
	p, err := newStore().Load()
	if err != nil {
		t.Fatal(err)
	}
	if !p.Empty() {
		t.Errorf("Load() = %+v, want empty", p)
	}
}

func TestSaveLoadClear(t *testing.T) {
	s := newStore()
	saved := Profile{
		Params:   map[string]any{"host": "db.local", "port": float64(5432)},
		Endpoint: "http://localhost:8080/flight.php",
		SavedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := s.Save(saved); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Load(); !got.Empty() {
		t.Errorf("after Clear: %+v", got)
	}
}

func TestSaveStampsTime(t *testing.T) {
	s := newStore()
	if err := s.Save(Profile{Params: map[string]any{"a": "b"}}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load()
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}
}

func TestCorruptProfile(t *testing.T) {
	km := keychain.FromKeyring(keyring.NewArrayKeyring(nil))
	_ = km.Save(keychain.KeyProfile, []byte("{not json"))
	if _, err := NewStore(km).Load(); err == nil {
		t.Error("expected error for corrupt profile")
	}
}

func TestApply(t *testing.T) {
	h := transport.NewHolder("http://default/flight.php")
	Profile{}.Apply(h)
	if h.Overridden() {
		t.Fatal("empty profile must not touch the holder")
	}

	Profile{Params: map[string]any{"db": "main"}, Endpoint: "http://saved/flight.php"}.Apply(h)
	cfg := h.Snapshot()
	if cfg.Endpoint != "http://saved/flight.php" || cfg.Params["db"] != "main" {
		t.Errorf("Snapshot() = %+v", cfg)
	}
}
