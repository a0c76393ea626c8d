package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestConfigLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	yaml := "addr: \":9000\"\nstorage: redis://cache:6379/1\nallowed_origins: [\"https://a.example\"]\ndrain_timeout: 3s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FLIGHT_SERVER_ADDR", ":9100")
	t.Setenv("FLIGHT_SERVER_API_KEY", "k")

	var cfg Config
	cfg.ConfigFile = path
	if err := cfg.LoadFile(cfg.ConfigFile); err != nil {
		t.Fatal(err)
	}
	cfg.ApplyEnv()
	cfg.SetDefaults()

	want := Config{
		Addr:           ":9100",
		Storage:        "redis://cache:6379/1",
		APIKey:         "k",
		AllowedOrigins: []string{"https://a.example"},
		LogLevel:       "info",
		MaxBodyBytes:   8 << 20,
		DrainTimeout:   3 * time.Second,
		ConfigFile:     path,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileMissingIsFine(t *testing.T) {
	var cfg Config
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("LoadFile: %v", err)
	}
}

func TestSplitComma(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, splitComma(" a, ,b ")); diff != "" {
		t.Error(diff)
	}
	if splitComma("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestOpenEngineDefaultsToMemory(t *testing.T) {
	e, err := OpenEngine(t.Context(), "")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "memory" {
		t.Errorf("engine = %s", e.Name())
	}
	if _, err := OpenEngine(t.Context(), "mongodb://x"); err == nil {
		t.Error("unknown scheme should fail")
	}
}
