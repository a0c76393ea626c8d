package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestLoadServerConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	yaml := "addr: \":9000\"\nstorage: redis://cache:6379/1\napi_key: from-file\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FLIGHT_SERVER_API_KEY", "from-env")

	cmd := &cobra.Command{}
	serveFlags.AllowedOrigins = nil
	f := cmd.Flags()
	f.StringVar(&serveFlags.ConfigFile, "config", "", "")
	f.StringVar(&serveFlags.Addr, "addr", ":8080", "")
	f.StringVar(&serveFlags.GRPCAddr, "grpc-addr", "", "")
	f.StringVar(&serveFlags.Storage, "storage", "memory://", "")
	f.StringVar(&serveFlags.APIKey, "api-key", "", "")
	f.StringSliceVar(&serveFlags.AllowedOrigins, "allow-origin", nil, "")
	f.BoolVar(&serveFlags.LogJSON, "log-json", false, "")
	f.DurationVar(&serveFlags.DrainTimeout, "drain-timeout", 0, "")
	if err := f.Parse([]string{"--config", path, "--grpc-addr", ":9001"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadServerConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
	if cfg.Storage != "redis://cache:6379/1" {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want env to beat file", cfg.APIKey)
	}
	if cfg.GRPCAddr != ":9001" {
		t.Errorf("GRPCAddr = %q, want flag value", cfg.GRPCAddr)
	}
	if cfg.DrainTimeout != 10*time.Second {
		t.Errorf("DrainTimeout = %v, want default", cfg.DrainTimeout)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}
