// Package xdg resolves XDG Base Directory paths for flightbridge.
// It falls back to the traditional ~/.config and ~/.local/state locations when
// the XDG environment variables are not set, and creates private directories.
package xdg

import (
	"os"
	"path/filepath"
)

// AppDir is the directory name used under every XDG base.
const AppDir = "flightbridge"

// ConfigDir returns the XDG config directory for flightbridge.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/flightbridge when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for flightbridge.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/flightbridge when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
