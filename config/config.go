// Package config loads and persists the renderer's tunable settings:
// window size, field of view, worker-pool sizing for texture load, the
// near plane, distance-fade falloff, visplane soft cap, and the last
// few debug toggles. It follows the load-or-init-defaults pattern common
// to small standalone tools: a missing file gets written with defaults,
// an existing one is decoded as-is.
package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the renderer's persisted configuration.
type Config struct {
	WindowWidth  int
	WindowHeight int
	FOVDegrees   float64
	ShadeWorkers int
	VSync        bool
	ShowDebugHUD bool
	LastUsedMap  string

	// NearPlane is the renderer's near-clip distance, in map units.
	NearPlane float64
	// DistFadeFull is the distance, in map units, at which the
	// distance-fade shading term alone reaches the darkest shade row.
	DistFadeFull float64
	// MaxVisplanes soft-caps the number of distinct floor/ceiling
	// planes a frame may accumulate; further allocations are dropped
	// once reached rather than growing without bound.
	MaxVisplanes int
}

const fileName = "config.toml"

// Default returns the configuration a fresh install starts with.
func Default() Config {
	return Config{
		WindowWidth:  1024,
		WindowHeight: 768,
		FOVDegrees:   90,
		ShadeWorkers: 4,
		VSync:        true,
		ShowDebugHUD: false,
		LastUsedMap:  "",

		NearPlane:    1.0,
		DistFadeFull: 2000.0,
		MaxVisplanes: 4096,
	}
}

// InitializeIfNot creates dir and writes a default config.toml under it
// if one isn't already there. It never overwrites an existing file.
func InitializeIfNot(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: creating config directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: checking for %q: %w", path, err)
	}

	log.Println("config: initializing default config.toml")
	return Write(dir, Default())
}

// Read decodes dir/config.toml.
func Read(dir string) (Config, error) {
	path := filepath.Join(dir, fileName)
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	return c, nil
}

// Write encodes c and replaces dir/config.toml.
func Write(dir string, c Config) error {
	path := filepath.Join(dir, fileName)
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&c); err != nil {
		return fmt.Errorf("config: encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: writing %q: %w", path, err)
	}
	return nil
}

// DefaultDir resolves the platform config directory, preferring
// $XDG_CONFIG_HOME and falling back to $HOME/.config like most Linux
// desktop tools do.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "doomgo")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "doomgo")
}
