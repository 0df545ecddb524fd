package config

import (
	"path/filepath"
	"testing"
)

func TestInitializeIfNotWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	if err := InitializeIfNot(dir); err != nil {
		t.Fatalf("InitializeIfNot: %v", err)
	}

	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := Default()
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInitializeIfNotDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()

	if err := InitializeIfNot(dir); err != nil {
		t.Fatalf("InitializeIfNot: %v", err)
	}

	custom := Default()
	custom.WindowWidth = 42
	if err := Write(dir, custom); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := InitializeIfNot(dir); err != nil {
		t.Fatalf("InitializeIfNot (second call): %v", err)
	}

	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.WindowWidth != 42 {
		t.Fatalf("InitializeIfNot clobbered an existing config: got WindowWidth=%d", got.WindowWidth)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := Config{
		WindowWidth:  640,
		WindowHeight: 480,
		FOVDegrees:   75,
		ShadeWorkers: 2,
		VSync:        false,
		ShowDebugHUD: true,
		LastUsedMap:  filepath.Join("maps", "e1m1.wad"),
	}

	if err := Write(dir, c); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}
}
