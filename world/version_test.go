package world

import "testing"

func TestCheckFormatVersionAccepts(t *testing.T) {
	l := &Level{FormatVersion: "1.2.0"}
	if err := CheckFormatVersion(l); err != nil {
		t.Fatalf("CheckFormatVersion: %v", err)
	}
}

func TestCheckFormatVersionRejectsOlder(t *testing.T) {
	l := &Level{FormatVersion: "0.9.0"}
	if err := CheckFormatVersion(l); err == nil {
		t.Fatalf("a level older than MinFormatVersion must be rejected")
	}
}

func TestCheckFormatVersionRejectsUnparseable(t *testing.T) {
	l := &Level{FormatVersion: "not-a-version"}
	if err := CheckFormatVersion(l); err == nil {
		t.Fatalf("an unparseable format version must be rejected")
	}
}
