package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeIni(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "colony.ini")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp ini file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsForMissingKeys(t *testing.T) {
	path := writeIni(t, "growth_rate = 7.5\n")
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GrowthRate != 7.5 {
		t.Fatalf("expected override growth_rate=7.5, got %v", p.GrowthRate)
	}
	defaults := Defaults()
	if p.DivisionLength != defaults.DivisionLength {
		t.Fatalf("expected default division_length=%v for missing key, got %v", defaults.DivisionLength, p.DivisionLength)
	}
}

func TestLoadIgnoresSectionHeaders(t *testing.T) {
	path := writeIni(t, "[anything]\nnum_ticks = 42\n")
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NumTicks != 42 {
		t.Fatalf("expected num_ticks=42 regardless of section, got %v", p.NumTicks)
	}
}

func TestLoadMalformedNumberAborts(t *testing.T) {
	path := writeIni(t, "growth_rate = not-a-number\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for a malformed number")
	}
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("expected ErrConfigParse, got %v", err)
	}
}

func TestLoadMissingFileReturnsConfigMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}
