package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "" {
		t.Errorf("expected empty Endpoint, got %q", cfg.Endpoint)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecosniper", "config.json")

	want := &Config{
		Endpoint:               "ovh-eu",
		Subsidiary:             "FR",
		TargetOS:               "none_64.en",
		TargetDuration:         "P1M",
		TelegramChatID:         "42",
		DefaultIntervalSeconds: 30,
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{Endpoint: "ovh-eu"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify the file exists.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := &Config{Subsidiary: "IE"}
	if err := first.SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := &Config{Subsidiary: "FR"}
	if err := second.SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Subsidiary != "FR" {
		t.Errorf("expected Subsidiary %q, got %q", "FR", got.Subsidiary)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.EndpointOrDefault(); got != "ovh-eu" {
		t.Errorf("EndpointOrDefault = %q", got)
	}
	if got := cfg.SubsidiaryOrDefault(); got != "IE" {
		t.Errorf("SubsidiaryOrDefault = %q", got)
	}
	if got := cfg.TargetOSOrDefault(); got != "none_64.en" {
		t.Errorf("TargetOSOrDefault = %q", got)
	}
	if got := cfg.TargetDurationOrDefault(); got != "P1M" {
		t.Errorf("TargetDurationOrDefault = %q", got)
	}
	if got := cfg.IntervalOrDefault(); got != 60 {
		t.Errorf("IntervalOrDefault = %d", got)
	}

	cfg.DefaultIntervalSeconds = 30
	if got := cfg.IntervalOrDefault(); got != 30 {
		t.Errorf("IntervalOrDefault with explicit value = %d", got)
	}
}
