package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigFormatVersion != "1" {
		t.Fatalf("unexpected version: %q", cfg.ConfigFormatVersion)
	}
	if !cfg.Preferences.AutoExecuteSafe || cfg.Preferences.TimeoutSeconds != 30 {
		t.Fatalf("unexpected defaults: %+v", cfg.Preferences)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `config_format_version: "1"
preferences:
  auto_execute_safe: false
  timeout_seconds: 5
  shell: /bin/bash
security:
  quick_screen: true
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.AutoExecuteSafe {
		t.Fatal("auto_execute_safe override lost")
	}
	if cfg.Preferences.TimeoutSeconds != 5 || cfg.Preferences.Shell != "/bin/bash" {
		t.Fatalf("preferences not loaded: %+v", cfg.Preferences)
	}
	if !cfg.Security.QuickScreen {
		t.Fatal("quick_screen override lost")
	}
}

func TestLoadHydratesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigFormatVersion != "1" || cfg.Preferences.TimeoutSeconds != 30 {
		t.Fatalf("missing fields not hydrated: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
