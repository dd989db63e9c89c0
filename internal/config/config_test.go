package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Discover.PolyDepth != 1 {
		t.Errorf("PolyDepth = %d, want 1", cfg.Discover.PolyDepth)
	}
	if cfg.Index.Cache {
		t.Error("index cache should default to off")
	}
	if cfg.Index.TTLOrDefault() != 168 {
		t.Errorf("TTLOrDefault = %d, want 168", cfg.Index.TTLOrDefault())
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discover.PolyDepth != 1 {
		t.Errorf("PolyDepth = %d, want 1", cfg.Discover.PolyDepth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[discover]
poly_depth = 3

[index]
cache = true
ttl_hours = 24

[languages]
enabled = ["java"]
`
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discover.PolyDepth != 3 {
		t.Errorf("PolyDepth = %d, want 3", cfg.Discover.PolyDepth)
	}
	if !cfg.Index.Cache || cfg.Index.TTLHours != 24 {
		t.Errorf("index = %+v", cfg.Index)
	}
	if len(cfg.Languages.Enabled) != 1 || cfg.Languages.Enabled[0] != "java" {
		t.Errorf("languages = %v", cfg.Languages.Enabled)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Discover.PolyDepth = 11
	cfg.Index.TTLHours = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CODESCOPE_POLY_DEPTH", "2")
	t.Setenv("CODESCOPE_INDEX_CACHE", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discover.PolyDepth != 2 {
		t.Errorf("PolyDepth = %d, want 2", cfg.Discover.PolyDepth)
	}
	if !cfg.Index.Cache {
		t.Error("cache override not applied")
	}
}

func TestEnvOverrideInvalidValueIgnored(t *testing.T) {
	t.Setenv("CODESCOPE_POLY_DEPTH", "lots")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discover.PolyDepth != 1 {
		t.Errorf("PolyDepth = %d, want default 1", cfg.Discover.PolyDepth)
	}
}

func TestEnvOverrideRejectedByValidation(t *testing.T) {
	t.Setenv("CODESCOPE_POLY_DEPTH", "99")

	if _, err := Load(""); err == nil {
		t.Error("expected out-of-range override to fail validation")
	}
}
