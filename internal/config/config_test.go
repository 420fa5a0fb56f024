package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.DataDir != "data" {
		t.Errorf("expected data dir %q, got %q", "data", cfg.DataDir)
	}
	if cfg.DatabasePath != filepath.Join("db", "ecommerce.db") {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}
	if cfg.ReportJSON != "report.json" || cfg.ReportMD != "report.md" {
		t.Errorf("unexpected report paths %q / %q", cfg.ReportJSON, cfg.ReportMD)
	}
	if cfg.QueriesPath != "queries.yaml" {
		t.Errorf("unexpected queries path %q", cfg.QueriesPath)
	}
	if cfg.Generator.Seed != 42 || cfg.Generator.Users != 95 || cfg.Generator.Products != 32 {
		t.Errorf("unexpected generator defaults %+v", cfg.Generator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestDefaultsDoNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{DataDir: "fixtures", Generator: Generator{Seed: 7, Users: 10, Products: 16}}
	applyDefaults(cfg)

	if cfg.DataDir != "fixtures" {
		t.Errorf("explicit data dir was overridden: %q", cfg.DataDir)
	}
	if cfg.Generator.Seed != 7 || cfg.Generator.Users != 10 || cfg.Generator.Products != 16 {
		t.Errorf("explicit generator values were overridden: %+v", cfg.Generator)
	}
	// Untouched fields still get defaults.
	if cfg.DatabasePath == "" {
		t.Error("database path default was not applied")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"negative users", func(c *Config) { c.Generator.Users = -1 }, true},
		{"negative products", func(c *Config) { c.Generator.Products = -1 }, true},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.DataDir = filepath.Join(base, "data")
	cfg.DatabasePath = filepath.Join(base, "db", "ecommerce.db")
	cfg.ResultDir = filepath.Join(base, "results")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories failed: %v", err)
	}

	for _, dir := range []string{cfg.DataDir, filepath.Dir(cfg.DatabasePath), cfg.ResultDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}
