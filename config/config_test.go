package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.PollingSettings.Interval != 2*time.Second {
		t.Errorf("expected 2s polling interval, got %v", cfg.PollingSettings.Interval)
	}
	if cfg.PollingSettings.DiscardStale {
		t.Error("stale responses must not be discarded by default")
	}
	if cfg.TableSettings.DefaultPageSize != 10 || len(cfg.TableSettings.PageSizes) != 4 {
		t.Errorf("unexpected table settings %+v", cfg.TableSettings)
	}
	if cfg.BackendSettings.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected backend url %q", cfg.BackendSettings.BaseURL)
	}
	if cfg.DbSettings.Driver != "sqlite" {
		t.Errorf("unexpected driver %q", cfg.DbSettings.Driver)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
port: "9090"
backend:
  base_url: http://crawler:8000
polling:
  interval: 5s
  discard_stale: true
table:
  default_page_size: 20
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DASHBOARD_BACKEND_BASE_URL", "http://override:8000")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Port != "9090" || cfg.PollingSettings.Interval != 5*time.Second || !cfg.PollingSettings.DiscardStale {
		t.Errorf("file values not applied: %+v %+v", cfg, cfg.PollingSettings)
	}
	if cfg.TableSettings.DefaultPageSize != 20 {
		t.Errorf("expected page size 20, got %d", cfg.TableSettings.DefaultPageSize)
	}
	if cfg.BackendSettings.BaseURL != "http://override:8000" {
		t.Errorf("env override not applied: %q", cfg.BackendSettings.BaseURL)
	}
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	dir := t.TempDir()
	content := "table:\n  default_page_size: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected validation error")
	}
}
