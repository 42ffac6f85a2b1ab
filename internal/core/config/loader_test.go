package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_CROSSPAY_DB", "/tmp/crosspay-test/state.db")

	path := writeConfig(t, `
storage:
  driver: sqlite
  path: ${TEST_CROSSPAY_DB}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Path != "/tmp/crosspay-test/state.db" {
		t.Errorf("Expected path /tmp/crosspay-test/state.db, got %s", cfg.Storage.Path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %s, want sqlite", cfg.Storage.Driver)
	}
	if filepath.Base(cfg.Storage.Path) != "state.db" {
		t.Errorf("unexpected default path %s", cfg.Storage.Path)
	}
	if cfg.Admin.Username != "admin" || cfg.Admin.Password != "demo123" {
		t.Errorf("unexpected default credentials %+v", cfg.Admin)
	}
	if !cfg.Demo.SeedEnabled() {
		t.Error("demo seeding should default to enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Server.Port != 0 {
		t.Errorf("port = %d, want 0", cfg.Server.Port)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
admin:
  username: ops
  password: hunter2
demo:
  seed: false
server:
  port: 9100
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.Storage.Path != "" {
		t.Errorf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Admin.Username != "ops" || cfg.Admin.Password != "hunter2" {
		t.Errorf("unexpected admin %+v", cfg.Admin)
	}
	if cfg.Demo.SeedEnabled() {
		t.Error("seed should be disabled")
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: redis\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %s, want sqlite", cfg.Storage.Driver)
	}
}
