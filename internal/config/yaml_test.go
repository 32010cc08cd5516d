package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bigdeal.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("CONFIG_TEST_SECRET", "s3cret")
	path := writeFile(t, "auth:\n  session_secret: ${CONFIG_TEST_SECRET}\ndatabase:\n  driver: postgres\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.SessionSecret != "s3cret" {
		t.Errorf("session secret = %q, want %q", cfg.Auth.SessionSecret, "s3cret")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, want %q", cfg.Database.Driver, "postgres")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "server: [not: valid\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigdeal.yaml")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.SessionSecret != "" {
		t.Errorf("default session secret = %q, want empty", cfg.Auth.SessionSecret)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver = %q, want sqlite", cfg.Database.Driver)
	}
}
