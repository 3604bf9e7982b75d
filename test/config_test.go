package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/youthfc/team-manager-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
logger:
  level: info
  format: json
  env: staging

server:
  port: "18080"
  allow_origins:
    - http://localhost:3000

firestore:
  project_id: yaml-project
`
	path := writeTempConfig(t, yaml)

	// The credentials secret comes from ENV using the canonical APP_* name.
	t.Setenv("APP_FIRESTORE_CREDENTIALS_JSON", `{"type":"service_account"}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "18080" {
		t.Fatalf("expected server.port 18080, got %q", cfg.Server.Port)
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "http://localhost:3000" {
		t.Fatalf("allow_origins not loaded: %v", cfg.Server.AllowOrigins)
	}
	if cfg.Firestore.ProjectID != "yaml-project" {
		t.Fatalf("yaml values not loaded: %q", cfg.Firestore.ProjectID)
	}
	if cfg.Logger.Env != "staging" || cfg.Logger.Level != "info" {
		t.Fatalf("logger section not loaded: %+v", cfg.Logger)
	}
	if cfg.Firestore.CredentialsJSON != `{"type":"service_account"}` {
		t.Fatalf("env override for credentials_json not applied, got %q", cfg.Firestore.CredentialsJSON)
	}
}

func TestConfigLoad_DefaultPort(t *testing.T) {
	path := writeTempConfig(t, "logger:\n  level: info\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
}

func TestConfigLoad_MissingFileFails(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
