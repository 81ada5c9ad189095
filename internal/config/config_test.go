package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Database.Path != "realm.db" {
		t.Fatalf("unexpected default db path: %s", cfg.Database.Path)
	}
	if cfg.LLM.Model != "llama-3.1-sonar-huge-128k-online" {
		t.Fatalf("unexpected default model: %s", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout().Seconds() != 60 {
		t.Fatalf("unexpected default timeout: %v", cfg.LLM.Timeout())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PPLX_KEY", "test-key")
	t.Setenv("PPLX_MODEL", "sonar-small")
	t.Setenv("REALM_ADDR", ":9999")

	cfg := Load()

	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected env api key, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "sonar-small" {
		t.Fatalf("expected env model, got %q", cfg.LLM.Model)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("expected env addr, got %q", cfg.Server.Addr)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "realm.yaml")

	raw := []byte("database:\n  path: /tmp/other.db\nllm:\n  timeoutSeconds: 10\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REALM_CONFIG", path)

	cfg := Load()

	if cfg.Database.Path != "/tmp/other.db" {
		t.Fatalf("expected yaml db path, got %q", cfg.Database.Path)
	}
	if cfg.LLM.Timeout().Seconds() != 10 {
		t.Fatalf("expected yaml timeout, got %v", cfg.LLM.Timeout())
	}
	// untouched fields keep defaults
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
}
