package vaani

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-live")
	t.Setenv("TEST_TWILIO_TOKEN", "tok-123")
	path := writeConfig(t, `
backend:
  api_key: ${TEST_OPENAI_KEY}
transport:
  settings:
    account_sid: AC1
    auth_token: ${TEST_TWILIO_TOKEN}
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend.APIKey != "sk-live" {
		t.Errorf("api_key = %q, want expanded value", cfg.Backend.APIKey)
	}
	if got := cfg.Transport.Settings["auth_token"]; got != "tok-123" {
		t.Errorf("auth_token = %v, want expanded value", got)
	}
	if cfg.Transport.Provider != "twilio" {
		t.Errorf("provider default = %q", cfg.Transport.Provider)
	}
	if cfg.Backend.Voice != "alloy" || cfg.Backend.Temperature != 0.7 {
		t.Errorf("backend defaults = %q/%v", cfg.Backend.Voice, cfg.Backend.Temperature)
	}
	if cfg.STT.Enabled {
		t.Error("stt should default to disabled")
	}
	if cfg.DrainTimeoutMS != 10000 {
		t.Errorf("drain_timeout_ms default = %d", cfg.DrainTimeoutMS)
	}
}

func TestLoadConfigRequiresBackendKey(t *testing.T) {
	path := writeConfig(t, `
transport:
  settings:
    account_sid: AC1
    auth_token: tok
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing backend.api_key")
	}
}

func TestLoadConfigRequiresSTTKeyWhenEnabled(t *testing.T) {
	path := writeConfig(t, `
backend:
  api_key: sk-test
stt:
  enabled: true
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing stt.api_key")
	}
}
