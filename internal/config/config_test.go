package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigOptionalMissingFile(t *testing.T) {
	cfg, err := LoadConfigOptional(filepath.Join(t.TempDir(), "missing.yaml"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Fatalf("MaxRedirects = %d, want %d", cfg.MaxRedirects, DefaultMaxRedirects)
	}
	if cfg.MembersBaseURL != DefaultMembersBaseURL {
		t.Fatalf("MembersBaseURL = %q", cfg.MembersBaseURL)
	}
	if cfg.Timeout() != DefaultRequestTimeout {
		t.Fatalf("Timeout = %v", cfg.Timeout())
	}
}

func TestLoadConfigRequiredMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing required config")
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debug: true
proxy-url: socks5://127.0.0.1:1080
request-timeout: 5
tls-fingerprint: " Firefox "
members-base-url: "http://localhost:8080/"
max-redirects: 4
calendar-store:
  endpoint: minio.local:9000
  bucket: calendars
  use-ssl: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug || cfg.ProxyURL != "socks5://127.0.0.1:1080" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout())
	}
	if cfg.TLSFingerprint != "firefox" {
		t.Fatalf("TLSFingerprint = %q", cfg.TLSFingerprint)
	}
	if cfg.MembersBaseURL != "http://localhost:8080" {
		t.Fatalf("MembersBaseURL = %q", cfg.MembersBaseURL)
	}
	if cfg.MaxRedirects != 4 {
		t.Fatalf("MaxRedirects = %d", cfg.MaxRedirects)
	}
	if !cfg.CalendarStore.Enabled() || cfg.CalendarStore.SecureTransport() {
		t.Fatalf("unexpected calendar store: %+v", cfg.CalendarStore)
	}
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("debug: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(ExampleConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if cfg.CalendarStore.Enabled() {
		t.Fatal("example config should not enable publishing")
	}
	if cfg.CalendarStore.ObjectKey != "wework.ics" {
		t.Fatalf("ObjectKey = %q", cfg.CalendarStore.ObjectKey)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WEWORK_PROXY_URL":        "http://proxy:3128",
		"WEWORK_NO_SPINNER":       "1",
		"WEWORK_DEBUG":            "true",
		"WEWORK_TLS_FINGERPRINT":  "Chrome",
		"WEWORK_MEMBERS_BASE_URL": "http://127.0.0.1:9999/",
	}
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	if cfg.ProxyURL != "http://proxy:3128" || !cfg.NoSpinner || !cfg.Debug {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.TLSFingerprint != "chrome" {
		t.Fatalf("TLSFingerprint = %q", cfg.TLSFingerprint)
	}
	if cfg.MembersBaseURL != "http://127.0.0.1:9999" {
		t.Fatalf("MembersBaseURL = %q", cfg.MembersBaseURL)
	}
}
