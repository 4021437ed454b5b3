package notifiers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: hook2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: console
    type: log
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected hook2 and console enabled, got %#v", enabled)
	}
	if enabled[0].ID != "hook2" || enabled[1].ID != "console" {
		t.Fatalf("unexpected enabled order: %#v", enabled)
	}
	if _, ok := reg.ByID("hook1"); !ok {
		t.Fatalf("disabled notifier should still resolve by id")
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: dup
    type: log
  - id: dup
    type: log
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNotifierConfigRejectsMissingBlocks(t *testing.T) {
	cases := []NotifierConfig{
		{ID: "h", Type: TypeHTTP},
		{ID: "s", Type: TypeSNS},
		{ID: "q", Type: TypeSQS},
		{ID: "p", Type: TypePubSub},
		{ID: "u", Type: "smoke-signal"},
	}
	for _, cfg := range cases {
		if err := validateNotifierConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %q", cfg.ID)
		}
	}
}

func TestSanitizeNotifierConfigDefaults(t *testing.T) {
	cfg := sanitizeNotifierConfig(NotifierConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPNotifierConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != "http" {
		t.Fatalf("id/type not normalized: %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" {
		t.Fatalf("method should default to POST, got %q", cfg.HTTP.Method)
	}
	if cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("timeout should default, got %d", cfg.HTTP.TimeoutSeconds)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}
