package config

import (
	"strings"
	"testing"
	"time"
)

func requiredArgs() []string {
	return []string{
		"--api-base-url", "https://example.social",
		"--username", "bot@example.social",
		"--password", "pw",
		"--client-id", "cid",
		"--client-secret", "secret",
		"--hashtag", "introductions",
	}
}

func TestLoadFromFlags(t *testing.T) {
	args := append(requiredArgs(),
		"--dry-run",
		"--poll-interval", "30",
		"--batch-size", "10",
		"--since-id", "42",
	)

	cfg, err := Load(args)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://example.social" || cfg.Hashtag != "introductions" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if !cfg.DryRun {
		t.Fatalf("expected dry_run true")
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("poll interval = %s", cfg.PollInterval)
	}
	if cfg.BatchSize != 10 || cfg.SinceID != "42" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.WelcomeTemplate != DefaultWelcomeTemplate {
		t.Fatalf("expected default template")
	}
	if cfg.ReplyVisibility != "public" {
		t.Fatalf("expected default visibility, got %q", cfg.ReplyVisibility)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WELCOME_BOT_API_BASE_URL", "https://env.example.social")
	t.Setenv("WELCOME_BOT_USERNAME", "bot@env.example.social")
	t.Setenv("WELCOME_BOT_PASSWORD", "pw")
	t.Setenv("WELCOME_BOT_CLIENT_ID", "cid")
	t.Setenv("WELCOME_BOT_CLIENT_SECRET", "secret")
	t.Setenv("WELCOME_BOT_HASHTAG", "#welcome")
	t.Setenv("WELCOME_BOT_DRY_RUN", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.social" {
		t.Fatalf("api base url = %q", cfg.APIBaseURL)
	}
	if cfg.Hashtag != "welcome" {
		t.Fatalf("hashtag should drop the leading #, got %q", cfg.Hashtag)
	}
	if !cfg.DryRun {
		t.Fatalf("expected dry_run from environment")
	}
}

func TestLoadFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("WELCOME_BOT_API_BASE_URL", "https://env.example.social")
	t.Setenv("WELCOME_BOT_USERNAME", "bot@env.example.social")
	t.Setenv("WELCOME_BOT_PASSWORD", "pw")
	t.Setenv("WELCOME_BOT_CLIENT_ID", "cid")
	t.Setenv("WELCOME_BOT_CLIENT_SECRET", "secret")
	t.Setenv("WELCOME_BOT_HASHTAG", "welcome")

	cfg, err := Load([]string{"--hashtag", "introductions"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hashtag != "introductions" {
		t.Fatalf("flag should override env, got %q", cfg.Hashtag)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	_, err := Load([]string{"--hashtag", "introductions"})
	if err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := [][]string{
		append(requiredArgs(), "--poll-interval", "0"),
		append(requiredArgs(), "--batch-size", "0"),
		append(requiredArgs(), "--batch-size", "100"),
		append(requiredArgs(), "--reply-visibility", "shouty"),
		append(requiredArgs(), "--welcome-template", "  "),
	}
	for _, args := range cases {
		if _, err := Load(args); err == nil {
			t.Fatalf("expected error for args %v", args)
		}
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg, err := Load(requiredArgs())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	red := cfg.Redacted()
	if red["password"] != "<redacted>" || red["client_secret"] != "<redacted>" {
		t.Fatalf("secrets must be masked: %#v", red)
	}
	if red["username"] != "bot@example.social" {
		t.Fatalf("non-secret fields should pass through: %#v", red)
	}
}
