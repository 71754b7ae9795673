package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("MAX_FALLBACK_ATTEMPTS", "")
	t.Setenv("HARVEST_TIMEOUT", "")
	t.Setenv("DEFAULT_LIMIT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GroqModel != "llama-3.1-8b-instant" {
		t.Fatalf("expected default model, got %q", cfg.GroqModel)
	}
	if cfg.MaxFallbackAttempts != 2 {
		t.Fatalf("expected 2 fallback attempts, got %d", cfg.MaxFallbackAttempts)
	}
	if cfg.HarvestTimeout != 300*time.Second {
		t.Fatalf("expected 300s harvest timeout, got %s", cfg.HarvestTimeout)
	}
	if cfg.DefaultLimit != 100 {
		t.Fatalf("expected default limit 100, got %d", cfg.DefaultLimit)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("expected persistence disabled by default, got %q", cfg.PostgresDSN)
	}
	if cfg.LogFormat != "" {
		t.Fatalf("expected log format left to the binary, got %q", cfg.LogFormat)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GROQ_TIMEOUT", "45")
	t.Setenv("HARVEST_MIN_INTERVAL", "1500ms")
	t.Setenv("TRANSLATION_ENABLED", "false")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("MAX_FALLBACK_ATTEMPTS", "not-a-number")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GroqTimeout != 45*time.Second {
		t.Fatalf("expected plain seconds to parse, got %s", cfg.GroqTimeout)
	}
	if cfg.HarvestMinInterval != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s interval, got %s", cfg.HarvestMinInterval)
	}
	if cfg.TranslationEnabled {
		t.Fatalf("expected translation disabled")
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %f", cfg.APIRateLimitRPS)
	}
	if cfg.MaxFallbackAttempts != 2 {
		t.Fatalf("expected invalid value to fall back to 2, got %d", cfg.MaxFallbackAttempts)
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("expected LOG_FORMAT override, got %q", cfg.LogFormat)
	}
}

func TestLoadAppliesFileBeneathEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "GROQ_MODEL: llama-3.3-70b-versatile\nresults_dir: /tmp/out\nDEFAULT_LIMIT: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("RESULTS_DIR", "")
	t.Setenv("DEFAULT_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GroqModel != "llama-3.3-70b-versatile" {
		t.Fatalf("expected model from file, got %q", cfg.GroqModel)
	}
	if cfg.ResultsDir != "/tmp/out" {
		t.Fatalf("expected lower-case key to apply, got %q", cfg.ResultsDir)
	}
	if cfg.DefaultLimit != 25 {
		t.Fatalf("expected environment to win over file, got %d", cfg.DefaultLimit)
	}
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
