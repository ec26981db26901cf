package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIncludesAnalysisDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_REQUESTS_PER_MIN", "")
	t.Setenv("MAX_ANALYSIS_CHARS", "")
	t.Setenv("CHAT_CONTEXT_CHARS", "")
	t.Setenv("MIN_TEXT_CHARS", "")
	t.Setenv("MARKET_AVG_RATE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("expected default model gemini-2.0-flash, got %q", cfg.GeminiModel)
	}
	if cfg.GeminiRequestsPerMin != 15 {
		t.Fatalf("expected default rate limit 15, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.MaxAnalysisChars != 200000 {
		t.Fatalf("expected default analysis cap 200000, got %d", cfg.MaxAnalysisChars)
	}
	if cfg.ChatContextChars != 20000 {
		t.Fatalf("expected default chat context cap 20000, got %d", cfg.ChatContextChars)
	}
	if cfg.MinTextChars != 1000 {
		t.Fatalf("expected default minimum text length 1000, got %d", cfg.MinTextChars)
	}
	if cfg.MarketAvgRate != 7.0 {
		t.Fatalf("expected default market average rate 7.0, got %v", cfg.MarketAvgRate)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("GEMINI_REQUESTS_PER_MIN", "60")
	t.Setenv("MAX_ANALYSIS_CHARS", "50000")
	t.Setenv("MARKET_AVG_RATE", "6.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Fatalf("expected model override, got %q", cfg.GeminiModel)
	}
	if cfg.GeminiRequestsPerMin != 60 {
		t.Fatalf("expected rate limit 60, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.MaxAnalysisChars != 50000 {
		t.Fatalf("expected analysis cap 50000, got %d", cfg.MaxAnalysisChars)
	}
	if cfg.MarketAvgRate != 6.5 {
		t.Fatalf("expected market average rate 6.5, got %v", cfg.MarketAvgRate)
	}
}

func TestLoadFallsBackOnUnparsableValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_REQUESTS_PER_MIN", "many")
	t.Setenv("MARKET_AVG_RATE", "high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GeminiRequestsPerMin != 15 {
		t.Fatalf("expected fallback rate limit 15, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.MarketAvgRate != 7.0 {
		t.Fatalf("expected fallback market average rate 7.0, got %v", cfg.MarketAvgRate)
	}
}

func TestLoadAppliesConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api_port: \"9000\"\ngemini_model: gemini-2.5-flash\nmarket_avg_rate: 5.75\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != "9000" {
		t.Fatalf("expected file overlay to win, got api port %q", cfg.APIPort)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("expected model from file, got %q", cfg.GeminiModel)
	}
	if cfg.MarketAvgRate != 5.75 {
		t.Fatalf("expected market average rate 5.75, got %v", cfg.MarketAvgRate)
	}
	if cfg.NATSSubject != "documents.ingested" {
		t.Fatalf("expected untouched default subject, got %q", cfg.NATSSubject)
	}
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - broken"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
