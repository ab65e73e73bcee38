package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verbatim/internal/config"
)

func TestLoadDefaultsWithEnvAPIKey(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "env-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "verbatim")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("data dir = %q, want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.TranscriptDir != filepath.Join(tempHome, "verbatim", "transcripts") {
		t.Fatalf("unexpected transcript dir: %q", cfg.Paths.TranscriptDir)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != config.Default().LLM.Model {
		t.Fatalf("unexpected model: %q", cfg.LLM.Model)
	}
	if cfg.Extraction.Workers != 4 || cfg.Extraction.Passes != 2 || cfg.Extraction.BatchSize != 12 {
		t.Fatalf("unexpected extraction defaults: %+v", cfg.Extraction)
	}
	if cfg.CorpusPath() != filepath.Join(wantData, "corpus.db") {
		t.Fatalf("unexpected corpus path: %q", cfg.CorpusPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.DataDir); err != nil || !info.IsDir() {
		t.Fatalf("expected data dir to exist: %v", err)
	}
}

func TestLoadMissingAPIKeyFails(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadOverlaysFileValues(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
data_dir = "~/corpus-data"

[llm]
api_key = "file-key"
model = "anthropic/claude-sonnet-4"

[extraction]
workers = 2
passes = 1
batch_size = 6

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "corpus-data") {
		t.Fatalf("tilde not expanded: %q", cfg.Paths.DataDir)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("api key = %q, want file-key", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "anthropic/claude-sonnet-4" {
		t.Fatalf("model = %q", cfg.LLM.Model)
	}
	if cfg.Extraction.BatchSize != 6 {
		t.Fatalf("batch size = %d, want 6", cfg.Extraction.BatchSize)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "env-wins")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[llm]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-wins" {
		t.Fatalf("api key = %q, want env-wins", cfg.LLM.APIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero workers", "[extraction]\nworkers = 0\n", "extraction.workers"},
		{"negative passes", "[extraction]\npasses = -1\n", "extraction.passes"},
		{"bad format", "[logging]\nformat = \"yaml\"\n", "logging.format"},
		{"bad level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"zero timeout", "[llm]\ntimeout_seconds = 0\n", "llm.timeout_seconds"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("VERBATIM_LLM_API_KEY", "key")
	_, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[extraction]") {
		t.Fatal("sample config missing extraction section")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
