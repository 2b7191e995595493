package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"readmeai/errs"
	"readmeai/manifest"
	"readmeai/tokens"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Encoding != tokens.DefaultEncoding {
		t.Errorf("Encoding = %q", cfg.Encoding)
	}
	if cfg.ContextTokens != 3900 || cfg.CloneTimeout != 2*time.Minute || cfg.Addr != "127.0.0.1:8000" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.MatchMode != manifest.MatchExact || cfg.Debug {
		t.Errorf("mode = %q, debug = %v", cfg.MatchMode, cfg.Debug)
	}
	if cfg.ScratchDir == "" {
		t.Error("ScratchDir is empty")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"READMEAI_ENCODING":       "p50k_base",
		"READMEAI_CONTEXT_TOKENS": "8000",
		"READMEAI_CLONE_TIMEOUT":  "30s",
		"READMEAI_ADDR":           "9000",
		"READMEAI_MATCH_MODE":     "substring",
		"READMEAI_DEBUG":          "true",
		"READMEAI_SCRATCH_DIR":    "/var/tmp",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Encoding != "p50k_base" || cfg.ContextTokens != 8000 || cfg.CloneTimeout != 30*time.Second {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.MatchMode != manifest.MatchSubstring || !cfg.Debug || cfg.ScratchDir != "/var/tmp" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestFromEnvAddr(t *testing.T) {
	tests := map[string]string{
		"":             "127.0.0.1:8000",
		"9000":         "127.0.0.1:9000",
		":9000":        ":9000",
		"0.0.0.0:8080": "0.0.0.0:8080",
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			cfg, err := FromEnv(envMap(map[string]string{"READMEAI_ADDR": raw}))
			if err != nil {
				t.Fatalf("FromEnv: %v", err)
			}
			if cfg.Addr != want {
				t.Errorf("Addr = %q, want %q", cfg.Addr, want)
			}
		})
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"READMEAI_CONTEXT_TOKENS": "-1",
		"READMEAI_CLONE_TIMEOUT":  "soon",
		"READMEAI_MATCH_MODE":     "fuzzy",
		"READMEAI_TABLES":         "/does/not/exist.toml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(envMap(map[string]string{key: value}))
			if !errs.IsConfiguration(err) {
				t.Errorf("%s=%q: got %v, want ConfigurationError", key, value, err)
			}
		})
	}
}

func TestEmbeddedTablesAreValid(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	cfg := &Config{Tables: tables}
	c, err := cfg.Classifier()
	if err != nil {
		t.Fatalf("Classifier: %v", err)
	}

	if got := c.Language("py"); got != "python" {
		t.Errorf("py = %q, want python", got)
	}
	if got := c.Commands("python"); got.Test != "pytest" {
		t.Errorf("python commands = %+v", got)
	}
	if got := c.Language("cpp"); got != "c++" {
		t.Errorf("cpp = %q, want c++", got)
	}
	if c.Commands("c++").Install == "" {
		t.Error("c++ has no install command")
	}
	if tables.IgnoreFiles.IsZero() {
		t.Error("ignore_files table is empty")
	}
	for _, ext := range tables.IgnoreFiles.Extensions {
		if ext == "lock" || ext == "toml" || ext == "json" {
			t.Errorf("manifest extension %q must not be ignored", ext)
		}
	}
}

func TestLoadTablesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.toml")
	content := `[language_names]
zz = "Zed"

[language_setup]
zed = { install = "zed get", run = "zed run", test = "" }
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(tables.LanguageNames) != 1 || tables.LanguageNames["zz"] != "Zed" {
		t.Errorf("language_names not replaced: %v", tables.LanguageNames)
	}
	if tables.LanguageSetup["zed"].Install != "zed get" {
		t.Errorf("language_setup not replaced: %v", tables.LanguageSetup)
	}
	if tables.IgnoreFiles.IsZero() {
		t.Error("ignore_files should keep the defaults when not overridden")
	}
}

func TestPipelineRejectsUnknownEncoding(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"READMEAI_ENCODING": "no_such_encoding"}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if _, err := cfg.Pipeline(); !errs.IsConfiguration(err) {
		t.Errorf("got %v, want ConfigurationError", err)
	}
}

func TestPipeline(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.Pipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if p.Encoder.Name() != tokens.DefaultEncoding || p.Analyzer == nil || p.Extractor == nil {
		t.Errorf("pipeline = %+v", p)
	}
}
