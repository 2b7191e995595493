// Package config loads readmeai settings from the environment and the static
// language and ignore tables.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"readmeai/errs"
	"readmeai/language"
	"readmeai/manifest"
	"readmeai/scanner"
	"readmeai/tokens"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rohanthewiz/serr"
)

const (
	defaultContextTokens = 3900
	defaultCloneTimeout  = 2 * time.Minute
	defaultHost          = "127.0.0.1"
	defaultAddr          = defaultHost + ":8000"

	envPrefix = "READMEAI_"
)

//go:embed defaults.toml
var defaultTables []byte

// Config holds application configuration
type Config struct {
	Encoding      string
	ContextTokens int
	CloneTimeout  time.Duration
	ScratchDir    string
	Addr          string
	MatchMode     manifest.MatchMode
	TablesPath    string
	Debug         bool
	Tables        Tables
}

// Tables are the static lookup tables, immutable once loaded
type Tables struct {
	LanguageNames language.Names      `toml:"language_names"`
	LanguageSetup language.Setup      `toml:"language_setup"`
	IgnoreFiles   scanner.IgnorePolicy `toml:"ignore_files"`
}

// Load reads .env when present, then the READMEAI_* environment variables
// and the static tables
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key string) string {
		return strings.TrimSpace(getenv(envPrefix + key))
	}

	cfg := &Config{
		Encoding:      firstNonEmpty(env("ENCODING"), tokens.DefaultEncoding),
		ContextTokens: defaultContextTokens,
		CloneTimeout:  defaultCloneTimeout,
		ScratchDir:    firstNonEmpty(env("SCRATCH_DIR"), os.TempDir()),
		Addr:          firstNonEmpty(env("ADDR"), defaultAddr),
		TablesPath:    env("TABLES"),
	}

	if raw := env("CONTEXT_TOKENS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, errs.NewConfiguration("context_tokens", serr.New("must be a positive integer, got "+raw))
		}
		cfg.ContextTokens = n
	}

	if raw := env("CLONE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, errs.NewConfiguration("clone_timeout", serr.New("must be a positive duration, got "+raw))
		}
		cfg.CloneTimeout = d
	}

	mode, err := manifest.ParseMatchMode(env("MATCH_MODE"))
	if err != nil {
		return nil, err
	}
	cfg.MatchMode = mode

	if raw := env("DEBUG"); raw != "" {
		cfg.Debug, _ = strconv.ParseBool(raw)
	}

	// a bare port such as "8000" stays on loopback; ":8000" listens everywhere
	if !strings.Contains(cfg.Addr, ":") {
		cfg.Addr = defaultHost + ":" + cfg.Addr
	}

	if cfg.Tables, err = LoadTables(cfg.TablesPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTables decodes the embedded tables and applies the override file at
// path, if any. Each table present in the override replaces the default.
func LoadTables(path string) (Tables, error) {
	var tables Tables
	if _, err := toml.Decode(string(defaultTables), &tables); err != nil {
		return Tables{}, errs.NewConfiguration("tables", serr.Wrap(err, "failed to decode embedded tables"))
	}
	if path == "" {
		return tables, nil
	}

	var override Tables
	meta, err := toml.DecodeFile(path, &override)
	if err != nil {
		return Tables{}, errs.NewConfiguration("tables", serr.Wrap(err, "failed to decode table file", "path", path))
	}
	if meta.IsDefined("language_names") {
		tables.LanguageNames = override.LanguageNames
	}
	if meta.IsDefined("language_setup") {
		tables.LanguageSetup = override.LanguageSetup
	}
	if meta.IsDefined("ignore_files") {
		tables.IgnoreFiles = override.IgnoreFiles
	}
	return tables, nil
}

// Classifier validates the language tables
func (c *Config) Classifier() (*language.Classifier, error) {
	return language.NewClassifier(c.Tables.LanguageNames, c.Tables.LanguageSetup)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
