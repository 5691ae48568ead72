package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/txnkit/internal/categorize"
	"github.com/cleared-dev/txnkit/internal/changelog"
)

// FileName is the default config file name in a workspace.
const FileName = "txnkit.yaml"

// Config represents the top-level txnkit.yaml configuration.
type Config struct {
	Generate   GenerateConfig   `yaml:"generate"`
	Categorize CategorizeConfig `yaml:"categorize"`
	Git        GitConfig        `yaml:"git"`
	Log        LogConfig        `yaml:"log"`
}

// GenerateConfig drives the synthetic dataset generator.
type GenerateConfig struct {
	Count          int      `yaml:"count"`
	StartDate      string   `yaml:"start_date,omitempty"` // "YYYY-MM-DD"; empty means 90 days ago
	InitialBalance string   `yaml:"initial_balance"`
	Currency       string   `yaml:"currency"`
	Seed           uint64   `yaml:"seed,omitempty"` // 0 picks a fresh seed per run
	OutputDir      string   `yaml:"output_dir"`
	Datasets       []string `yaml:"datasets"`
	Preview        int      `yaml:"preview"`
}

// CategorizeConfig drives the category back-filler.
type CategorizeConfig struct {
	MappingFile string `yaml:"mapping_file"`
	Pattern     string `yaml:"pattern"`
	AuditLog    string `yaml:"audit_log"`
	AutoCommit  bool   `yaml:"auto_commit"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a txnkit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the stock generator datasets and the
// chequing back-fill layout.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			Count:          75,
			StartDate:      "2025-08-01",
			InitialBalance: "3500.00",
			Currency:       "CAD",
			OutputDir:      ".",
			Datasets: []string{
				"mock_trans_1.json",
				"mock_trans_2.json",
				"mock_trans_1.csv",
				"mock_trans_2.csv",
			},
			Preview: 5,
		},
		Categorize: CategorizeConfig{
			MappingFile: "merchant_category_mapping.csv",
			Pattern:     categorize.DefaultPattern,
			AuditLog:    changelog.DefaultPath,
		},
		Git: GitConfig{
			AuthorName:  "txnkit",
			AuthorEmail: "txnkit@cleared.dev",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Environment variables that override file settings.
const (
	EnvLogLevel    = "TXNKIT_LOG_LEVEL"
	EnvSeed        = "TXNKIT_SEED"
	EnvMappingFile = "TXNKIT_MAPPING_FILE"
	EnvCurrency    = "TXNKIT_CURRENCY"
)

// ApplyEnv overlays TXNKIT_* settings onto cfg. Values come from the process
// environment first and then from envFile (a dotenv file), which may be
// absent.
func ApplyEnv(cfg *Config, envFile string) error {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvSeed, v, err)
		}
		cfg.Generate.Seed = seed
	}
	if v, ok := lookup(EnvMappingFile); ok {
		cfg.Categorize.MappingFile = v
	}
	if v, ok := lookup(EnvCurrency); ok {
		cfg.Generate.Currency = v
	}
	return nil
}
