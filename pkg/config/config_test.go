package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tokenizer.Query != DefaultQuery {
		t.Errorf("query = %q, want default", cfg.Tokenizer.Query)
	}
	if cfg.Sinks.Kafka || cfg.Sinks.Postgres || cfg.Cache.Enabled || cfg.Metrics.Enabled {
		t.Errorf("optional backends should be disabled by default: %+v", cfg)
	}
	if err := cfg.ValidateConverter(); err != nil {
		t.Errorf("default config should validate for the converter: %v", err)
	}
	if err := cfg.ValidateTokenizer(); err != nil {
		t.Errorf("default config should validate for the tokenizer: %v", err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
converter:
  input: data/queries.jsonl
  output: data/queries.tsv
tokenizer:
  query: "vitamin d deficiency"
  analyzer:
    stemming: false
cache:
  enabled: true
  ttl: 1h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Converter.Input != "data/queries.jsonl" || cfg.Converter.Output != "data/queries.tsv" {
		t.Errorf("converter = %+v", cfg.Converter)
	}
	if cfg.Tokenizer.Query != "vitamin d deficiency" {
		t.Errorf("query = %q", cfg.Tokenizer.Query)
	}
	if cfg.Tokenizer.Analyzer.Stemming == nil || *cfg.Tokenizer.Analyzer.Stemming {
		t.Errorf("stemming override not applied")
	}
	if cfg.Tokenizer.Analyzer.StopWords != nil {
		t.Errorf("unset analyzer field should stay nil")
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("defaults lost for untouched sections: postgres port %d", cfg.Postgres.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("converter: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QP_CONVERTER_INPUT", "in.jsonl")
	t.Setenv("QP_TOKENIZER_QUERY", "statin use")
	t.Setenv("QP_SINKS_POSTGRES", "true")
	t.Setenv("QP_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("QP_POSTGRES_PORT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Converter.Input != "in.jsonl" {
		t.Errorf("input = %q", cfg.Converter.Input)
	}
	if cfg.Tokenizer.Query != "statin use" {
		t.Errorf("query = %q", cfg.Tokenizer.Query)
	}
	if !cfg.Sinks.Postgres {
		t.Errorf("postgres sink not enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("invalid port override should be ignored, got %d", cfg.Postgres.Port)
	}
}

func TestValidateConverter(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input", func(c *Config) { c.Converter.Input = " " }},
		{"empty output", func(c *Config) { c.Converter.Output = "" }},
		{"same paths", func(c *Config) { c.Converter.Output = c.Converter.Input }},
		{"same path spelled differently", func(c *Config) { c.Converter.Input = "q.jsonl"; c.Converter.Output = "./q.jsonl" }},
		{"same path through parent", func(c *Config) { c.Converter.Input = "data/q.jsonl"; c.Converter.Output = "data/../data/q.jsonl" }},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }},
		{"kafka without topic", func(c *Config) { c.Sinks.Kafka = true; c.Kafka.Topics.Queries = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.ValidateConverter(); !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Errorf("ValidateConverter() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateTokenizer(t *testing.T) {
	negative := -1
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"blank query", func(c *Config) { c.Tokenizer.Query = "  " }},
		{"negative min token length", func(c *Config) { c.Tokenizer.Analyzer.MinTokenLength = &negative }},
		{"negative cache ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTL = -time.Second }},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.ValidateTokenizer(); !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Errorf("ValidateTokenizer() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateTokenizerIgnoresConverterPaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.Converter.Input = ""
	cfg.Converter.Output = ""
	if err := cfg.ValidateTokenizer(); err != nil {
		t.Errorf("ValidateTokenizer() = %v, want nil", err)
	}
}

func TestLoadDevelopmentConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "development.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateConverter(); err != nil {
		t.Errorf("development config does not validate: %v", err)
	}
	if err := cfg.ValidateTokenizer(); err != nil {
		t.Errorf("development config does not validate: %v", err)
	}
	if cfg.Cache.TTL != 24*time.Hour || cfg.Postgres.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("durations not parsed: cache %v, postgres %v", cfg.Cache.TTL, cfg.Postgres.ConnMaxLifetime)
	}
}
