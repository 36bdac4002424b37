// Package config loads and validates tool configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// converter, the tokenizer, and every optional backend (Postgres, Kafka,
// Redis, metrics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultQuery is the query string the tokenizer demo analyzes when none is
// configured.
const DefaultQuery = "Breast Cancer Cells Feed on Cholesterol"

// Config is the top-level configuration.
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Sinks     SinksConfig     `yaml:"sinks"`
	Cache     CacheConfig     `yaml:"cache"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ConverterConfig names the JSON-lines source and the TSV destination.
type ConverterConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// TokenizerConfig holds the demo query and the analyzer policy.
type TokenizerConfig struct {
	Query    string         `yaml:"query"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
}

// AnalyzerConfig mirrors analyzer.Policy. Nil booleans keep the analyzer's
// defaults.
type AnalyzerConfig struct {
	Language       string `yaml:"language"`
	Lowercase      *bool  `yaml:"lowercase"`
	StopWords      *bool  `yaml:"stopWords"`
	Stemming       *bool  `yaml:"stemming"`
	MinTokenLength *int   `yaml:"minTokenLength"`
}

// SinksConfig switches the optional downstream consumers of converted records.
type SinksConfig struct {
	Kafka    bool `yaml:"kafka"`
	Postgres bool `yaml:"postgres"`
}

// CacheConfig controls the Redis-backed weight map cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	Queries string `yaml:"queries"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrResourceUnavailable, "reading config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidConfig, "parsing config file %s: %v", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// ValidateConverter checks the settings cmd/convert cannot run without.
func (c *Config) ValidateConverter() error {
	if strings.TrimSpace(c.Converter.Input) == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, "converter.input is required")
	}
	if strings.TrimSpace(c.Converter.Output) == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, "converter.output is required")
	}
	if samePath(c.Converter.Input, c.Converter.Output) {
		return apperrors.New(apperrors.ErrInvalidConfig, "converter.input and converter.output must differ")
	}
	if c.Sinks.Kafka && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topics.Queries == "") {
		return apperrors.New(apperrors.ErrInvalidConfig, "kafka sink needs brokers and topics.queries")
	}
	return c.validateMetrics()
}

// ValidateTokenizer checks the settings cmd/querytokens cannot run without.
func (c *Config) ValidateTokenizer() error {
	if strings.TrimSpace(c.Tokenizer.Query) == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, "tokenizer.query is required")
	}
	if n := c.Tokenizer.Analyzer.MinTokenLength; n != nil && *n < 0 {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "tokenizer.analyzer.minTokenLength %d must not be negative", *n)
	}
	if c.Cache.Enabled && c.Cache.TTL < 0 {
		return apperrors.New(apperrors.ErrInvalidConfig, "cache.ttl must not be negative")
	}
	return c.validateMetrics()
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "metrics.port %d out of range", c.Metrics.Port)
	}
	return nil
}

// samePath compares cleaned absolute paths. Links to the same file are
// caught later, when the converter stats both files.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func defaultConfig() *Config {
	return &Config{
		Converter: ConverterConfig{
			Input:  "queries.jsonl",
			Output: "queries.tsv",
		},
		Tokenizer: TokenizerConfig{
			Query: DefaultQuery,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "queryprep",
			User:            "queryprep",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				Queries: "queries",
			},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			DB:       0,
			PoolSize: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads QP_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QP_CONVERTER_INPUT"); v != "" {
		cfg.Converter.Input = v
	}
	if v := os.Getenv("QP_CONVERTER_OUTPUT"); v != "" {
		cfg.Converter.Output = v
	}
	if v := os.Getenv("QP_TOKENIZER_QUERY"); v != "" {
		cfg.Tokenizer.Query = v
	}
	if v := os.Getenv("QP_SINKS_KAFKA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sinks.Kafka = b
		}
	}
	if v := os.Getenv("QP_SINKS_POSTGRES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sinks.Postgres = b
		}
	}
	if v := os.Getenv("QP_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("QP_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("QP_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("QP_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("QP_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("QP_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("QP_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("QP_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("QP_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("QP_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("QP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("QP_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("QP_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
