// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "JOBVAULT"

// EnvConfig holds all environment-based configuration.
// Field names map to environment variables with the JOBVAULT_ prefix.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: JOBVAULT_HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: JOBVAULT_PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: JOBVAULT_DATA_DIR
	// Default: ~/.jobvault
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: JOBVAULT_DB_URL
	// Default: sqlite:///{data_dir}/jobvault.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: JOBVAULT_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: JOBVAULT_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Embedding configures the embedding provider endpoint.
	Embedding EmbeddingEnv `envconfig:"EMBEDDING"`

	// SearchLimit is the default semantic search result limit.
	// Env: JOBVAULT_SEARCH_LIMIT (default: 10)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"10"`
}

// EmbeddingEnv holds environment configuration for the embedding provider.
type EmbeddingEnv struct {
	// BaseURL is the base URL for an OpenAI-compatible endpoint.
	// Env: JOBVAULT_EMBEDDING_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the embedding model identifier.
	// Env: JOBVAULT_EMBEDDING_MODEL (default: text-embedding-3-small)
	Model string `envconfig:"MODEL" default:"text-embedding-3-small"`

	// APIKey is the API key for authentication.
	// Env: JOBVAULT_EMBEDDING_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// NativeDimensions is the width of vectors the model emits.
	// Must be known at startup so width reconciliation can be decided.
	// Env: JOBVAULT_EMBEDDING_NATIVE_DIMENSIONS (default: 1536)
	NativeDimensions int `envconfig:"NATIVE_DIMENSIONS" default:"1536"`

	// TargetDimensions is the stored vector width. When the model's native
	// width is larger, vectors are truncated (lossy).
	// Env: JOBVAULT_EMBEDDING_TARGET_DIMENSIONS (default: 1536)
	TargetDimensions int `envconfig:"TARGET_DIMENSIONS" default:"1536"`

	// MaxRetries is the maximum retry count for provider calls.
	// Env: JOBVAULT_EMBEDDING_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize fills in derived defaults that envconfig cannot express.
func (c EnvConfig) Normalize() EnvConfig {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DataDir = filepath.Join(home, ".jobvault")
	}

	if c.DBURL == "" {
		c.DBURL = "sqlite:///" + filepath.Join(c.DataDir, "jobvault.db")
	}

	c.LogLevel = strings.ToUpper(c.LogLevel)
	if c.LogFormat != string(LogFormatJSON) {
		c.LogFormat = string(LogFormatPretty)
	}

	return c
}

// ToAppConfig converts the environment configuration to an AppConfig.
func (c EnvConfig) ToAppConfig() AppConfig {
	return AppConfig{
		host:      c.Host,
		port:      c.Port,
		dataDir:   c.DataDir,
		dbURL:     c.DBURL,
		logLevel:  c.LogLevel,
		logFormat: LogFormat(c.LogFormat),
		embedding: EmbeddingConfig{
			baseURL:          c.Embedding.BaseURL,
			model:            c.Embedding.Model,
			apiKey:           c.Embedding.APIKey,
			nativeDimensions: c.Embedding.NativeDimensions,
			targetDimensions: c.Embedding.TargetDimensions,
			maxRetries:       c.Embedding.MaxRetries,
		},
		searchLimit: c.SearchLimit,
	}
}
