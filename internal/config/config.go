// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultSearchLimit      = 10
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultVectorDimensions = 1536
	DefaultMaxRetries       = 5
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// EmbeddingConfig configures the embedding provider and vector widths.
type EmbeddingConfig struct {
	baseURL          string
	model            string
	apiKey           string
	nativeDimensions int
	targetDimensions int
	maxRetries       int
}

// NewEmbeddingConfig creates an EmbeddingConfig with defaults.
func NewEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		model:            DefaultEmbeddingModel,
		nativeDimensions: DefaultVectorDimensions,
		targetDimensions: DefaultVectorDimensions,
		maxRetries:       DefaultMaxRetries,
	}
}

// BaseURL returns the base URL for an OpenAI-compatible endpoint.
func (e EmbeddingConfig) BaseURL() string { return e.baseURL }

// Model returns the embedding model identifier.
func (e EmbeddingConfig) Model() string { return e.model }

// APIKey returns the API key.
func (e EmbeddingConfig) APIKey() string { return e.apiKey }

// NativeDimensions returns the vector width the model emits.
func (e EmbeddingConfig) NativeDimensions() int { return e.nativeDimensions }

// TargetDimensions returns the stored vector width.
func (e EmbeddingConfig) TargetDimensions() int { return e.targetDimensions }

// MaxRetries returns the maximum provider retry count.
func (e EmbeddingConfig) MaxRetries() int { return e.maxRetries }

// IsConfigured returns true if the endpoint has required configuration.
func (e EmbeddingConfig) IsConfigured() bool {
	return e.model != ""
}

// EmbeddingOption is a functional option for EmbeddingConfig.
type EmbeddingOption func(*EmbeddingConfig)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.baseURL = url }
}

// WithModel sets the embedding model.
func WithModel(model string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.apiKey = key }
}

// WithNativeDimensions sets the model's native vector width.
func WithNativeDimensions(n int) EmbeddingOption {
	return func(e *EmbeddingConfig) {
		if n > 0 {
			e.nativeDimensions = n
		}
	}
}

// WithTargetDimensions sets the stored vector width.
func WithTargetDimensions(n int) EmbeddingOption {
	return func(e *EmbeddingConfig) {
		if n > 0 {
			e.targetDimensions = n
		}
	}
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EmbeddingOption {
	return func(e *EmbeddingConfig) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// NewEmbeddingConfigWithOptions creates an EmbeddingConfig with options.
func NewEmbeddingConfigWithOptions(opts ...EmbeddingOption) EmbeddingConfig {
	e := NewEmbeddingConfig()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host        string
	port        int
	dataDir     string
	dbURL       string
	logLevel    string
	logFormat   LogFormat
	embedding   EmbeddingConfig
	searchLimit int
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobvault"
	}
	return filepath.Join(home, ".jobvault")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:        DefaultHost,
		port:        DefaultPort,
		dataDir:     dataDir,
		dbURL:       "sqlite:///" + filepath.Join(dataDir, "jobvault.db"),
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		embedding:   NewEmbeddingConfig(),
		searchLimit: DefaultSearchLimit,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Embedding returns the embedding provider config.
func (c AppConfig) Embedding() EmbeddingConfig { return c.embedding }

// SearchLimit returns the default search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		c.dbURL = "sqlite:///" + filepath.Join(dir, "jobvault.db")
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithEmbedding sets the embedding config.
func WithEmbedding(e EmbeddingConfig) AppConfigOption {
	return func(c *AppConfig) { c.embedding = e }
}

// WithSearchLimit sets the default search result limit.
func WithSearchLimit(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("embedding_base_url", c.embedding.BaseURL()),
		slog.String("embedding_model", c.embedding.Model()),
		slog.Int("native_dimensions", c.embedding.NativeDimensions()),
		slog.Int("target_dimensions", c.embedding.TargetDimensions()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}
