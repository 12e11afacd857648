package domain

import (
	"time"
)

// Config holds the complete Heron configuration.
type Config struct {
	// Server settings (operational API)
	Server ServerConfig `json:"server"`

	// Component configurations
	Warehouse WarehouseConfig `json:"warehouse"`
	Cache     CacheConfig     `json:"cache"`
	EventBus  EventBusConfig  `json:"eventBus"`
	LLM       LLMConfig       `json:"llm"`
	Export    ExportConfig    `json:"export"`
	Batch     BatchConfig     `json:"batch"`

	// Observability
	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// WarehouseConfig holds analytics store connection settings.
type WarehouseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `json:"driver"`

	// SQLite settings (local mode, tests)
	SQLitePath string `json:"sqlitePath,omitempty"`

	// PostgreSQL settings
	PostgresHost     string `json:"postgresHost,omitempty"`
	PostgresPort     int    `json:"postgresPort,omitempty"`
	PostgresDB       string `json:"postgresDb,omitempty"`
	PostgresUser     string `json:"postgresUser,omitempty"`
	PostgresPassword string `json:"-"`
	PostgresSSLMode  string `json:"postgresSslMode,omitempty"`

	// Connection pool
	MaxOpenConns    int           `json:"maxOpenConns,omitempty"`
	MaxIdleConns    int           `json:"maxIdleConns,omitempty"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime,omitempty"`
}

// LLMConfig holds settings for the model collaborator.
type LLMConfig struct {
	// APIKey authenticates against the OpenAI-compatible endpoint.
	APIKey string `json:"-"`

	// BaseURL overrides the default endpoint (proxies, test servers).
	BaseURL string `json:"baseUrl,omitempty"`

	// Model is the chat model used for the analysis turn.
	Model string `json:"model"`

	// RequestTimeout bounds one inference call.
	RequestTimeout time.Duration `json:"requestTimeout"`
}

// ExportConfig holds settings for the case-management delivery endpoint.
type ExportConfig struct {
	// URL is the offense-analysis ingest endpoint.
	URL string `json:"url"`

	// AuthToken is sent as the Authorization header.
	AuthToken string `json:"-"`

	// Timeout bounds one delivery POST.
	Timeout time.Duration `json:"timeout"`

	// DryRun skips the POST and logs the payload instead.
	DryRun bool `json:"dryRun"`
}

// BatchConfig holds orchestrator settings.
type BatchConfig struct {
	// Days bounds how far back the alert feed looks.
	Days int `json:"days"`

	// Workers is the bounded concurrency across users. 1 means the
	// original strictly sequential behavior.
	Workers int `json:"workers"`

	// UserID, when non-zero, restricts the run to a single user.
	UserID int64 `json:"userId,omitempty"`

	// Filter is an optional CEL expression over alert_type, score and
	// user_id that bounds which flagged users are analyzed.
	Filter string `json:"filter,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool   `json:"enabled"`
	ServiceName  string `json:"serviceName"`
	ExporterType string `json:"exporterType"` // stdout, otlp, jaeger
	Endpoint     string `json:"endpoint"`
}

// DefaultConfig returns a single-process default: SQLite warehouse mirror,
// in-memory cache, channel bus, sequential batch.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Warehouse: WarehouseConfig{
			Driver:     "sqlite",
			SQLitePath: "./heron.db",
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     5 * time.Minute,
			PayloadTTL:   time.Hour,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-2024-11-20",
			RequestTimeout: 2 * time.Minute,
		},
		Export: ExportConfig{
			Timeout: 30 * time.Second,
			DryRun:  true,
		},
		Batch: BatchConfig{
			Days:    1,
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "heron",
		},
	}
}

// DistributedConfig returns a deployment-shaped configuration: Postgres
// warehouse mirror, two-phase Redis cache, NATS bus, bounded concurrency.
func DistributedConfig() *Config {
	cfg := DefaultConfig()
	cfg.Warehouse = WarehouseConfig{
		Driver:       "postgres",
		PostgresHost: "localhost",
		PostgresPort: 5432,
		PostgresDB:   "heron",
	}
	cfg.Cache = CacheConfig{
		Type:           "redis",
		RedisAddr:      "localhost:6379",
		EnableTwoPhase: true,
		LocalMaxSize:   1000,
		LocalTTL:       5 * time.Minute,
		PayloadTTL:     time.Hour,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.Batch.Workers = 4
	cfg.Tracing.Enabled = true
	return cfg
}
