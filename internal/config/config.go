// Package config provides configuration structures and validation for the
// transaction service. It covers both binaries: the ingestion worker (RabbitMQ
// consumer plus health/metrics listener) and the HTTP API (queries, receipts).
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Each field represents a
// major subsystem's configuration and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	RabbitMQ    RabbitMQConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Receipts    ReceiptsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// RabbitMQConfig contains broker configuration for the ingestion pipeline.
// The dead-letter queue name is always derived as "<QueueName>.dlq".
type RabbitMQConfig struct {
	URL               string        // AMQP connection URI
	QueueName         string        // Work queue drained by the consumer
	PublishQueueName  string        // Queue completion events are published to
	ReconnectInterval time.Duration // Redial interval after a dropped connection
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// ReceiptsConfig contains receipt generation and share-link configuration
type ReceiptsConfig struct {
	BaseURL        string // Public base URL used when minting shareable links
	SigningSecret  string // HMAC secret for share-link tokens
	RenderPoolSize int    // Maximum concurrent receipt renders
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate RabbitMQ config
	if c.RabbitMQ.URL == "" {
		validationErrors = append(validationErrors, "RABBITMQ_URL is required")
	}
	if c.RabbitMQ.QueueName == "" {
		validationErrors = append(validationErrors, "RABBITMQ_QUEUE_NAME is required")
	}
	if c.RabbitMQ.PublishQueueName == "" {
		validationErrors = append(validationErrors, "RABBITMQ_PUBLISH_QUEUE_NAME is required")
	}
	if c.RabbitMQ.ReconnectInterval <= 0 {
		validationErrors = append(validationErrors, "RABBITMQ_RECONNECT_INTERVAL must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Receipts config
	if c.Receipts.BaseURL == "" {
		validationErrors = append(validationErrors, "RECEIPTS_BASE_URL is required")
	}
	if c.Receipts.SigningSecret == "" {
		validationErrors = append(validationErrors, "RECEIPTS_SIGNING_SECRET is required")
	}
	if c.Receipts.RenderPoolSize <= 0 {
		validationErrors = append(validationErrors, "RECEIPTS_RENDER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
