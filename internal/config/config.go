package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the API service and the operator CLI.
type Config struct {
	HTTP      HTTPConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	Kafka     KafkaConfig
	Inventory InventoryConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace time.Duration
}

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	DriverPostgres  StoreDriver = "postgres"
	DriverFirestore StoreDriver = "firestore"
	DriverMemory    StoreDriver = "memory"
)

type StoreConfig struct {
	Driver StoreDriver
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// KafkaConfig leaves Brokers empty when events should only be logged.
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

type InventoryConfig struct {
	LowStockThreshold int64
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort          = 8080
	defaultMetricsPath       = "/metrics"
	defaultShutdownGrace     = 15
	defaultStoreDriver       = DriverPostgres
	defaultMigrationsPath    = "migrations"
	defaultTopicPrefix       = "backoffice"
	defaultLowStockThreshold = 10
	defaultServiceName       = "backoffice-api"
	defaultServiceVersion    = "0.1.0"
)

// Load reads configuration from environment variables. Every malformed variable
// is reported, not just the first one.
func Load() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:          env.integer("API_HTTP_PORT", defaultHTTPPort),
			MetricsPath:   env.str("API_METRICS_PATH", defaultMetricsPath),
			ShutdownGrace: time.Duration(env.integer("API_SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)) * time.Second,
		},
		Store: StoreConfig{
			Driver: StoreDriver(strings.ToLower(env.str("STORE_DRIVER", string(defaultStoreDriver)))),
		},
		Database: DatabaseConfig{
			URL:            env.str("DATABASE_URL", ""),
			AutoMigrate:    env.flag("AUTO_MIGRATE", true),
			MigrationsPath: env.str("MIGRATIONS_PATH", defaultMigrationsPath),
		},
		Firestore: FirestoreConfig{
			ProjectID:       env.str("FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: env.str("FIRESTORE_CREDENTIALS_FILE", ""),
		},
		Kafka: KafkaConfig{
			Brokers:     env.list("KAFKA_BROKERS"),
			TopicPrefix: env.str("KAFKA_TOPIC_PREFIX", defaultTopicPrefix),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: int64(env.integer("INVENTORY_LOW_STOCK_THRESHOLD", defaultLowStockThreshold)),
		},
		Telemetry: TelemetryConfig{
			LogLevel:      env.str("LOG_LEVEL", "info"),
			OTelEndpoint:  env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			EnableTracing: env.flag("OTEL_ENABLE_TRACING", true),
			EnableMetrics: env.flag("OTEL_ENABLE_METRICS", true),
			SampleRate:    env.number("OTEL_SAMPLE_RATE", 1.0),
		},
		Service: ServiceConfig{
			Name:        env.str("API_SERVICE_NAME", defaultServiceName),
			Version:     env.str("SERVICE_VERSION", defaultServiceVersion),
			Environment: env.str("ENVIRONMENT", "development"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = databaseURLFromParts(env)
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverMemory:
	case DriverFirestore:
		if cfg.Firestore.ProjectID == "" {
			env.fail("FIRESTORE_PROJECT_ID is required when STORE_DRIVER=firestore")
		}
	default:
		env.fail(fmt.Sprintf("invalid STORE_DRIVER %q: want postgres, firestore or memory", cfg.Store.Driver))
	}
	if cfg.Inventory.LowStockThreshold < 0 {
		env.fail("invalid INVENTORY_LOW_STOCK_THRESHOLD: must not be negative")
	}

	if err := env.err(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// databaseURLFromParts assembles a pgx URL from DB_* variables. Pool sizing travels
// as pool_* query parameters, which pgxpool.ParseConfig understands.
func databaseURLFromParts(env *envReader) string {
	query := fmt.Sprintf("sslmode=%s&pool_max_conns=%s&pool_min_conns=%s&pool_max_conn_lifetime=%s",
		env.str("DB_SSLMODE", "disable"),
		env.str("DB_MAX_CONNS", "25"),
		env.str("DB_MIN_CONNS", "5"),
		env.str("DB_MAX_CONN_LIFETIME", "5m"),
	)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?%s",
		env.str("DB_USER", "postgres"),
		env.str("DB_PASSWORD", "postgres"),
		env.str("DB_HOST", "localhost"),
		env.str("DB_PORT", "5432"),
		env.str("DB_NAME", "backoffice"),
		query,
	)
}

// envReader looks up variables and accumulates parse failures.
type envReader struct {
	errs []error
}

func (e *envReader) fail(msg string) {
	e.errs = append(e.errs, errors.New(msg))
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

// str treats an empty value like an unset one.
func (e *envReader) str(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func (e *envReader) integer(key string, fallback int) int {
	value := e.str(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (e *envReader) number(key string, fallback float64) float64 {
	value := e.str(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

// flag only recognises "true"; any other non-empty value is false.
func (e *envReader) flag(key string, fallback bool) bool {
	value := e.str(key, "")
	if value == "" {
		return fallback
	}
	return value == "true"
}

// list splits a comma separated value and drops empty entries.
func (e *envReader) list(key string) []string {
	var out []string
	for _, item := range strings.Split(e.str(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
