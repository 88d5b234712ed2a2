package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"basegraph.app/hooks/core/db"
)

type Config struct {
	OTel          OTelConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Health        HealthConfig
	Env           string
	Port          string
	APIKey        string
	SnowflakeNode int64
	DB            db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type RedisConfig struct {
	URL    string
	Stream string
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
}

type HealthConfig struct {
	ProbeTimeout time.Duration
}

type ServiceType string

const ServiceTypeServer ServiceType = "server"

// Load loads configuration from environment variables.
// In development, it loads .env.server first and falls back to .env.
//
// Load never fails on missing storage or API key settings: those are
// reported per endpoint at request time so that the process stays up.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("HOOKS_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:           getEnv("HOOKS_ENV", "development"),
		Port:          getEnv("PORT", "3000"),
		APIKey:        getEnv("API_KEY", ""),
		SnowflakeNode: getEnvInt64("SNOWFLAKE_NODE", 1),
		DB: db.Config{
			DSN:              databaseURL(),
			MaxConns:         getEnvInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvInt32("DB_MIN_CONNS", 0),
			QueryTimeout:     getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
			BootstrapTimeout: getEnvDuration("DB_BOOTSTRAP_TIMEOUT", 10*time.Second),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hooks"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", ""),
			Stream: getEnv("REDIS_STREAM", "hooks_events"),
		},
		HTTP: HTTPConfig{
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:      getEnvInt64("MAX_BODY_BYTES", 1<<20),
		},
		Health: HealthConfig{
			ProbeTimeout: getEnvDuration("HEALTH_PROBE_TIMEOUT", 2*time.Second),
		},
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr is the listen address. The service binds on all interfaces.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete DB_* variables. It returns "" when storage is not configured.
func databaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return BuildDatabaseURL(
		getEnv("DB_HOST", ""),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", ""),
		getEnv("DB_USER", ""),
		getEnv("DB_PASSWORD", ""),
	)
}

// BuildDatabaseURL returns "" unless host, name, user and password are all set.
// User and password are escaped so that passwords with reserved characters survive.
func BuildDatabaseURL(host, port, name, user, password string) string {
	if host == "" || name == "" || user == "" || password == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(user, password),
		Host:   host + ":" + port,
		Path:   "/" + name,
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
