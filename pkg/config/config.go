package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chapterhq/ams/pkg/authz/cache"
	"github.com/chapterhq/ams/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Catalog       CatalogConfig
	Cache         CacheConfig
	Audit         AuditConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// CatalogConfig holds role catalog configuration
type CatalogConfig struct {
	// Path to the YAML role definitions. Empty means builtin roles only.
	Path string
	// Watch reloads the catalog when the file changes.
	Watch bool
}

// CacheConfig holds role assignment cache configuration
type CacheConfig struct {
	// Backend is "memory" or "redis"
	Backend    string
	TTL        time.Duration
	MaxEntries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AuditConfig holds audit trail configuration
type AuditConfig struct {
	// Sinks is a comma separated list: memory, file, postgres
	Sinks []string

	FileDir      string
	FileMaxBytes int64
	FileMaxFiles int

	PostgresURL string

	// RetentionDays drives the external cleanup job, never the logger
	RetentionDays int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Catalog:       loadCatalogConfig(),
		Cache:         loadCacheConfig(),
		Audit:         loadAuditConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("AMS_HOST", "0.0.0.0"),
		Port:            getEnv("AMS_PORT", "8080"),
		ReadTimeout:     getEnvDuration("AMS_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("AMS_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("AMS_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("AMS_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("AMS_HEALTH_PORT", "9090"),
	}
}

func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Path:  getEnv("AMS_CATALOG_PATH", ""),
		Watch: getEnvBool("AMS_CATALOG_WATCH", false),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Backend:       getEnv("AMS_CACHE_BACKEND", "memory"),
		TTL:           getEnvDuration("AMS_CACHE_TTL", cache.DefaultTTL),
		MaxEntries:    getEnvInt("AMS_CACHE_MAX_ENTRIES", cache.DefaultMaxEntries),
		RedisAddr:     getEnv("AMS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("AMS_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("AMS_REDIS_DB", 0),
	}
}

func loadAuditConfig() AuditConfig {
	sinks := strings.Split(getEnv("AMS_AUDIT_SINKS", "memory"), ",")
	for i := range sinks {
		sinks[i] = strings.TrimSpace(sinks[i])
	}

	return AuditConfig{
		Sinks:         sinks,
		FileDir:       getEnv("AMS_AUDIT_FILE_DIR", "audit-logs"),
		FileMaxBytes:  getEnvInt64("AMS_AUDIT_FILE_MAX_BYTES", 64<<20),
		FileMaxFiles:  getEnvInt("AMS_AUDIT_FILE_MAX_FILES", 10),
		PostgresURL:   getEnv("AMS_AUDIT_POSTGRES_URL", ""),
		RetentionDays: getEnvInt("AMS_AUDIT_RETENTION_DAYS", 730),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("AMS_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("AMS_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be memory or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	if len(c.Audit.Sinks) == 0 {
		return fmt.Errorf("at least one audit sink is required")
	}
	for _, sink := range c.Audit.Sinks {
		switch sink {
		case "memory", "file":
		case "postgres":
			if c.Audit.PostgresURL == "" {
				return fmt.Errorf("postgres URL is required for postgres audit sink")
			}
		default:
			return fmt.Errorf("invalid audit sink: %s (must be memory, file, or postgres)", sink)
		}
	}
	if c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("audit retention days must be positive")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
