package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Store     StoreConfig
	Media     MediaConfig
	Audit     AuditConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// StoreConfig holds object-store backend settings
type StoreConfig struct {
	Backend       string // "fs" or "redis"
	MediaRoot     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatTimeout   time.Duration
}

// MediaConfig holds media delivery settings
type MediaConfig struct {
	CacheControl string
}

// AuditConfig holds security-audit sink settings
type AuditConfig struct {
	PersistToDB bool
}

// DatabaseConfig holds Postgres connection settings for the audit sink
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", "fs"),
			MediaRoot:     getEnv("MEDIA_ROOT", "./media"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			StatTimeout:   getEnvDuration("STORE_STAT_TIMEOUT", 5*time.Second),
		},
		Media: MediaConfig{
			CacheControl: getEnv("MEDIA_CACHE_CONTROL", "public, max-age=31536000, immutable"),
		},
		Audit: AuditConfig{
			PersistToDB: getEnvBool("AUDIT_PERSIST_DB", false),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "mediagate"),
			User:        getEnv("POSTGRES_USER", "mediagate"),
			Password:    getEnv("POSTGRES_PASSWORD", "mediagate"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 10),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", false),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Store.Backend {
	case "fs":
		if c.Store.MediaRoot == "" {
			return fmt.Errorf("media root is required for fs backend")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	if c.Store.StatTimeout <= 0 {
		return fmt.Errorf("stat timeout must be positive")
	}

	if c.Audit.PersistToDB && c.Database.Host == "" {
		return fmt.Errorf("database host is required when audit persistence is enabled")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
