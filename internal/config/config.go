// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Backend  BackendConfig
	OpenAI   OpenAIConfig
	Redis    RedisConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the SQL connection settings. DSN wins over the
// individual fields when set.
type DatabaseConfig struct {
	Driver   string // postgres | sqlite
	RawDSN   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	RecordSource  string // db | rest
	SessionSecret string
}

// BackendConfig points at the managed PostgREST backend used when
// RecordSource is "rest".
type BackendConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// OpenAIConfig configures the vision model used for document extraction.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// RedisConfig configures the draft store. An empty Addr selects the
// in-memory store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DraftTTL time.Duration
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string
	JSON  bool
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	if d.Driver == "sqlite" {
		return d.DBName
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as golang-migrate expects.
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(d.RawDSN, "postgres://") || strings.HasPrefix(d.RawDSN, "postgresql://") {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 90),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			RawDSN:   strings.Trim(strings.TrimSpace(os.Getenv("DATABASE_DSN")), `"'`),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "crm"),
			Password: getEnv("DB_PASSWORD", "crm123"),
			DBName:   getEnv("DB_NAME", "salescrm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Migrations:    getEnvBool("MIGRATIONS", false),
			Seed:          getEnvBool("DB_SEED", false),
			RecordSource:  getEnv("RECORD_SOURCE", "db"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
			AnonKey: os.Getenv("BACKEND_ANON_KEY"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout: getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			DraftTTL: getEnvDuration("DRAFT_TTL", 30*24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvBool("LOG_JSON", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if s, err := strconv.Atoi(value); err == nil {
		return time.Duration(s) * time.Second
	}
	return defaultValue
}
