package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	OTEL     OTELConfig
}

// AppConfig holds service-wide settings
type AppConfig struct {
	Env            string
	LogLevel       string
	DefaultLocale  string
	AllowedOrigins []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds TTLs for cached lookups
type CacheConfig struct {
	OverrideTTLSeconds  int
	WarmIntervalSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

var defaults = map[string]any{
	"APP_ENV":                     "development",
	"LOG_LEVEL":                   "info",
	"DEFAULT_LOCALE":              "en-US",
	"ALLOWED_ORIGINS":             "*",
	"SERVER_HOST":                 "0.0.0.0",
	"SERVER_PORT":                 3000,
	"DB_HOST":                     "localhost",
	"DB_PORT":                     5432,
	"DB_USER":                     "postgres",
	"DB_PASSWORD":                 "",
	"DB_NAME":                     "wellness_intake",
	"DB_SSLMODE":                  "disable",
	"REDIS_ENABLED":               true,
	"REDIS_HOST":                  "localhost",
	"REDIS_PORT":                  6379,
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"OVERRIDE_CACHE_TTL_SECONDS":  60,
	"CACHE_WARM_INTERVAL_SECONDS": 0,
	"OTEL_SERVICE_NAME":           "wellness-intake",
	"OTEL_SERVICE_VERSION":        "1.0.0",
	"OTEL_ENDPOINT":               "",
	"OTEL_ENABLED":                false,
}

// Load loads configuration from environment variables and, when CONFIG_FILE
// is set, from that file. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return &Config{
		App: AppConfig{
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			DefaultLocale:  v.GetString("DEFAULT_LOCALE"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			OverrideTTLSeconds:  v.GetInt("OVERRIDE_CACHE_TTL_SECONDS"),
			WarmIntervalSeconds: v.GetInt("CACHE_WARM_INTERVAL_SECONDS"),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
