// Package config loads service settings from environment variables,
// falling back to local-development defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the workshop hub server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Admin     AdminConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       string
	PublicURL  string // base for url/apiUrl fields in responses
	StaticDir  string // optional frontend build served at /
	CORSOrigin string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL         string // overrides the discrete fields when set
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// DSN builds a libpq-compatible connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SMTPConfig configures the confirmation mailer. An empty Host selects the
// logging notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Enabled reports whether real mail delivery is configured.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// AdminConfig holds the administrator credential and token settings.
type AdminConfig struct {
	Email     string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
	Enforce   bool // require a bearer token on admin routes
}

// CacheConfig configures the read-through response cache.
type CacheConfig struct {
	RedisAddr string // empty selects the in-process cache
	TTL       time.Duration
}

// Enabled reports whether responses are cached at all.
func (c CacheConfig) Enabled() bool { return c.TTL > 0 }

// RateLimitConfig bounds registration submissions per client IP.
type RateLimitConfig struct {
	RPS     float64
	Burst   int
	IdleTTL time.Duration
}

// LogConfig selects log level and encoding.
type LogConfig struct {
	Level string
	Dev   bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			PublicURL:  getEnv("PUBLIC_URL", "http://localhost:8080"),
			StaticDir:  getEnv("STATIC_DIR", ""),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "workshophub"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@workshophub.local"),
			Timeout:  getEnvDuration("MAIL_TIMEOUT", 30*time.Second),
		},
		Admin: AdminConfig{
			Email:     getEnv("ADMIN_EMAIL", "admin@example.com"),
			Password:  getEnv("ADMIN_PASSWORD", "admin123"),
			JWTSecret: getEnv("ADMIN_JWT_SECRET", "change-me"),
			TokenTTL:  getEnvDuration("ADMIN_TOKEN_TTL", 2*time.Hour),
			Enforce:   getEnvBool("ADMIN_ENFORCE", false),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getEnvDuration("CACHE_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			RPS:     getEnvFloat("REGISTER_RPS", 2),
			Burst:   getEnvInt("REGISTER_BURST", 5),
			IdleTTL: getEnvDuration("REGISTER_LIMIT_IDLE_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dev:   getEnvBool("LOG_DEV", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Admin.Enforce && c.Admin.JWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required when ADMIN_ENFORCE is set")
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("REGISTER_RPS and REGISTER_BURST must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
