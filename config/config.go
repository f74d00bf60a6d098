package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Uploads     UploadsConfig
	RateLimit   RateLimitConfig
	Email       EmailConfig
	FrontendURL string // base URL used to build registration links returned to clients
	Env         string // "production" masks internal error details
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Schema   string
}

// JWTConfig holds access and refresh token settings.
type JWTConfig struct {
	Secret            string
	ExpireMinutes     int
	RefreshExpireDays int
}

// UploadsConfig holds document storage settings.
type UploadsConfig struct {
	Path         string
	MaxSizeBytes int64
}

// RateLimitConfig holds request throttling thresholds.
type RateLimitConfig struct {
	LoginMaxAttempts int // per window, per client IP
	LoginWindowMin   int
}

// EmailConfig holds SMTP notification settings. Empty host disables sending.
type EmailConfig struct {
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	FromAddress string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3001"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "paroikiapp"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Schema:   getEnv("DB_SCHEMA", "public"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireMinutes:     getEnvInt("JWT_EXPIRE_MINUTES", 15),
			RefreshExpireDays: getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		},
		Uploads: UploadsConfig{
			Path:         getEnv("UPLOADS_PATH", "/data/uploads"),
			MaxSizeBytes: int64(getEnvInt("UPLOAD_MAX_SIZE_BYTES", 5*1024*1024)),
		},
		RateLimit: RateLimitConfig{
			LoginMaxAttempts: getEnvInt("LOGIN_RATE_LIMIT_MAX", 5),
			LoginWindowMin:   getEnvInt("LOGIN_RATE_LIMIT_WINDOW_MIN", 15),
		},
		Email: EmailConfig{
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    getEnv("SMTP_USER", ""),
			SMTPPass:    getEnv("SMTP_PASS", ""),
			FromAddress: getEnv("NOTIFY_FROM", "noreply@paroikiapp.local"),
		},
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Env:         getEnv("ENV", "development"),
	}
	return cfg, nil
}

// Production reports whether the app runs with production error masking.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
