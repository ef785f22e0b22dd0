package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageTypePostgres = "postgres"
	StorageTypeMemory   = "memory"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Admin     AdminConfig
	Invite    InviteConfig
	Hash      HashConfig
	Email     EmailConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int      `env:"APP_PORT" envDefault:"8080"`
	Env         string   `env:"APP_ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	// TrustProxy honors X-Forwarded-For and X-Real-IP. Enable only behind a
	// proxy that overwrites those headers.
	TrustProxy  bool     `env:"TRUST_PROXY" envDefault:"false"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"membership"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	MaxConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Type string `env:"STORAGE_TYPE" envDefault:"postgres"`
}

// AdminConfig holds credentials for the administrative endpoints
type AdminConfig struct {
	Key       string        `env:"ADMIN_KEY"`
	JWTSecret string        `env:"ADMIN_JWT_SECRET"`
	TokenTTL  time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`
}

type InviteConfig struct {
	TTLDays       int           `env:"INVITE_TTL_DAYS" envDefault:"7"`
	SweepInterval time.Duration `env:"INVITE_SWEEP_INTERVAL" envDefault:"1h"`
}

// TTL returns the invite validity window.
func (c InviteConfig) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

type HashConfig struct {
	Algorithm string `env:"HASH_ALGORITHM" envDefault:"argon2id"`
}

type EmailConfig struct {
	Provider   string `env:"EMAIL_PROVIDER" envDefault:"log"`
	Community  string `env:"COMMUNITY_NAME" envDefault:"the community"`
	SMTP       SMTPConfig
	MailerSend MailerSendConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"Membership"`
}

type MailerSendConfig struct {
	APIKey    string `env:"MAILERSEND_API_KEY"`
	FromEmail string `env:"MAILERSEND_FROM_EMAIL"`
	FromName  string `env:"MAILERSEND_FROM_NAME" envDefault:"Membership"`
}

type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

type RateLimitConfig struct {
	RedisURL string        `env:"REDIS_URL"`
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageTypePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageTypeMemory:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q", StorageTypePostgres, StorageTypeMemory)
	}
	if c.Admin.Key == "" {
		return fmt.Errorf("ADMIN_KEY is required")
	}
	if c.Invite.TTLDays <= 0 {
		return fmt.Errorf("INVITE_TTL_DAYS must be positive")
	}
	if c.RateLimit.RedisURL != "" && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
