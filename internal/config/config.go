package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	LogLevel          string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Single administrator credential for the dashboard.
	AdminEmail        string
	AdminPasswordHash string

	// Scheduling
	Location      *time.Location
	BufferMinutes int

	// Outbound email; empty SMTPHost disables delivery.
	SMTPHost    string
	SMTPPort    int
	SMTPFrom    string
	NotifyEmail string

	// Rate limiting; empty RedisAddr selects the in-memory limiter.
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	// Background jobs
	ReminderCron   string
	CompletionCron string

	// Activity log
	ActivityLogSize int
	ActivityLogTTL  time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PROD_ORIGINS", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("BUSINESS_TIMEZONE", "America/New_York")
	v.SetDefault("BOOKING_BUFFER_MINUTES", 30)
	v.SetDefault("SMTP_PORT", 25)
	v.SetDefault("SMTP_FROM", "no-reply@brightnest.local")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("REMINDER_CRON", "0 18 * * *")
	v.SetDefault("COMPLETION_CRON", "*/30 * * * *")
	v.SetDefault("ACTIVITY_LOG_SIZE", 200)
	v.SetDefault("ACTIVITY_LOG_TTL", "24h")

	// Keys without defaults must be bound explicitly so AutomaticEnv sees them.
	for _, key := range []string{
		"DB_DSN", "JWT_SECRET", "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH",
		"SMTP_HOST", "NOTIFY_EMAIL", "REDIS_ADDR", "REDIS_PASSWORD",
	} {
		_ = v.BindEnv(key)
	}

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.IsProduction = v.GetString("APP_ENV") == PROD_STRING
	cfg.ProdOrigins = v.GetString("PROD_ORIGINS")
	cfg.HTTPAddr = v.GetString("HTTP_ADDR")
	cfg.LogLevel = v.GetString("LOG_LEVEL")

	// Database DSN is required
	cfg.DBDSN = v.GetString("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_ACCESS_TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	cfg.BcryptCost, err = getInt(v, "BCRYPT_COST")
	if err != nil {
		return nil, err
	}

	cfg.AdminEmail = strings.TrimSpace(v.GetString("ADMIN_EMAIL"))
	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is required")
	}
	cfg.AdminPasswordHash = v.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}

	tz := v.GetString("BUSINESS_TIMEZONE")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", tz, err)
	}

	cfg.BufferMinutes, err = getInt(v, "BOOKING_BUFFER_MINUTES")
	if err != nil {
		return nil, err
	}
	if cfg.BufferMinutes < 0 {
		return nil, fmt.Errorf("BOOKING_BUFFER_MINUTES must not be negative")
	}

	cfg.SMTPHost = v.GetString("SMTP_HOST")
	cfg.SMTPPort, err = getInt(v, "SMTP_PORT")
	if err != nil {
		return nil, err
	}
	cfg.SMTPFrom = v.GetString("SMTP_FROM")
	cfg.NotifyEmail = v.GetString("NOTIFY_EMAIL")

	cfg.RedisAddr = v.GetString("REDIS_ADDR")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB, err = getInt(v, "REDIS_DB")
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPerMinute, err = getInt(v, "RATE_LIMIT_PER_MINUTE")
	if err != nil {
		return nil, err
	}

	cfg.ReminderCron = v.GetString("REMINDER_CRON")
	cfg.CompletionCron = v.GetString("COMPLETION_CRON")

	cfg.ActivityLogSize, err = getInt(v, "ACTIVITY_LOG_SIZE")
	if err != nil {
		return nil, err
	}
	cfg.ActivityLogTTL, err = time.ParseDuration(v.GetString("ACTIVITY_LOG_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACTIVITY_LOG_TTL: %w", err)
	}

	return cfg, nil
}

// getInt reads an integer setting.
// viper's GetInt silently yields 0 for garbage, so the raw string is checked first.
func getInt(v *viper.Viper, key string) (int, error) {
	raw := v.Get(key)
	switch val := raw.(type) {
	case int:
		return val, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, val, err)
		}
		return n, nil
	default:
		return v.GetInt(key), nil
	}
}
