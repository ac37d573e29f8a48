package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port   string
	AppEnv string

	DBDriver string
	DBURL    string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	LogLevel  slog.Level
	LogFormat string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Base URL printed into invoice QR codes while running on the shop LAN.
	VerifyDevBaseURL string
	PublicOrigin     string
	CompanyName      string

	DailyCapacity int
	ReminderCron  string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	AdminEmail    string
	AdminPassword string
}

var App *Config

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		AppEnv:               strings.ToLower(getEnv("APP_ENV", "development")),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBURL:                os.Getenv("DB_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "text")),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		VerifyDevBaseURL:     getEnv("VERIFY_DEV_BASE_URL", "http://192.168.1.100:3000"),
		PublicOrigin:         os.Getenv("PUBLIC_ORIGIN"),
		CompanyName:          getEnv("COMPANY_NAME", "DoorPro"),
		ReminderCron:         getEnv("REMINDER_CRON", "0 9 * * *"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	expiryHours, err := getEnvInt("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRY_HOURS: %w", err)
	}
	if expiryHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY_HOURS: must be positive, got %d", expiryHours)
	}
	cfg.JWTTTL = time.Duration(expiryHours) * time.Hour

	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	if cfg.DailyCapacity, err = getEnvInt("DAILY_CAPACITY", 4); err != nil {
		return nil, fmt.Errorf("DAILY_CAPACITY: %w", err)
	}
	if cfg.DailyCapacity < 1 {
		return nil, fmt.Errorf("DAILY_CAPACITY: must be at least 1, got %d", cfg.DailyCapacity)
	}

	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT: unsupported format %q", cfg.LogFormat)
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, errors.New("DB_URL not set")
		}
	case "sqlite":
		if cfg.DBURL == "" {
			cfg.DBURL = "doorpro.db"
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
