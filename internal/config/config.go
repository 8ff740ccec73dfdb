package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver string
	DBDSN    string

	JWTSecret     string
	TokenTTL      time.Duration
	SessionCookie string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	OutboxInterval time.Duration
	AuditInterval  time.Duration

	CORSOrigins []string
}

// devSecret 仅用于非生产环境
const devSecret = "greenarmy-dev-secret"

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnvWithDefault("PORT", "8080"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		DBDriver:      strings.ToLower(getEnvWithDefault("DB_DRIVER", "mysql")),
		DBDSN:         os.Getenv("DB_DSN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionCookie: getEnvWithDefault("SESSION_COOKIE", "greenamy_token"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnvWithDefault("KAFKA_TOPIC", "ledger-events"),
		CORSOrigins:   splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.OutboxInterval, err = durationEnv("OUTBOX_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.AuditInterval, err = durationEnv("AUDIT_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "mysql", "postgres":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", cfg.DBDriver)
		}
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "file:greenarmy.db"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = devSecret
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	if cfg.OutboxInterval <= 0 {
		return nil, fmt.Errorf("OUTBOX_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
