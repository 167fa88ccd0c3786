package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed by reference into the
// components that need it; nothing reads the environment afterwards.
type Config struct {
	ServerPort          string
	ServerReadTimeout   time.Duration
	ServerWriteTimeout  time.Duration
	ServerIdleTimeout   time.Duration
	RequestTimeout      time.Duration
	DatabaseURL         string
	DBMaxConns          int32
	DBMinConns          int32
	DBMaxConnLifetime   time.Duration
	DBMaxConnIdleTime   time.Duration
	DBHealthCheckPeriod time.Duration
	RedisURL            string
	JWTSecret           string
	JWTAlgorithm        string
	JWTAccessTTL        time.Duration
	JWTRefreshTTL       time.Duration
	CORSOrigins         []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:          int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:          int32(getInt("DB_MIN_CONNS", 2)),
		DBMaxConnLifetime:   getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		DBMaxConnIdleTime:   getDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBHealthCheckPeriod: getDuration("DB_HEALTH_CHECK_PERIOD", 30*time.Second),
		RedisURL:            strings.TrimSpace(os.Getenv("REDIS_URL")),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAlgorithm:        getEnv("JWT_ALGORITHM", "HS256"),
		JWTAccessTTL:        getDuration("JWT_ACCESS_TTL", 600*time.Second),
		JWTRefreshTTL:       getDuration("JWT_REFRESH_TTL", 720*time.Hour),
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM must be one of HS256, HS384, HS512")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
