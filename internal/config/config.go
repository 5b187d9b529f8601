package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	DatabaseURL        string
	DBMaxConns         int32
	DBMinConns         int32
	AccessSecret       string
	RefreshSecret      string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	CookieName         string
	CookieSecure       bool
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
	TokenCleanupEvery  time.Duration
	Environment        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:         int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getInt("DB_MIN_CONNS", 2)),
		AccessSecret:       strings.TrimSpace(os.Getenv("ACCESS_SECRET")),
		RefreshSecret:      strings.TrimSpace(os.Getenv("REFRESH_SECRET")),
		AccessTTL:          getDuration("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:         getDuration("REFRESH_TTL", 3*time.Hour),
		CookieName:         getEnv("JWT_COOKIE_NAME", "refresh_token"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
		TokenCleanupEvery:  getDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),
		Environment:        getEnv("APP_ENV", "production"),
	}
	cfg.CookieSecure = cfg.Environment != "development"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if err := validateSecret("ACCESS_SECRET", c.AccessSecret); err != nil {
		return err
	}

	if err := validateSecret("REFRESH_SECRET", c.RefreshSecret); err != nil {
		return err
	}

	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("ACCESS_SECRET and REFRESH_SECRET must differ")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if strings.TrimSpace(c.CookieName) == "" {
		return fmt.Errorf("JWT_COOKIE_NAME cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("REFRESH_TTL must exceed ACCESS_TTL")
	}

	return nil
}

// validateSecret enforces the signing-secret policy: 12 to 64 characters
// containing lowercase, uppercase, digit, and symbol.
func validateSecret(name string, secret string) error {
	if len(secret) < 12 || len(secret) > 64 {
		return fmt.Errorf("%s must be 12-64 characters", name)
	}

	var lower, upper, digit, symbol bool
	for _, r := range secret {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return fmt.Errorf("%s must contain lowercase, uppercase, digit, and symbol characters", name)
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
