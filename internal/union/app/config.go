package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/service"
	"github.com/aussiebroadwan/aupwu/pkg/httpx"
)

// DefaultSessionSecret signs session cookies when SESSION_SECRET is unset.
// Anyone who knows it can forge cookies, so startup warns about it.
const DefaultSessionSecret = "aupwu_secret_key"

const (
	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"

	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

type Config struct {
	SessionSecret  string        // Cookie signing secret (default: aupwu_secret_key)
	SessionStore   string        // Session backend (sql, redis) (default: sql)
	SessionMaxAge  time.Duration // Cookie max age and backend lifetime bound; 0 keeps browser-session cookies
	RedisURL       string        // Redis URL for SESSION_STORE=redis (default: redis://localhost:6379/0)
	DatabaseURL    string        // postgres:// URL or sqlite file path (default: aupwu.db)
	PasswordHasher string        // Hash for new passwords (argon2id, bcrypt) (default: argon2id)
	BcryptCost     int           // Optional: bcrypt cost (default: bcrypt.DefaultCost)
	PepperFile     string        // Path to the argon2id pepper file (default: ./pepper)

	AdminUsername string // Seeded admin username (default: admin)
	AdminEmail    string // Seeded admin email (default: admin@aupwu.org)
	AdminPassword string // Seeded admin password (default: secret)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	LogWriter            io.Writer     // Log destination, not read from the environment (default: stdout)
	Port                 int           // HTTP server port (default: 5000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Session pruning interval (default: 1h)

	// TrustProxyHeaders keys rate limits on X-Forwarded-For / X-Real-IP
	// (default: false, the peer address is used).
	TrustProxyHeaders bool
	LoginLimit        httpx.RateLimitConfig // RATELIMIT_LOGIN_*
	RegisterLimit     httpx.RateLimitConfig // RATELIMIT_REGISTER_*
	HealthLimit       httpx.RateLimitConfig // RATELIMIT_HEALTH_*
}

func LoadConfig() Config {
	cfg := Config{
		SessionSecret:  getEnvOrDefault("SESSION_SECRET", DefaultSessionSecret),
		SessionStore:   strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreSQL)),
		SessionMaxAge:  getEnvDurationOrDefault("SESSION_COOKIE_MAX_AGE", 0),
		RedisURL:       getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", "aupwu.db"),
		PasswordHasher: strings.ToLower(getEnvOrDefault("PASSWORD_HASHER", HasherArgon2id)),
		BcryptCost:     getEnvIntOrDefault("BCRYPT_COST", 0),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),

		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@aupwu.org"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", service.DefaultAdminPassword),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		TrustProxyHeaders: getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),
		LoginLimit:        httpx.ParseRateLimitFromEnv("LOGIN", httpx.StrictLimit),
		RegisterLimit:     httpx.ParseRateLimitFromEnv("REGISTER", httpx.StrictLimit),
		HealthLimit:       httpx.ParseRateLimitFromEnv("HEALTH", httpx.LenientLimit),
	}

	cfg.LoginLimit.TrustProxy = cfg.TrustProxyHeaders
	cfg.RegisterLimit.TrustProxy = cfg.TrustProxyHeaders
	cfg.HealthLimit.TrustProxy = cfg.TrustProxyHeaders
	return cfg
}

// Validate rejects settings New cannot act on.
func (c Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreSQL, SessionStoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreSQL, SessionStoreRedis, c.SessionStore)
	}
	switch c.PasswordHasher {
	case HasherArgon2id, HasherBcrypt:
	default:
		return fmt.Errorf("PASSWORD_HASHER must be %q or %q, got %q", HasherArgon2id, HasherBcrypt, c.PasswordHasher)
	}
	if c.SessionMaxAge < 0 {
		return fmt.Errorf("SESSION_COOKIE_MAX_AGE must not be negative")
	}
	if c.AdminUsername == "" || c.AdminEmail == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must not be empty")
	}
	return nil
}

// UsesPostgres reports whether DatabaseURL names a postgres server rather
// than a sqlite file.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Either a Go duration ("12h", "90s") or a bare number of seconds, which
	// is how cookie max ages are usually written.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
