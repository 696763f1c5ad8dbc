package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Search    SearchConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// CacheConfig holds cache settings
type CacheConfig struct {
	Enabled    bool
	Backend    string // "memory" or "redis"
	RedisAddr  string
	RedisDB    int
	DefaultTTL time.Duration
}

// AuthConfig holds JWT and password settings
type AuthConfig struct {
	Secret      string
	TokenExpiry time.Duration
	BcryptCost  int
}

// SearchConfig holds the tunable relevance weights and scan limits.
// The weights are heuristic; they are configuration, not a fixed law.
type SearchConfig struct {
	MinTokenLength int
	PerKindLimit   int
	SuggestLimit   int

	SubstringWeight float64
	PrefixWeight    float64
	ExactWeight     float64
	PrimaryBonus    float64
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "sucu_db"),
			User:        getEnv("POSTGRES_USER", "sucupira"),
			Password:    getEnv("POSTGRES_PASSWORD", "sucupira"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 50),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 10),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:    getEnvInt("REDIS_DB", 0),
			DefaultTTL: getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Secret:      getEnv("JWT_SECRET", "segredo-supersecreto"),
			TokenExpiry: getEnvDuration("JWT_EXPIRY", 30*time.Minute),
			BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		},
		Search: SearchConfig{
			MinTokenLength:  getEnvInt("SEARCH_MIN_TOKEN_LENGTH", 2),
			PerKindLimit:    getEnvInt("SEARCH_PER_KIND_LIMIT", 50),
			SuggestLimit:    getEnvInt("SEARCH_SUGGEST_LIMIT", 10),
			SubstringWeight: getEnvFloat("SEARCH_SUBSTRING_WEIGHT", 0.5),
			PrefixWeight:    getEnvFloat("SEARCH_PREFIX_WEIGHT", 1.0),
			ExactWeight:     getEnvFloat("SEARCH_EXACT_WEIGHT", 2.0),
			PrimaryBonus:    getEnvFloat("SEARCH_PRIMARY_BONUS", 0.5),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", false),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if c.Search.MinTokenLength < 1 {
		return fmt.Errorf("search min token length must be >= 1")
	}

	if c.Search.PerKindLimit < 1 {
		return fmt.Errorf("search per-kind limit must be >= 1")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
