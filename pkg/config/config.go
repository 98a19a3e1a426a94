package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	RabbitMQ    RabbitMQConfig
	Auth        AuthConfig
	Cache       CacheConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Gateway     GatewayConfig
	Search      SearchConfig
	OTEL        OTELConfig
	Log         LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns host:port for net/http
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Enabled   bool
	// KeyPrefix namespaces cache keys, e.g. "slb" gives slb:business:<id>
	KeyPrefix string
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL     string
	APIKey  string
	Enabled bool
}

// RabbitMQConfig holds the broker used for booking events.
// An empty URL disables publishing.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// AuthConfig holds token and password settings
type AuthConfig struct {
	JWTSecret   string
	Issuer      string
	Audience    string
	TokenExpiry time.Duration
	BcryptCost  int
	Enforce     bool
}

// CacheConfig holds cache TTLs
type CacheConfig struct {
	BusinessTTL time.Duration
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig configures the gateway token bucket
type RateLimitConfig struct {
	Enabled      bool
	Capacity     int
	RefillPerSec float64
	KeyTTL       time.Duration
	FailOpen     bool
}

// GatewayConfig maps path prefixes to upstream base URLs
type GatewayConfig struct {
	UserServiceURL     string
	BusinessServiceURL string
	BookingServiceURL  string
	ReviewServiceURL   string
	SearchServiceURL   string
	UpstreamTimeout    time.Duration
}

// Routes returns the prefix → upstream table
func (c *GatewayConfig) Routes() map[string]string {
	return map[string]string{
		"/user":     c.UserServiceURL,
		"/business": c.BusinessServiceURL,
		"/booking":  c.BookingServiceURL,
		"/review":   c.ReviewServiceURL,
		"/search":   c.SearchServiceURL,
	}
}

// SearchConfig holds search index maintenance settings
type SearchConfig struct {
	ReindexCron    string
	ReindexWorkers int
	QuickLimit     int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger output settings
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "smart_local_business"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvAsInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Enabled:   getEnvAsBool("REDIS_ENABLED", true),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "slb"),
		},
		Typesense: TypesenseConfig{
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("RABBITMQ_BOOKING_QUEUE", "booking.events"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			Issuer:      getEnv("JWT_ISSUER", "SmartLocalBusiness"),
			Audience:    getEnv("JWT_AUDIENCE", "SmartLocalBusinessUsers"),
			TokenExpiry: getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
			BcryptCost:  getEnvAsInt("BCRYPT_COST", 12),
			Enforce:     getEnvAsBool("AUTH_ENFORCE", false),
		},
		Cache: CacheConfig{
			BusinessTTL: getEnvAsDuration("CACHE_BUSINESS_TTL", 30*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:      getEnvAsBool("RATE_LIMIT_ENABLED", false),
			Capacity:     getEnvAsInt("RATE_LIMIT_CAPACITY", 60),
			RefillPerSec: getEnvAsFloat("RATE_LIMIT_REFILL_PER_SEC", 1),
			KeyTTL:       getEnvAsDuration("RATE_LIMIT_KEY_TTL", 2*time.Minute),
			FailOpen:     getEnvAsBool("RATE_LIMIT_FAIL_OPEN", true),
		},
		Gateway: GatewayConfig{
			UserServiceURL:     getEnv("USER_SERVICE_URL", "http://localhost:5001"),
			BusinessServiceURL: getEnv("BUSINESS_SERVICE_URL", "http://localhost:5002"),
			SearchServiceURL:   getEnv("SEARCH_SERVICE_URL", "http://localhost:5003"),
			BookingServiceURL:  getEnv("BOOKING_SERVICE_URL", "http://localhost:5004"),
			ReviewServiceURL:   getEnv("REVIEW_SERVICE_URL", "http://localhost:5005"),
			UpstreamTimeout:    getEnvAsDuration("GATEWAY_UPSTREAM_TIMEOUT", 30*time.Second),
		},
		Search: SearchConfig{
			ReindexCron:    getEnv("SEARCH_REINDEX_CRON", "@every 15m"),
			ReindexWorkers: getEnvAsInt("SEARCH_REINDEX_WORKERS", 8),
			QuickLimit:     getEnvAsInt("SEARCH_QUICK_LIMIT", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "smart-local-business"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 64),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
		},
	}, nil
}

// LoadForService loads configuration and applies a per-binary default port
// and service name when the environment does not override them.
func LoadForService(serviceName string, defaultPort int) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if os.Getenv("SERVER_PORT") == "" {
		cfg.Server.Port = defaultPort
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		cfg.OTEL.ServiceName = serviceName
	}
	return cfg, nil
}

// Validate rejects settings that are unsafe outside development
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if c.Environment != "development" {
			return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", c.Environment)
		}
		c.Auth.JWTSecret = "development-only-secret-change-me"
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Cache.BusinessTTL <= 0 {
		return fmt.Errorf("CACHE_BUSINESS_TTL must be positive")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
