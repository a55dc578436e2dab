package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the academy service
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Database
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	AutoMigrate     bool
	SeedAdminEmail  string
	SeedAdminPasswd string

	// Cache
	RedisURL string

	// Messaging
	KafkaBrokers     []string
	KafkaTopicPrefix string

	// Auth
	AuthProvider string // "local" or "casdoor"
	AuthSecret   string
	SessionKey   string
	TokenTTL     time.Duration
	Casdoor      CasdoorConfig

	// HTTP
	CORSAllowedOrigins []string

	// Tracing
	OtelEnabled  bool
	OtelEndpoint string
	Version      string
}

// CasdoorConfig holds the configuration for the Casdoor identity provider
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

const (
	AuthProviderLocal   = "local"
	AuthProviderCasdoor = "casdoor"
)

// LoadConfig reads .env (if present) and the process environment
func LoadConfig() (*Config, error) {
	// Missing .env is fine outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:   getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		AutoMigrate:     getEnvBool("AUTO_MIGRATE", true),
		SeedAdminEmail:  os.Getenv("ADMIN_EMAIL"),
		SeedAdminPasswd: os.Getenv("ADMIN_PASSWORD"),

		RedisURL: os.Getenv("REDIS_URL"),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "academy"),

		AuthProvider: strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderLocal)),
		AuthSecret:   os.Getenv("AUTH_SECRET"),
		SessionKey:   os.Getenv("SESSION_KEY"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERTIFICATE"),
			Organization: os.Getenv("CASDOOR_ORGANIZATION"),
			Application:  os.Getenv("CASDOOR_APPLICATION"),
		},

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		OtelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Version:      getEnv("SERVICE_VERSION", "dev"),
	}

	if cfg.SessionKey == "" {
		cfg.SessionKey = cfg.AuthSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	switch c.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderCasdoor:
		if c.Casdoor.Endpoint == "" || c.Casdoor.ClientID == "" {
			return fmt.Errorf("CASDOOR_ENDPOINT and CASDOOR_CLIENT_ID are required when AUTH_PROVIDER=casdoor")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
