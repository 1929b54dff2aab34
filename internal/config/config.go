// Package config handles application configuration loading from environment
// variables, optionally seeded from a .env file. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDBPassword = "changeme"

// AIProviderConfig holds the settings of one LLM provider.
type AIProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// Rendering and drafts
	BrandColor   string
	MaxHTMLBytes int
	SeedSamples  bool

	// Sessions and workspaces
	SessionTTL           time.Duration
	WorkspaceIdleTimeout time.Duration

	// PostgreSQL connection (snapshot library); disabled when DBHost is empty
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (workspace persistence); disabled when ValkeyHost is empty
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// AI provider settings
	AIProvider      string // "openai", "claude", "gemini", "mistral"
	AIProviders     map[string]AIProviderConfig
	AIRatePerMinute int

	// S3 publishing; disabled when S3Endpoint is empty
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	p := &parser{}
	env := envOrDefault("APP_ENV", "development")
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  env,

		BrandColor:   envOrDefault("BRAND_COLOR", "#2563EB"),
		MaxHTMLBytes: p.int("MAX_HTML_BYTES", 1<<20),
		SeedSamples:  p.bool("SEED_SAMPLES", env == "development"),

		SessionTTL:           p.duration("SESSION_TTL", 24*time.Hour),
		WorkspaceIdleTimeout: p.duration("WORKSPACE_IDLE_TIMEOUT", 2*time.Hour),

		DBHost:     os.Getenv("POSTGRES_HOST"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "lpmanager"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "lpmanager"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyDB:       p.int("VALKEY_DB", 0),

		AIProvider:      envOrDefault("AI_PROVIDER", "openai"),
		AIProviders:     make(map[string]AIProviderConfig),
		AIRatePerMinute: p.int("AI_RATE_PER_MINUTE", 6),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}
	cfg.LogLevel = p.level("LOG_LEVEL", cfg.IsDev())

	for _, name := range []string{"openai", "claude", "gemini", "mistral"} {
		prefix := strings.ToUpper(name) + "_"
		cfg.AIProviders[name] = AIProviderConfig{
			APIKey:  os.Getenv(prefix + "API_KEY"),
			Model:   os.Getenv(prefix + "MODEL"),
			BaseURL: os.Getenv(prefix + "BASE_URL"),
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.MaxHTMLBytes <= 0 {
		return nil, fmt.Errorf("MAX_HTML_BYTES must be positive")
	}
	if cfg.Env == "production" && cfg.DBEnabled() && cfg.DBPassword == defaultDBPassword {
		return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DBEnabled reports whether the snapshot library is configured.
func (c *Config) DBEnabled() bool { return c.DBHost != "" }

// ValkeyEnabled reports whether workspace persistence is configured.
func (c *Config) ValkeyEnabled() bool { return c.ValkeyHost != "" }

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser reads typed variables and collects every parse error.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (p *parser) level(key string, dev bool) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		if dev {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return slog.LevelInfo
	}
	return l
}
