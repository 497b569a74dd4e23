package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the full runtime configuration tree.
type Config struct {
	App         AppConfig
	Xbox        XboxConfig
	Redis       RedisConfig
	Admin       AdminConfig
	RateLimit   RateLimitConfig
	Cors        CORSConfig
	Monitoring  MonitoringConfig
	Diagnostics DiagnosticsConfig
}

// AppConfig captures application-level settings.
type AppConfig struct {
	Name    string `validate:"required"`
	Env     string `validate:"oneof=development staging production test"`
	Version string
	Port    string `validate:"required,numeric"`
}

// XboxConfig holds the simulated identity provider settings.
type XboxConfig struct {
	ClientID           string `validate:"required"`
	DefaultRedirectURI string `validate:"required"`
	// StrictActions answers unknown actions with 400 instead of 405.
	StrictActions bool
}

// RedisConfig stores redis connectivity info.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int `validate:"gte=0"`
	TLS      bool
}

// AdminConfig governs operator tokens for debug endpoints.
type AdminConfig struct {
	JWTSecret     string        `validate:"required"`
	Issuer        string        `validate:"required"`
	TokenTTL      time.Duration `validate:"gt=0"`
	SecretVersion string
}

// RateLimitConfig manages throttling parameters.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int `validate:"gt=0"`
	Burst             int `validate:"gte=0"`
	RedisPrefix       string
}

// CORSConfig declares cross-origin policy for the diagnostics API.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// MonitoringConfig adds observability tunables.
type MonitoringConfig struct {
	PrometheusEnabled bool
	SentryDSN         string
	SentrySampleRate  float64 `validate:"gte=0,lte=1"`
}

// DiagnosticsConfig governs debug helpers.
type DiagnosticsConfig struct {
	EnableDebugLogs bool
	MaxLogLines     int `validate:"gt=0"`
}

// Load reads from environment (optionally .env) and builds Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getenv("APP_NAME", "xbox-link-demo"),
			Env:     getenv("APP_ENV", "development"),
			Version: getenv("APP_VERSION", "0.1.0"),
			Port:    getenv("PORT", "8080"),
		},
		Xbox: XboxConfig{
			ClientID:           getenv("XBOX_CLIENT_ID", "demo_client_id"),
			DefaultRedirectURI: getenv("XBOX_DEFAULT_REDIRECT_URI", "https://localhost:3000/auth/callback"),
			StrictActions:      getBool("XBOX_STRICT_ACTIONS", false),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Username: getenv("REDIS_USER", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			TLS:      getBool("REDIS_TLS", false),
		},
		Admin: AdminConfig{
			JWTSecret:     getenv("ADMIN_JWT_SECRET", "change-me"),
			Issuer:        getenv("ADMIN_JWT_ISSUER", "xbox-link-demo"),
			TokenTTL:      time.Duration(getInt("ADMIN_JWT_TTL_MIN", 60)) * time.Minute,
			SecretVersion: getenv("ADMIN_JWT_SECRET_VERSION", "v1"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getInt("RATE_LIMIT_PER_MIN", 120),
			Burst:             getInt("RATE_LIMIT_BURST", 10),
			RedisPrefix:       getenv("RATE_LIMIT_PREFIX", "ratelimit"),
		},
		Cors: CORSConfig{
			AllowedOrigins:   splitAndTrim(getenv("CORS_ORIGINS", "")),
			AllowedMethods:   splitAndTrim(getenv("CORS_METHODS", "GET,OPTIONS")),
			AllowedHeaders:   splitAndTrim(getenv("CORS_HEADERS", "Authorization,Content-Type,X-Request-ID")),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: getBool("PROMETHEUS_ENABLED", true),
			SentryDSN:         getenv("SENTRY_DSN", ""),
			SentrySampleRate:  getFloat("SENTRY_SAMPLE_RATE", 0.2),
		},
		Diagnostics: DiagnosticsConfig{
			EnableDebugLogs: getBool("ENABLE_DEBUG_LOGS", false),
			MaxLogLines:     getInt("DEBUG_LOG_LIMIT", 200),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.App.Env == "production" && c.Admin.JWTSecret == "change-me" {
		return fmt.Errorf("ADMIN_JWT_SECRET must be set in production")
	}
	return nil
}

func getenv(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getInt(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getFloat(key string, def float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
