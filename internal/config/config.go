package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	DatabaseURL          string
	SQLitePath           string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	SessionSecret        string
	SessionTTL           time.Duration
	SeedEmail            string
	SeedPassword         string
	SeedName             string
	StaticDir            string
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
// DATABASE_URL selects the hosted Postgres backend; when it is empty the
// service falls back to a local SQLite file at SQLITE_PATH.
func Load() (Config, error) {
	_ = godotenv.Load()

	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "3000"),
		ServiceName:          getEnv("SERVICE_NAME", "sales-tracker"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:           getEnv("SQLITE_PATH", "salestracker.db"),
		RedisAddr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		SessionSecret:        secret,
		SessionTTL:           getDuration("SESSION_TTL", 7*24*time.Hour),
		SeedEmail:            strings.TrimSpace(os.Getenv("SEED_EMAIL")),
		SeedPassword:         os.Getenv("SEED_PASSWORD"),
		SeedName:             getEnv("SEED_NAME", "Admin"),
		StaticDir:            getEnv("STATIC_DIR", "public"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 0),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}

	return cfg, nil
}

// DatabaseKind reports which relational backend the configuration selects.
func (c Config) DatabaseKind() string {
	if c.DatabaseURL != "" {
		return "postgres"
	}
	return "sqlite"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
