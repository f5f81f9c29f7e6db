package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Draft store backends
const (
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
	DraftStoreMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Survey backend the portal forwards to
	BackendURL     string
	BackendTimeout time.Duration

	RedisURL    string
	DatabaseURL string
	DraftStore  string

	DraftTTL          time.Duration
	SessionTTL        time.Duration
	PublicSurveyTTL   time.Duration
	StatisticsTTL     time.Duration
	SessionCookieName string
	SecureCookies     bool

	KafkaBrokers       []string
	KafkaConsumerGroup string

	CORSOrigins   []string
	DefaultLocale string
}

// LoadConfig reads the environment, loading a .env file first when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BackendURL:         strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080/api/v1"), "/"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DraftStore:         strings.ToLower(getEnv("DRAFT_STORE", DraftStoreRedis)),
		SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "session_id"),
		KafkaBrokers:       getList("KAFKA_BROKERS"),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "survey-portal"),
		CORSOrigins:        getList("CORS_ORIGINS"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "zh"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"BACKEND_TIMEOUT", 15 * time.Second, &cfg.BackendTimeout},
		{"DRAFT_TTL", 7 * 24 * time.Hour, &cfg.DraftTTL},
		{"SESSION_TTL", 24 * time.Hour, &cfg.SessionTTL},
		{"PUBLIC_SURVEY_TTL", 2 * time.Minute, &cfg.PublicSurveyTTL},
		{"STATISTICS_TTL", 5 * time.Minute, &cfg.StatisticsTTL},
	}
	for _, d := range durations {
		if *d.dest, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}
	if cfg.SecureCookies, err = strconv.ParseBool(getEnv("SECURE_COOKIES", strconv.FormatBool(cfg.IsProduction()))); err != nil {
		return nil, fmt.Errorf("SECURE_COOKIES: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}

	switch c.DraftStore {
	case DraftStoreRedis:
		if c.RedisURL == "" {
			return errors.New("DRAFT_STORE=redis requires REDIS_URL")
		}
	case DraftStorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DRAFT_STORE=postgres requires DATABASE_URL")
		}
	case DraftStoreMemory:
	default:
		return fmt.Errorf("unknown DRAFT_STORE %q", c.DraftStore)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
