// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Collector CollectorConfig
	NLP       NLPConfig
	Translate TranslateConfig
	Alerts    AlertConfig
	SMTP      SMTPConfig
	Cache     CacheConfig
	Archive   ArchiveConfig
}

// AppConfig holds process-level parameters.
type AppConfig struct {
	Env      string
	LogLevel string
}

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	URL string
}

// CollectorConfig holds collection-cycle parameters.
type CollectorConfig struct {
	FeedsFile           string
	ScrapingSourcesFile string
	IntervalMin         int
	FetchConcurrency    int
	FetchTimeout        time.Duration
	GracePeriod         time.Duration
}

// Interval returns the cycle period as a duration.
func (c CollectorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMin) * time.Minute
}

// NLPConfig holds sentiment-enrichment parameters.
type NLPConfig struct {
	Enabled         bool
	IndicEnabled    bool
	AdjusterEnabled bool
	BoostThreshold  float64
	BatchSize       int
	MaxLength       int
	QueueSize       int
	FlushInterval   time.Duration
	EnglishModelURL string
	IndicModelURL   string
	FallbackURL     string
}

// TranslateConfig holds the translation fallback-chain parameters.
type TranslateConfig struct {
	Enabled      bool
	IndicURL     string
	PrimaryURL   string
	PrimaryKey   string
	SecondaryURL string
}

// AlertConfig holds alert-trigger parameters.
type AlertConfig struct {
	Enabled           bool
	NegativeThreshold float64
	RecipientEmail    string
	FrontendURL       string
}

// SMTPConfig holds outbound mail parameters.
type SMTPConfig struct {
	Enabled   bool
	Server    string
	Port      int
	UseTLS    bool
	Username  string
	Password  string
	FromEmail string
	Timeout   time.Duration
}

// CacheConfig holds Redis result-cache parameters.
type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// ArchiveConfig holds S3-compatible raw-payload archive parameters.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Config{
		App: AppConfig{
			Env:      envOr("ENV", "development"),
			LogLevel: envOr("LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Collector: CollectorConfig{
			FeedsFile:           envOr("FEEDS_FILE", "config/feeds.yaml"),
			ScrapingSourcesFile: envOr("SCRAPING_SOURCES_FILE", "config/scraping_sources.yaml"),
			IntervalMin:         envOrInt("COLLECT_INTERVAL_MIN", 60),
			FetchConcurrency:    envOrInt("FETCH_CONCURRENCY", 10),
			FetchTimeout:        time.Duration(envOrInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,
			GracePeriod:         time.Duration(envOrInt("SHUTDOWN_GRACE_SEC", 60)) * time.Second,
		},
		NLP: NLPConfig{
			Enabled:         envOrBool("NLP_ENABLED", true),
			IndicEnabled:    envOrBool("INDICBERT_SENTIMENT_ENABLED", true),
			AdjusterEnabled: envOrBool("RULE_BASED_ADJUSTER_ENABLED", true),
			BoostThreshold:  envOrFloat("SENTIMENT_BOOST_THRESHOLD", 0.15),
			BatchSize:       envOrInt("BATCH_SIZE", 20),
			MaxLength:       envOrInt("MAX_LENGTH", 512),
			QueueSize:       envOrInt("NLP_QUEUE_SIZE", 500),
			FlushInterval:   time.Duration(envOrInt("NLP_FLUSH_MS", 250)) * time.Millisecond,
			EnglishModelURL: envOr("ENGLISH_SENTIMENT_URL", ""),
			IndicModelURL:   envOr("INDIC_SENTIMENT_URL", ""),
			FallbackURL:     envOr("MULTILINGUAL_SENTIMENT_URL", ""),
		},
		Translate: TranslateConfig{
			Enabled:      envOrBool("TRANSLATION_ENABLED", true),
			IndicURL:     envOr("INDIC_TRANSLATE_URL", ""),
			PrimaryURL:   envOr("TRANSLATE_API_URL", ""),
			PrimaryKey:   envOr("TRANSLATE_API_KEY", ""),
			SecondaryURL: envOr("TRANSLATE_FALLBACK_URL", ""),
		},
		Alerts: AlertConfig{
			Enabled:           envOrBool("ALERT_ENABLED", true),
			NegativeThreshold: envOrFloat("ALERT_NEGATIVE_THRESHOLD", 0.6),
			RecipientEmail:    envOr("PIB_ALERT_EMAIL", ""),
			FrontendURL:       envOr("FRONTEND_URL", "http://localhost:5173"),
		},
		SMTP: SMTPConfig{
			Enabled:   envOrBool("SMTP_ENABLED", false),
			Server:    envOr("SMTP_SERVER", "smtp.gmail.com"),
			Port:      envOrInt("SMTP_PORT", 587),
			UseTLS:    envOrBool("SMTP_USE_TLS", true),
			Username:  envOr("SMTP_USERNAME", ""),
			Password:  envOr("SMTP_PASSWORD", ""),
			FromEmail: envOr("SMTP_FROM_EMAIL", ""),
			Timeout:   time.Duration(envOrInt("SMTP_TIMEOUT_SEC", 30)) * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  envOrBool("CACHE_ENABLED", true),
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: envOr("REDIS_PASSWORD", ""),
			DB:       envOrInt("REDIS_DB", 0),
		},
		Archive: ArchiveConfig{
			Enabled:   envOrBool("ARCHIVE_ENABLED", false),
			Endpoint:  envOr("S3_ENDPOINT", ""),
			Bucket:    envOr("S3_BUCKET", "newswatch-raw"),
			AccessKey: envOr("S3_ACCESS_KEY", ""),
			SecretKey: envOr("S3_SECRET_KEY", ""),
			Region:    envOr("S3_REGION", "ap-south-1"),
		},
	}

	if cfg.DB.URL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.Collector.IntervalMin <= 0 {
		return Config{}, fmt.Errorf("config: COLLECT_INTERVAL_MIN must be positive, got %d", cfg.Collector.IntervalMin)
	}
	if cfg.Alerts.NegativeThreshold < 0 || cfg.Alerts.NegativeThreshold > 1 {
		return Config{}, fmt.Errorf("config: ALERT_NEGATIVE_THRESHOLD must be in [0,1], got %v", cfg.Alerts.NegativeThreshold)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envOrBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envOrFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
