package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Defaults for the upstream data sources.
const (
	DefaultWorldBankBaseURL = "https://api.worldbank.org/v2"

	DefaultHappinessEndpoints = "https://data.worldhappiness.report/api/countries/{country}/scores?from={start}&to={end}," +
		"https://data.worldhappiness.report/data/{country}.csv"

	DefaultRankingEndpoints = "https://data.worldhappiness.report/api/rankings?year={year}," +
		"https://data.worldhappiness.report/data/ranking-{year}.csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Upstream candidates, tried in order.
	WorldBankBaseURLs  []string
	HappinessEndpoints []string
	RankingEndpoints   []string
	ProbeTimeout       time.Duration

	YearMin int
	YearMax int

	// World Bank response cache. CacheSize 0 disables it.
	CacheSize int
	CacheTTL  time.Duration

	// Optional snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	probeTimeout, err := parsePositiveDuration("PROBE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}

	yearMin, err := parseInt("YEAR_MIN", 2010)
	if err != nil {
		return nil, err
	}
	yearMax, err := parseInt("YEAR_MAX", 2023)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		WorldBankBaseURLs:  splitList(sharedcfg.EnvOrDefault("WORLDBANK_BASE_URLS", DefaultWorldBankBaseURL)),
		HappinessEndpoints: splitList(sharedcfg.EnvOrDefault("HAPPINESS_ENDPOINTS", DefaultHappinessEndpoints)),
		RankingEndpoints:   splitList(sharedcfg.EnvOrDefault("HAPPINESS_RANKING_ENDPOINTS", DefaultRankingEndpoints)),
		ProbeTimeout:       probeTimeout,

		YearMin: yearMin,
		YearMax: yearMax,

		CacheSize: cacheSize,
		CacheTTL:  cacheTTL,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "dashboard-snapshots"),
	}

	if len(cfg.WorldBankBaseURLs) == 0 {
		return nil, errors.New("WORLDBANK_BASE_URLS is required")
	}
	if cfg.YearMin > cfg.YearMax {
		return nil, fmt.Errorf("YEAR_MIN %d is after YEAR_MAX %d", cfg.YearMin, cfg.YearMax)
	}
	if cfg.CacheSize < 0 {
		return nil, errors.New("CACHE_SIZE must not be negative")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSnapshotTopic == "" {
			return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
