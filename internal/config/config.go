package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/berlin-dashboard/internal/adapter/lageso"
	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

const (
	maxFeedRetries = 5
	minChartSize   = 200
	maxChartSize   = 4000
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Feed settings. FeedFile, when set, replaces the HTTP feed with a local copy.
	FeedURL          string
	FeedFile         string
	FeedTimeout      time.Duration
	FeedRetries      int
	FeedRetryBackoff time.Duration

	DefaultDistricts  []string
	DefaultWindowDays int

	ChartWidth  int
	ChartHeight int

	// Snapshot publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	feedBackoff, err := parsePositiveDuration("FEED_RETRY_BACKOFF", "500ms")
	if err != nil {
		return nil, err
	}
	feedRetries, err := parseIntInRange("FEED_RETRIES", 2, 0, maxFeedRetries)
	if err != nil {
		return nil, err
	}

	windowDays, err := parseIntInRange("DEFAULT_WINDOW_DAYS", domain.DefaultWindowDays, 0, domain.MaxWindowDays)
	if err != nil {
		return nil, err
	}
	districts, err := parseDistricts(sharedcfg.EnvOrDefault("DEFAULT_DISTRICTS", "Lichtenberg"))
	if err != nil {
		return nil, err
	}

	width, err := parseIntInRange("CHART_WIDTH", 1024, minChartSize, maxChartSize)
	if err != nil {
		return nil, err
	}
	height, err := parseIntInRange("CHART_HEIGHT", 576, minChartSize, maxChartSize)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedURL:          sharedcfg.EnvOrDefault("FEED_URL", lageso.DefaultURL),
		FeedFile:         os.Getenv("FEED_FILE"),
		FeedTimeout:      feedTimeout,
		FeedRetries:      feedRetries,
		FeedRetryBackoff: feedBackoff,

		DefaultDistricts:  districts,
		DefaultWindowDays: windowDays,

		ChartWidth:  width,
		ChartHeight: height,

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "berlin-incidence-snapshots"),
	}

	if !strings.HasPrefix(cfg.FeedURL, "http://") && !strings.HasPrefix(cfg.FeedURL, "https://") {
		return nil, errors.New("invalid FEED_URL: must be an http(s) URL")
	}

	return cfg, nil
}

// PublishEnabled reports whether snapshot publishing is configured.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseIntInRange(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be %d-%d", key, lo, hi)
	}
	return n, nil
}

func parseDistricts(value string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := domain.Population(name); !ok {
			return nil, fmt.Errorf("invalid DEFAULT_DISTRICTS: unknown entity %q", name)
		}
		out = append(out, name)
	}
	return out, nil
}
