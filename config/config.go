package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environments
const ENV_PROD = "prod"
const ENV_MOCK = "mock"

// Redis defaults
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB = 0

// Cached poll results expire after a day so abandoned filters don't pile up.
const CACHE_TTL = 24 * time.Hour

// Upstream floor backend
const UPSTREAM_BASE_URL = "http://localhost:5000"

// Toasts auto-dismiss after this delay.
const TOAST_TTL = 4 * time.Second

// Pollers with no readers for this long are stopped.
const POLLER_IDLE_TIMEOUT = 5 * time.Minute

// Config holds runtime configuration for the service.
type Config struct {
	Env             string
	ListenAddr      string
	ShutdownTimeout time.Duration
	Debug           bool

	UpstreamBaseURL string
	// UpstreamTimeout of zero leaves requests bounded only by cancellation.
	UpstreamTimeout time.Duration
	MockFixturePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	ReferenceDataPath string
	PollerIdleTimeout time.Duration
}

// FromEnv loads configuration from environment variables with sensible defaults.
func FromEnv() Config {
	return Config{
		Env:               getEnv("FLOORWATCH_ENV", ENV_PROD),
		ListenAddr:        getEnv("FLOORWATCH_LISTEN_ADDR", ":8080"),
		ShutdownTimeout:   getEnvDuration("FLOORWATCH_SHUTDOWN_TIMEOUT", 5*time.Second),
		Debug:             getEnvBool("FLOORWATCH_DEBUG", false),
		UpstreamBaseURL:   strings.TrimRight(getEnv("FLOORWATCH_UPSTREAM_BASE_URL", UPSTREAM_BASE_URL), "/"),
		UpstreamTimeout:   getEnvDuration("FLOORWATCH_UPSTREAM_TIMEOUT", 0),
		MockFixturePath:   getEnv("FLOORWATCH_MOCK_FIXTURE", ""),
		RedisAddr:         getEnv("FLOORWATCH_REDIS_ADDR", REDIS_DB_ADDRESS),
		RedisPassword:     getEnv("FLOORWATCH_REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("FLOORWATCH_REDIS_DB", REDIS_DB),
		CacheTTL:          getEnvDuration("FLOORWATCH_CACHE_TTL", CACHE_TTL),
		ReferenceDataPath: getEnv("FLOORWATCH_REFERENCE_DATA", ""),
		PollerIdleTimeout: getEnvDuration("FLOORWATCH_POLLER_IDLE_TIMEOUT", POLLER_IDLE_TIMEOUT),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

// getEnvDuration accepts Go durations ("30s") or bare seconds ("30").
func getEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
