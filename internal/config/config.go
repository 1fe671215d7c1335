package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Metadata sources understood by sources/metadata.New.
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceRedis = "redis"
)

// Span exporters for CAMPSTATS_TRACE.
const (
	TraceNone   = "none"
	TraceStdout = "stdout"
)

// Share bases for the category doughnut.
const (
	ShareBasisCategorized = "categorized" // divide by the sum of category buckets
	ShareBasisAll         = "all"         // divide by every estimated minute, categorized or not
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request budget, covers the metadata fetch

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DocsDir string // directory holding README.md, _stats.md and the chapter pages

	MetadataSource   string // "file" | "http" | "redis"
	MetadataLocation string // file path, URL, or redis key (redis defaults to campstats:metadata)

	CategoryCanvasID   string // canvas id of the doughnut on the home page
	ShareBasis         string // "categorized" | "all"
	TechCloudTarget    string // element id for the experimental word cloud, empty = disabled
	TechCloudMaxWords  int    // hard cap on rendered words
	RateLimitBurst     int    // page requests allowed in a burst per client IP
	RateLimitPerMinute int    // refill rate per client IP

	Trace string // span exporter: "none" | "stdout"

	// Redis (only used when MetadataSource == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, doubles up to RedisMaxWait
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration

	AllowedHosts []string // optional, restrict page access to specific Host headers
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

// Load reads the configuration from the environment, after loading an optional .env file.
// Invalid or missing required values are fatal.
func Load() *Config {
	cfg := Read()

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Read is Load without validation, for callers that override fields (CLI flags)
// and call Validate themselves. Malformed numbers, booleans and durations still panic.
func Read() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] failed to load .env file: %v", err)
	}

	cfg := &Config{
		ListenPort:      getenv("CAMPSTATS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CAMPSTATS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("CAMPSTATS_REQUEST_TIMEOUT", 10*time.Second),

		LogLevel:  getenv("CAMPSTATS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CAMPSTATS_PRETTY_LOG", true),

		DocsDir: getenv("CAMPSTATS_DOCS_DIR", "./docs"),

		MetadataSource:   strings.ToLower(getenv("CAMPSTATS_METADATA_SOURCE", SourceFile)),
		MetadataLocation: getenv("CAMPSTATS_METADATA_LOCATION", ""),

		CategoryCanvasID:   getenv("CAMPSTATS_CATEGORY_CANVAS", "category-doughnut-canvas"),
		ShareBasis:         strings.ToLower(getenv("CAMPSTATS_SHARE_BASIS", ShareBasisCategorized)),
		TechCloudTarget:    getenv("CAMPSTATS_TECH_CLOUD_TARGET", ""),
		TechCloudMaxWords:  mustInt("CAMPSTATS_TECH_CLOUD_MAX_WORDS", 50),
		RateLimitBurst:     mustInt("CAMPSTATS_RATE_LIMIT_BURST", 60),
		RateLimitPerMinute: mustInt("CAMPSTATS_RATE_LIMIT_PER_MINUTE", 120),

		AllowedHosts: splitAndTrim(getenv("CAMPSTATS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("CAMPSTATS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CAMPSTATS_TRUST_PROXY", false),

		Trace: strings.ToLower(getenv("CAMPSTATS_TRACE", TraceNone)),
	}

	// Redis settings are read regardless of the source so CLI overrides can switch to it.
	cfg.RedisAddr = getenv("CAMPSTATS_REDIS_ADDR", "")
	cfg.RedisUser = getenv("CAMPSTATS_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("CAMPSTATS_REDIS_PASSWORD", "")
	cfg.RedisDB = mustInt("CAMPSTATS_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisPoolSize = mustInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)

	return cfg
}

// Validate checks the cross-field rules Load cannot express with defaults.
func (c *Config) Validate() error {
	switch c.MetadataSource {
	case SourceFile, SourceHTTP:
		if c.MetadataLocation == "" {
			return fmt.Errorf("CAMPSTATS_METADATA_LOCATION is required for metadata source %q", c.MetadataSource)
		}
	case SourceRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("CAMPSTATS_REDIS_ADDR is required for metadata source %q", c.MetadataSource)
		}
	default:
		return fmt.Errorf("unknown metadata source %q (want file, http or redis)", c.MetadataSource)
	}

	switch c.ShareBasis {
	case ShareBasisCategorized, ShareBasisAll:
	default:
		return fmt.Errorf("unknown share basis %q (want categorized or all)", c.ShareBasis)
	}

	if c.CategoryCanvasID == "" {
		return fmt.Errorf("CAMPSTATS_CATEGORY_CANVAS must not be empty")
	}
	switch c.Trace {
	case TraceNone, TraceStdout:
	default:
		return fmt.Errorf("unknown CAMPSTATS_TRACE %q (want none or stdout)", c.Trace)
	}

	if c.TechCloudMaxWords < 1 {
		return fmt.Errorf("CAMPSTATS_TECH_CLOUD_MAX_WORDS must be >= 1, got %d", c.TechCloudMaxWords)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %s=%q is not an integer", key, v))
	}
	return i
}

func mustBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %s=%q is not a boolean", key, v))
	}
	return b
}

func mustDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %s=%q is not a duration", key, v))
	}
	return d
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
