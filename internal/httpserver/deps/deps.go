package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/campstats/internal/lifecycle"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/site"
	"github.com/MrSnakeDoc/campstats/internal/snapshot"
	"github.com/MrSnakeDoc/campstats/internal/sources/metadata"
)

type Deps struct {
	Logger             logger.Logger
	StartTime          time.Time
	Version            string
	Commit             string
	BuildDate          string
	GoVersion          string
	TimeNow            func() time.Time  // for testing, defaults to time.Now
	AllowedHosts       []string          // Host headers allowed to browse the docs
	AllowedCIDRS       []string          // IPs allowed to access healthz/readyz/infra endpoints
	TrustProxy         bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst     int               // page requests allowed in a burst per client IP
	RateLimitPerMinute int               // refill rate per client IP
	Site               *site.Site        // markdown pages
	Hook               *lifecycle.Hook   // fetch-then-render lifecycle of a page
	Provider           metadata.Provider // metadata source for the JSON API
	Tracker            *snapshot.Tracker // latest committed navigation
	MetadataSource     string            // "file" | "http" | "redis"
	RedisClient        *redis.Client     // nil unless the metadata lives in redis
}
