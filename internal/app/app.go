package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/httpserver"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/lifecycle"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/redis"
	"github.com/MrSnakeDoc/campstats/internal/site"
	"github.com/MrSnakeDoc/campstats/internal/snapshot"
	"github.com/MrSnakeDoc/campstats/internal/telemetry"
	"github.com/MrSnakeDoc/campstats/internal/sources/metadata"
	"github.com/MrSnakeDoc/campstats/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	stopTracing telemetry.Shutdown
}

// NewProvider builds the configured metadata provider. The returned redis
// client is nil unless the metadata lives in redis; the caller closes it.
func NewProvider(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (metadata.Provider, *goredis.Client, error) {
	var redisClient *goredis.Client
	if cfg.MetadataSource == config.SourceRedis {
		// Fail fast if redis never comes up
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
	}

	provider, err := metadata.New(cfg, redisClient)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, nil, err
	}
	return provider, redisClient, nil
}

func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Before the hook so its tracer comes from the installed provider.
	stopTracing, err := telemetry.Setup(cfg.Trace, os.Stdout, loggerClient)
	if err != nil {
		return nil, err
	}

	provider, redisClient, err := NewProvider(context.Background(), cfg, loggerClient)
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, err
	}
	loggerClient.Info("metadata provider ready",
		logger.String("source", cfg.MetadataSource),
		logger.String("location", cfg.MetadataLocation))

	if cfg.TechCloudTarget != "" {
		loggerClient.Info("technology cloud enabled on the stats page",
			logger.String("target", cfg.TechCloudTarget),
			logger.Int("max_words", cfg.TechCloudMaxWords))
	}

	tracker := snapshot.New()
	hook := lifecycle.New(provider, tracker, loggerClient, lifecycle.OptionsFromConfig(cfg))

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Site:               site.New(cfg.DocsDir),
		Hook:               hook,
		Provider:           provider,
		Tracker:            tracker,
		MetadataSource:     cfg.MetadataSource,
		RedisClient:        redisClient,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		stopTracing: stopTracing,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting campstats v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())
	a.logger.Info("serving docs", logger.String("dir", a.cfg.DocsDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.closeRedis()
		a.flushTraces(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeRedis()
	a.flushTraces(shutdownCtx)

	a.logger.Info("✅ campstats stopped cleanly")
	return nil
}

func (a *App) closeRedis() {
	if a.redisClient == nil {
		return
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Warnf("failed to close redis: %v", err)
	} else {
		a.logger.Info("✅ Redis closed cleanly")
	}
}

func (a *App) flushTraces(ctx context.Context) {
	if err := a.stopTracing(ctx); err != nil {
		a.logger.Warn("failed to flush traces", logger.Error(err))
	}
}
