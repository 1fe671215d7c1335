package metadata

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/domain"
	redisstore "github.com/MrSnakeDoc/campstats/internal/store/redis"
)

// Provider supplies the bootcamp metadata. Fetch is called once per navigation
// and may fail; callers decide how to degrade.
type Provider interface {
	Fetch(ctx context.Context) (domain.Metadata, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (domain.Metadata, error)

func (f ProviderFunc) Fetch(ctx context.Context) (domain.Metadata, error) { return f(ctx) }

// New builds the provider selected by cfg.MetadataSource. client is only used
// (and required) for the redis source.
func New(cfg *config.Config, client *goredis.Client) (Provider, error) {
	switch cfg.MetadataSource {
	case config.SourceFile:
		return NewFileProvider(cfg.MetadataLocation), nil
	case config.SourceHTTP:
		return NewHTTPProvider(cfg.MetadataLocation, nil), nil
	case config.SourceRedis:
		if client == nil {
			return nil, fmt.Errorf("redis metadata source needs a redis client")
		}
		return NewRedisProvider(redisstore.NewStore(client, cfg.MetadataLocation)), nil
	default:
		return nil, fmt.Errorf("unknown metadata source %q", cfg.MetadataSource)
	}
}
