package metadata

import (
	"context"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	redisstore "github.com/MrSnakeDoc/campstats/internal/store/redis"
)

var _ MetadataReader = (*redisstore.Store)(nil)

// MetadataReader is the read side of a metadata store, such as *redisstore.Store.
type MetadataReader interface {
	GetMetadata(ctx context.Context) (domain.Metadata, error)
}

// RedisProvider reads the metadata document the docs build stored in Redis.
type RedisProvider struct {
	store MetadataReader
}

// NewRedisProvider wraps a store (usually *redisstore.Store).
func NewRedisProvider(store MetadataReader) *RedisProvider {
	return &RedisProvider{store: store}
}

func (p *RedisProvider) Fetch(ctx context.Context) (domain.Metadata, error) {
	return p.store.GetMetadata(ctx)
}
