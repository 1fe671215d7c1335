package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/campstats/internal/domain"
)

// ErrMetadataNotPublished is returned when the metadata key does not exist.
var ErrMetadataNotPublished = errors.New("metadata not published")

// Store reads the bootcamp metadata from Redis. It never writes: publishing is
// the docs build's job.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore creates a store reading key (KeyMetadata when empty).
func NewStore(client *redis.Client, key string) *Store {
	return &Store{
		client: client,
		key:    MetadataKey(key),
	}
}

// Key returns the Redis key the store reads.
func (s *Store) Key() string {
	return s.key
}

// GetMetadata fetches and decodes the metadata document.
func (s *Store) GetMetadata(ctx context.Context) (domain.Metadata, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s", ErrMetadataNotPublished, s.key)
		}
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var metadata domain.Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return metadata, nil
}
