package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/taomoai/tesa-PDA/business/design"

	"github.com/redis/go-redis/v9"
)

// ResultCache stores serialized design responses so repeated identical
// requests skip the enumeration pass.
type ResultCache struct {
	client *redis.Client
}

var _ design.ResultCache = (*ResultCache)(nil)

func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{
		client: client,
	}
}

func (r *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached result: %w", err)
	}

	return val, true, nil
}

func (r *ResultCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, payload, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}

	return nil
}
