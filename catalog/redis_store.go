package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-browser/models"
)

const keyPrefix = "catalog:dataset:"

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("catalog: redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps datasets as JSON so several processes can share one load.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by client. A zero ttl keeps entries
// until they are deleted.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.Dataset, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get: %w", err)
	}

	ds := &models.Dataset{}
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, false, fmt.Errorf("redis: decode dataset: %w", err)
	}
	return ds, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, ds *models.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("redis: encode dataset: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis: del: %w", err)
	}
	return nil
}
