package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/redis"
)

const scanBatchSize = 100

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{
		client: client,
	}
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// Set stores a value in cache with expiration
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// DeletePattern removes every key matching pattern using SCAN so the server
// is never blocked by KEYS.
func (a *RedisAdapter) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := a.client.Client().Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := a.client.Client().Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// SetNX stores a value only when the key is absent
func (a *RedisAdapter) SetNX(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	expiration := time.Duration(expirationSeconds) * time.Second
	ok, err := a.client.Client().SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set-if-absent in cache: %w", err)
	}
	return ok, nil
}

// KEYS[1] key, ARGV[1] expected, ARGV[2] value, ARGV[3] expiration seconds
var compareAndSwapScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// CompareAndSwap replaces the value only while the key still holds expected
func (a *RedisAdapter) CompareAndSwap(ctx context.Context, key string, expected, value []byte, expirationSeconds int) (bool, error) {
	swapped, err := compareAndSwapScript.Run(ctx, a.client.Client(), []string{key}, expected, value, expirationSeconds).Int()
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-swap in cache: %w", err)
	}
	return swapped == 1, nil
}
