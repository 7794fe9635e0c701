package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"slotwise/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanBatch             = 100
	Nil                   = redis.Nil
)

// RedisCache stores JSON values with a TTL in seconds. Get wraps Nil on a miss.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, ttl int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Incr(ctx context.Context, key string, ttl int) (count int64, err error)
	Clear(ctx context.Context, pattern string) (err error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, otel otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   otel,
	}
}

func (cache *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

func ttlOf(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func (cache *redisCache) Save(ctx context.Context, key string, value any, ttl int) (err error) {
	ctx, scope := cache.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var raw []byte

	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		if raw, err = json.Marshal(v); err != nil {
			return fmt.Errorf("failed to encode cache value %s: %w", key, err)
		}
	}

	if err = cache.client.Set(ctx, key, raw, ttlOf(ttl)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to write cache")

		return fmt.Errorf("failed to write cache value %s: %w", key, err)
	}

	return nil
}

// Get decodes the value at key into value. A *string receives the raw value.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.scope(ctx, "Get", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("failed to read cache value %s: %w", key, err)
	}

	if v, ok := value.(*string); ok {
		*v = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Undecodable cache value")

		return fmt.Errorf("failed to decode cache value %s: %w", key, err)
	}

	return nil
}

// Incr increments the counter at key. The first increment starts its TTL and
// later ones leave it running.
func (cache *redisCache) Incr(ctx context.Context, key string, ttl int) (count int64, err error) {
	ctx, scope := cache.scope(ctx, "Incr", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var incr *redis.IntCmd

	_, err = cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttlOf(ttl))

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}

	return incr.Val(), nil
}

// Clear deletes every key matching pattern.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := cache.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		cursor  uint64
		keys    []string
		removed int
	)

	for {
		keys, cursor, err = cache.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err = cache.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", pattern, err)
			}

			removed += len(keys)
		}

		if cursor == 0 {
			break
		}
	}

	log.Debug().Str("pattern", pattern).Int("removed", removed).Msg("Cache cleared")

	return nil
}
