package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/models"
)

// RedisCacheService is the shared cache tier: fast, volatile, fronting the
// persistent MongoDB tier in a hybrid setup.
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService connects and pings; a Redis that cannot be reached
// at startup is a configuration error, not something to limp along with.
func NewRedisCacheService(redisURL string, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: "pnu_resolver:",
		ttl:    24 * time.Hour,
	}, nil
}

func (rcs *RedisCacheService) Get(ctx context.Context, key string) (*models.ResolveRecord, bool, error) {
	cacheKey := rcs.prefix + key

	val, err := rcs.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		rcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("redis get failed", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	var record models.ResolveRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		rcs.logger.Error("unmarshal cached record failed", zap.Error(err))
		return nil, false, err
	}

	rcs.hits.Add(1)
	rcs.logger.Debug("redis cache hit", zap.String("key", key))
	return &record, true, nil
}

func (rcs *RedisCacheService) Set(ctx context.Context, key string, record *models.ResolveRecord) error {
	cacheKey := rcs.prefix + key

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := rcs.client.Set(ctx, cacheKey, data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("redis set failed", zap.Error(err), zap.String("key", cacheKey))
		return err
	}
	return nil
}

func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	if err := rcs.client.Del(ctx, rcs.prefix+key).Err(); err != nil {
		rcs.logger.Error("redis delete failed", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result()
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := rcs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cache keys: %w", err)
		}
	}

	rcs.logger.Info("cleared redis cache", zap.Int("keys_deleted", len(keys)))
	return nil
}

// InvalidateByTableVersion clears everything: keys do not carry the table
// version, so a version bump invalidates the whole tier.
func (rcs *RedisCacheService) InvalidateByTableVersion(ctx context.Context, tableVersion string) error {
	return rcs.Clear(ctx)
}

func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := rcs.hits.Load()
	misses := rcs.misses.Load()

	stats := &CacheStats{
		TotalHits: hits,
		TotalMiss: misses,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	if keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result(); err == nil {
		stats.TotalItems = int64(len(keys))
	}
	return stats, nil
}

func (rcs *RedisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rcs.client.Exists(ctx, rcs.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (rcs *RedisCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return rcs.client.TTL(ctx, rcs.prefix+key).Result()
}

func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}

// SetTTL overrides the default entry lifetime.
func (rcs *RedisCacheService) SetTTL(ttl time.Duration) {
	rcs.ttl = ttl
}
