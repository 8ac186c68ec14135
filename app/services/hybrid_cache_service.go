package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pnu-resolver/app/models"
)

// HybridCacheService layers Redis (fast, volatile) over MongoDB
// (persistent). Reads promote MongoDB hits back into Redis; writes go to
// both tiers in parallel.
type HybridCacheService struct {
	redisCache *RedisCacheService
	mongoCache *MongoCacheService
	logger     *zap.Logger
}

func NewHybridCacheService(redisCache *RedisCacheService, mongoCache *MongoCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		redisCache: redisCache,
		mongoCache: mongoCache,
		logger:     logger,
	}
}

// Get reads Redis first; a Redis error degrades to MongoDB instead of
// failing the lookup.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.ResolveRecord, bool, error) {
	record, found, err := hcs.redisCache.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis cache error, falling back to mongo", zap.Error(err))
	} else if found {
		return record, true, nil
	}

	record, found, err = hcs.mongoCache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	// Promote the persistent hit so the next lookup stays in Redis.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hcs.redisCache.Set(bgCtx, key, record); err != nil {
			hcs.logger.Warn("mongo->redis promotion failed", zap.Error(err), zap.String("key", key))
		}
	}()

	return record, true, nil
}

func (hcs *HybridCacheService) Set(ctx context.Context, key string, record *models.ResolveRecord) error {
	errCh := make(chan error, 2)

	go func() {
		err := hcs.redisCache.Set(ctx, key, record)
		if err != nil {
			hcs.logger.Warn("redis cache write failed", zap.Error(err))
		}
		errCh <- err
	}()

	go func() {
		err := hcs.mongoCache.Set(ctx, key, record)
		if err != nil {
			hcs.logger.Warn("mongo cache write failed", zap.Error(err))
		}
		errCh <- err
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cache errors: %v", errs)
	}
	return nil
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	errCh := make(chan error, 2)

	go func() { errCh <- hcs.redisCache.Delete(ctx, key) }()
	go func() { errCh <- hcs.mongoCache.Delete(ctx, key) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete errors: %v", errs)
	}
	return nil
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() { errCh <- hcs.redisCache.Clear(ctx) }()
	go func() { errCh <- hcs.mongoCache.Clear(ctx) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear errors: %v", errs)
	}

	hcs.logger.Info("cleared hybrid cache")
	return nil
}

func (hcs *HybridCacheService) InvalidateByTableVersion(ctx context.Context, tableVersion string) error {
	errCh := make(chan error, 2)

	go func() { errCh <- hcs.redisCache.InvalidateByTableVersion(ctx, tableVersion) }()
	go func() { errCh <- hcs.mongoCache.InvalidateByTableVersion(ctx, tableVersion) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalidate errors: %v", errs)
	}

	hcs.logger.Info("invalidated hybrid cache", zap.String("table_version", tableVersion))
	return nil
}

// GetStats merges both tiers; one failing tier degrades to the other.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	redisStats, redisErr := hcs.redisCache.GetStats(ctx)
	mongoStats, mongoErr := hcs.mongoCache.GetStats(ctx)

	if redisErr != nil && mongoErr != nil {
		return nil, fmt.Errorf("both cache tiers failed: %v, %v", redisErr, mongoErr)
	}

	combined := &CacheStats{}
	switch {
	case redisErr == nil && mongoErr == nil:
		totalHits := redisStats.TotalHits + mongoStats.TotalHits
		totalMiss := redisStats.TotalMiss + mongoStats.TotalMiss
		if total := totalHits + totalMiss; total > 0 {
			combined.HitRate = float64(totalHits) / float64(total)
		}
		combined.TotalHits = totalHits
		combined.TotalMiss = totalMiss
		combined.TotalItems = redisStats.TotalItems + mongoStats.TotalItems
	case redisErr == nil:
		*combined = *redisStats
	default:
		*combined = *mongoStats
	}

	return combined, nil
}

func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.redisCache.Exists(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis exists check failed, falling back to mongo", zap.Error(err))
	} else if exists {
		return true, nil
	}

	return hcs.mongoCache.Exists(ctx, key)
}

// GetTTL reports the Redis tier; the persistent tier has no expiry.
func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.redisCache.GetTTL(ctx, key)
}

func (hcs *HybridCacheService) Close() error {
	errCh := make(chan error, 2)

	go func() { errCh <- hcs.redisCache.Close() }()
	go func() { errCh <- hcs.mongoCache.Close() }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// WarmUpFromMongoDB preloads the persistent tier's hottest entries into its
// in-process LRU.
func (hcs *HybridCacheService) WarmUpFromMongoDB(ctx context.Context, limit int) error {
	return hcs.mongoCache.WarmUp(ctx, limit)
}
