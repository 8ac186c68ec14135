package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pnu-resolver/app/models"
)

// MemoryCacheService is the in-process cache backend: a fixed-size LRU with
// per-entry TTL. The default for single-instance deployments.
type MemoryCacheService struct {
	lru  *expirable.LRU[string, *models.ResolveRecord]
	ttl  time.Duration
	hits atomic.Int64
	miss atomic.Int64
}

// NewMemoryCacheService builds the backend. size caps the entry count, ttl
// bounds entry lifetime.
func NewMemoryCacheService(size int, ttl time.Duration) *MemoryCacheService {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCacheService{
		lru: expirable.NewLRU[string, *models.ResolveRecord](size, nil, ttl),
		ttl: ttl,
	}
}

func (cs *MemoryCacheService) Get(ctx context.Context, key string) (*models.ResolveRecord, bool, error) {
	if rec, ok := cs.lru.Get(key); ok {
		cs.hits.Add(1)
		return rec, true, nil
	}
	cs.miss.Add(1)
	return nil, false, nil
}

func (cs *MemoryCacheService) Set(ctx context.Context, key string, record *models.ResolveRecord) error {
	cs.lru.Add(key, record)
	return nil
}

func (cs *MemoryCacheService) Delete(ctx context.Context, key string) error {
	cs.lru.Remove(key)
	return nil
}

func (cs *MemoryCacheService) Clear(ctx context.Context) error {
	cs.lru.Purge()
	return nil
}

// InvalidateByTableVersion drops everything: memory entries carry no table
// version, so a version change can only be handled by a full purge.
func (cs *MemoryCacheService) InvalidateByTableVersion(ctx context.Context, tableVersion string) error {
	cs.lru.Purge()
	return nil
}

func (cs *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := cs.hits.Load()
	miss := cs.miss.Load()
	stats := &CacheStats{
		TotalHits:  hits,
		TotalMiss:  miss,
		TotalItems: int64(cs.lru.Len()),
	}
	if total := hits + miss; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

func (cs *MemoryCacheService) Exists(ctx context.Context, key string) (bool, error) {
	return cs.lru.Contains(key), nil
}

// GetTTL returns the configured TTL for present keys; the LRU does not
// expose per-entry deadlines.
func (cs *MemoryCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	if cs.lru.Contains(key) {
		return cs.ttl, nil
	}
	return 0, nil
}

func (cs *MemoryCacheService) Close() error {
	return nil
}
