package services

import (
	"context"
	"time"

	"github.com/pnu-resolver/app/models"
)

// CacheStats is the aggregate view exposed on the admin surface.
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService is implemented by every cache backend: in-process LRU,
// Redis, MongoDB, and the hybrid composition of the latter two.
type ICacheService interface {
	// Get returns the cached record for key, with a hit flag.
	Get(ctx context.Context, key string) (*models.ResolveRecord, bool, error)

	// Set stores the record under key.
	Set(ctx context.Context, key string, record *models.ResolveRecord) error

	// Delete removes one key.
	Delete(ctx context.Context, key string) error

	// Clear removes every cached record.
	Clear(ctx context.Context) error

	// InvalidateByTableVersion drops entries resolved against an older
	// reference table.
	InvalidateByTableVersion(ctx context.Context, tableVersion string) error

	// GetStats returns hit/miss counters.
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists reports whether key is cached without touching counters.
	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL returns the remaining lifetime of key.
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases backend connections where applicable.
	Close() error
}
