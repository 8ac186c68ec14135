package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AdminService backs the operational endpoints: system stats, cache
// invalidation, data export. db is nil in memory-only deployments and the
// Mongo-backed operations degrade accordingly.
type AdminService struct {
	db       *mongo.Database
	resolver *ResolveService
	cache    ICacheService
	logger   *zap.Logger
}

// SystemStats is the admin stats payload.
type SystemStats struct {
	TableVersion  string                 `json:"table_version"`
	IndexRows     int                    `json:"index_rows"`
	Uptime        string                 `json:"uptime"`
	MemoryUsage   map[string]interface{} `json:"memory_usage"`
	CacheStats    *CacheStats            `json:"cache_stats,omitempty"`
	DatabaseStats *DatabaseStats         `json:"database_stats,omitempty"`
}

// DatabaseStats counts the Mongo collections the resolver writes to.
type DatabaseStats struct {
	ResolveCache int64 `json:"resolve_cache"`
}

func NewAdminService(db *mongo.Database, resolver *ResolveService, cache ICacheService, logger *zap.Logger) *AdminService {
	return &AdminService{
		db:       db,
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

// GetSystemStats assembles the admin stats view.
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		TableVersion: as.resolver.TableVersion(),
		IndexRows:    as.resolver.IndexSize(),
		Uptime:       time.Since(as.resolver.GetStartTime()).Round(time.Second).String(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}

	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			as.logger.Warn("could not read cache stats", zap.Error(err))
		} else {
			stats.CacheStats = cacheStats
		}
	}

	if as.db != nil {
		dbStats, err := as.getDatabaseStats(ctx)
		if err != nil {
			as.logger.Warn("could not read database stats", zap.Error(err))
		} else {
			stats.DatabaseStats = dbStats
		}
	}

	return stats, nil
}

func (as *AdminService) getDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	count, err := as.db.Collection("resolve_cache").CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return &DatabaseStats{ResolveCache: count}, nil
}

// InvalidateCache drops cached results that predate the current reference
// table.
func (as *AdminService) InvalidateCache(ctx context.Context) error {
	if as.cache == nil {
		return errors.New("no cache configured")
	}
	return as.cache.InvalidateByTableVersion(ctx, as.resolver.TableVersion())
}

// ClearCache drops every cached result.
func (as *AdminService) ClearCache(ctx context.Context) error {
	if as.cache == nil {
		return errors.New("no cache configured")
	}
	return as.cache.Clear(ctx)
}

// ExportData dumps a Mongo collection for backup. Only JSON is supported.
func (as *AdminService) ExportData(ctx context.Context, dataType string, limit int) ([]byte, error) {
	if as.db == nil {
		return nil, errors.New("no database configured")
	}

	var collection *mongo.Collection
	switch dataType {
	case "resolve_cache":
		collection = as.db.Collection("resolve_cache")
	default:
		return nil, fmt.Errorf("unsupported data type %q", dataType)
	}

	findOptions := options.Find().SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("query data: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return json.MarshalIndent(results, "", "  ")
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
