package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/models"
)

// MongoCacheService is the persistent cache tier: MongoDB documents keyed by
// a fingerprint of the normalized query, fronted by an in-process LRU.
type MongoCacheService struct {
	db           *mongo.Database
	collection   *mongo.Collection
	l1Cache      *lru.Cache[string, *models.ResolveRecord]
	logger       *zap.Logger
	tableVersion string

	totalHits atomic.Int64
	totalMiss atomic.Int64
	l1Hits    atomic.Int64
	l1Miss    atomic.Int64
	mongoHits atomic.Int64
	mongoMiss atomic.Int64
}

// NewMongoCacheService builds the tier and ensures its indexes. Index
// creation failures are logged, not fatal; lookups still work unindexed.
func NewMongoCacheService(db *mongo.Database, l1Size int, tableVersion string, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.ResolveRecord](l1Size)
	if err != nil {
		return nil, fmt.Errorf("create L1 cache: %w", err)
	}

	collection := db.Collection("resolve_cache")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "query_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "table_version", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "last_accessed", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("could not create resolve_cache indexes", zap.Error(err))
	}

	return &MongoCacheService{
		db:           db,
		collection:   collection,
		l1Cache:      l1Cache,
		logger:       logger,
		tableVersion: tableVersion,
	}, nil
}

// Get checks the L1 LRU first, then MongoDB. A MongoDB hit is promoted into
// L1 and its access stats bumped asynchronously.
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.ResolveRecord, bool, error) {
	if record, found := mcs.l1Cache.Get(key); found {
		mcs.l1Hits.Add(1)
		mcs.totalHits.Add(1)
		mcs.logger.Debug("L1 cache hit", zap.String("key", key))
		return record, true, nil
	}
	mcs.l1Miss.Add(1)

	queryHash := mcs.fingerprint(key)

	var entry models.ResolveCache
	err := mcs.collection.FindOne(ctx, bson.M{"query_hash": queryHash}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			mcs.mongoMiss.Add(1)
			mcs.totalMiss.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query mongo cache: %w", err)
	}

	mcs.mongoHits.Add(1)
	mcs.totalHits.Add(1)

	go mcs.updateAccessStats(entry.ID)

	mcs.l1Cache.Add(key, &entry.Result)

	mcs.logger.Debug("mongo cache hit",
		zap.String("key", key),
		zap.String("query_hash", queryHash))

	return &entry.Result, true, nil
}

// Set writes through both tiers.
func (mcs *MongoCacheService) Set(ctx context.Context, key string, record *models.ResolveRecord) error {
	mcs.l1Cache.Add(key, record)

	queryHash := mcs.fingerprint(key)
	entry := models.NewResolveCache(queryHash, record.Input, *record, mcs.tableVersion)

	opts := options.Replace().SetUpsert(true)
	if _, err := mcs.collection.ReplaceOne(ctx, bson.M{"query_hash": queryHash}, entry, opts); err != nil {
		mcs.logger.Error("mongo cache write failed",
			zap.Error(err),
			zap.String("query_hash", queryHash))
		return fmt.Errorf("write mongo cache: %w", err)
	}
	return nil
}

func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)

	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"query_hash": mcs.fingerprint(key)}); err != nil {
		return fmt.Errorf("delete from mongo cache: %w", err)
	}
	return nil
}

func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()

	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear mongo cache: %w", err)
	}

	mcs.totalHits.Store(0)
	mcs.totalMiss.Store(0)
	mcs.l1Hits.Store(0)
	mcs.l1Miss.Store(0)
	mcs.mongoHits.Store(0)
	mcs.mongoMiss.Store(0)
	return nil
}

// InvalidateByTableVersion purges L1 and deletes every document resolved
// against a different reference table.
func (mcs *MongoCacheService) InvalidateByTableVersion(ctx context.Context, tableVersion string) error {
	mcs.l1Cache.Purge()

	filter := bson.M{"table_version": bson.M{"$ne": tableVersion}}
	result, err := mcs.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("invalidate by table version: %w", err)
	}

	mcs.tableVersion = tableVersion
	mcs.logger.Info("invalidated cache",
		zap.String("table_version", tableVersion),
		zap.Int64("deleted_count", result.DeletedCount))
	return nil
}

func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	mongoCount, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count mongo cache documents: %w", err)
	}

	hits := mcs.totalHits.Load()
	miss := mcs.totalMiss.Load()
	hitRate := float64(0)
	if total := hits + miss; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  miss,
		TotalItems: mongoCount,
	}, nil
}

func (mcs *MongoCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if mcs.l1Cache.Contains(key) {
		return true, nil
	}

	count, err := mcs.collection.CountDocuments(ctx, bson.M{"query_hash": mcs.fingerprint(key)})
	if err != nil {
		return false, fmt.Errorf("check mongo cache: %w", err)
	}
	return count > 0, nil
}

// GetTTL always reports zero: the persistent tier keeps entries until they
// are invalidated by a table version change.
func (mcs *MongoCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

// Close is a no-op; the mongo client belongs to the caller.
func (mcs *MongoCacheService) Close() error {
	return nil
}

func (mcs *MongoCacheService) fingerprint(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x", hash)
}

func (mcs *MongoCacheService) updateAccessStats(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}
	if _, err := mcs.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		mcs.logger.Warn("could not update access stats", zap.Error(err))
	}
}

// GetL1Stats exposes the per-tier counters for the admin surface.
func (mcs *MongoCacheService) GetL1Stats() map[string]interface{} {
	return map[string]interface{}{
		"l1_size":    mcs.l1Cache.Len(),
		"l1_hits":    mcs.l1Hits.Load(),
		"l1_miss":    mcs.l1Miss.Load(),
		"mongo_hits": mcs.mongoHits.Load(),
		"mongo_miss": mcs.mongoMiss.Load(),
		"total_hits": mcs.totalHits.Load(),
		"total_miss": mcs.totalMiss.Load(),
	}
}

// WarmUp preloads the most frequently accessed documents into L1.
func (mcs *MongoCacheService) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("warm up cache: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var entry models.ResolveCache
		if err := cursor.Decode(&entry); err != nil {
			mcs.logger.Warn("could not decode cache entry during warm up", zap.Error(err))
			continue
		}

		mcs.l1Cache.Add(entry.Normalized, &entry.Result)
		count++
	}

	mcs.logger.Info("cache warm up complete",
		zap.Int("loaded_items", count),
		zap.Int("l1_size", mcs.l1Cache.Len()))
	return nil
}
