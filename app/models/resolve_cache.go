package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResolveCache is the persistent (MongoDB) cache document for a resolution
// result, keyed by a fingerprint of the normalized query.
type ResolveCache struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	QueryHash      string             `bson:"query_hash" json:"query_hash"`           // sha256 of the cache key
	RawQuery       string             `bson:"raw_query" json:"raw_query"`             // original input text
	Normalized     string             `bson:"normalized" json:"normalized"`           // canonicalized address
	Result         ResolveRecord      `bson:"result" json:"result"`                   // full resolution record
	TableVersion   string             `bson:"table_version" json:"table_version"`     // reference table fingerprint
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed   time.Time          `bson:"last_accessed" json:"last_accessed"`
	AccessCount    int                `bson:"access_count" json:"access_count"`
}

// NewResolveCache builds a cache document for a freshly resolved query.
func NewResolveCache(queryHash, rawQuery string, result ResolveRecord, tableVersion string) *ResolveCache {
	now := time.Now()
	return &ResolveCache{
		QueryHash:    queryHash,
		RawQuery:     rawQuery,
		Normalized:   result.Normalized,
		Result:       result,
		TableVersion: tableVersion,
		CreatedAt:    now,
		LastAccessed: now,
		AccessCount:  1,
	}
}

// IsExpired reports whether the entry has outlived its TTL.
func (rc *ResolveCache) IsExpired(ttl time.Duration) bool {
	return time.Since(rc.CreatedAt) > ttl
}
