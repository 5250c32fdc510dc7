package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys for the catalog listings; dropped on every admin mutation
const (
	BooksCacheKey   = "catalog:books"   // Cached book listing
	AuthorsCacheKey = "catalog:authors" // Cached author listing
)

// CatalogCacheTTL bounds how stale a cached listing can get even if an
// invalidation is lost
const CatalogCacheTTL = 60 * time.Second

// GetCache retrieves a value from Redis and unmarshals it into dest.
// The boolean reports whether the key existed.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache stores a JSON-encoded value in Redis with a TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DropCache deletes the given keys; used after catalog mutations so the
// next listing request reads fresh rows
func DropCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}
