package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestCacheRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	type listing struct {
		Titles []string `json:"titles"`
	}
	want := listing{Titles: []string{"Eugene Onegin", "Dead Souls"}}
	if err := SetCache(ctx, rdb, BooksCacheKey, want, CatalogCacheTTL); err != nil {
		t.Fatalf("set cache: %v", err)
	}

	var got listing
	found, err := GetCache(ctx, rdb, BooksCacheKey, &got)
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if !found {
		t.Fatalf("expected cache hit")
	}
	if len(got.Titles) != 2 || got.Titles[0] != "Eugene Onegin" {
		t.Fatalf("cache returned %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	rdb := newTestRedis(t)

	var got any
	found, err := GetCache(context.Background(), rdb, "missing", &got)
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if found {
		t.Fatalf("expected cache miss")
	}
}

func TestDropCache(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	if err := SetCache(ctx, rdb, BooksCacheKey, []string{"x"}, time.Minute); err != nil {
		t.Fatalf("set books: %v", err)
	}
	if err := SetCache(ctx, rdb, AuthorsCacheKey, []string{"y"}, time.Minute); err != nil {
		t.Fatalf("set authors: %v", err)
	}
	if err := DropCache(ctx, rdb, BooksCacheKey, AuthorsCacheKey); err != nil {
		t.Fatalf("drop cache: %v", err)
	}
	var got any
	for _, key := range []string{BooksCacheKey, AuthorsCacheKey} {
		found, err := GetCache(ctx, rdb, key, &got)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if found {
			t.Fatalf("%s survived the drop", key)
		}
	}
}
