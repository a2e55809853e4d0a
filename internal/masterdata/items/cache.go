package items

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKeyPrefix = "catalog:supplier:"

// Cache keeps the per-supplier catalog slices in Redis so draft catalog
// listings do not hit Postgres on every keystroke. Concurrent misses for the
// same supplier are collapsed into one repository query.
type Cache struct {
	rdb   *redis.Client
	repo  Repository
	ttl   time.Duration
	group singleflight.Group
}

func NewCache(rdb *redis.Client, repo Repository, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, repo: repo, ttl: ttl}
}

func catalogKey(supplierID int64) string {
	return fmt.Sprintf("%s%d", catalogKeyPrefix, supplierID)
}

// SupplierItems returns the enabled items of one supplier, from cache when
// possible.
func (c *Cache) SupplierItems(ctx context.Context, supplierID int64) ([]Item, error) {
	key := catalogKey(supplierID)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Item
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Unreadable payload, fall through to a rebuild.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		return nil, fmt.Errorf("items: read catalog cache: %w", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		result, err := c.repo.ListBySupplier(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		c.fill(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Item), nil
}

// Refresh rebuilds one supplier's cache entry from the repository.
func (c *Cache) Refresh(ctx context.Context, supplierID int64) error {
	result, err := c.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return err
	}
	c.fill(ctx, catalogKey(supplierID), result)
	return nil
}

// Invalidate drops one supplier's cache entry. Called after item writes.
func (c *Cache) Invalidate(ctx context.Context, supplierID int64) {
	c.rdb.Del(ctx, catalogKey(supplierID))
}

func (c *Cache) fill(ctx context.Context, key string, result []Item) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}
