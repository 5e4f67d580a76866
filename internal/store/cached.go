package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abralabs/redirects/internal/redirect"
	"github.com/redis/go-redis/v9"
)

// allRecordsKey caches the full collection, distinct from the per-path
// lookup cache.
const allRecordsKey = "redirects:all"

// CachedRepository wraps a Repository with a redis-backed cache of the full
// record collection. Every mutation invalidates the cached collection; Find
// runs the exact-then-wildcard scan over the cached records.
type CachedRepository struct {
	inner  redirect.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository creates a caching decorator around inner.
func NewCachedRepository(inner redirect.Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

// All returns the cached collection, falling back to the inner store on a
// miss. Cache failures are ignored; the inner store is the source of truth.
func (c *CachedRepository) All(ctx context.Context) ([]redirect.Record, error) {
	if data, err := c.client.Get(ctx, allRecordsKey).Bytes(); err == nil {
		var records []redirect.Record
		if json.Unmarshal(data, &records) == nil {
			return records, nil
		}
	}

	records, err := c.inner.All(ctx)
	if err != nil {
		return records, err
	}

	if data, err := json.Marshal(records); err == nil {
		c.client.Set(ctx, allRecordsKey, data, c.ttl)
	}

	return records, nil
}

// Find matches against the cached collection, exact matches first.
func (c *CachedRepository) Find(ctx context.Context, source string) (*redirect.Record, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	if rec := redirect.MatchRecords(records, source); rec != nil {
		return rec, nil
	}

	return nil, redirect.ErrNotFound
}

// Store delegates to the inner store and invalidates the cached collection.
func (c *CachedRepository) Store(ctx context.Context, data redirect.CreateData) (*redirect.Record, error) {
	rec, err := c.inner.Store(ctx, data)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx)

	return rec, nil
}

// Update delegates to the inner store and invalidates the cached collection.
func (c *CachedRepository) Update(ctx context.Context, id string, data redirect.UpdateData) (*redirect.Record, error) {
	rec, err := c.inner.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx)

	return rec, nil
}

// Delete delegates to the inner store and invalidates the cached collection
// when a record was removed.
func (c *CachedRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := c.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		c.invalidate(ctx)
	}

	return deleted, nil
}

// Exists delegates to the inner store, which is authoritative.
func (c *CachedRepository) Exists(ctx context.Context, source, excludeID string) (bool, error) {
	return c.inner.Exists(ctx, source, excludeID)
}

// Ping delegates health checks to the inner store when it supports them.
func (c *CachedRepository) Ping(ctx context.Context) error {
	if p, ok := c.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}

	return nil
}

func (c *CachedRepository) invalidate(ctx context.Context) {
	c.client.Del(ctx, allRecordsKey)
}

// Compile-time check.
var _ redirect.Repository = (*CachedRepository)(nil)
