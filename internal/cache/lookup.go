// Package cache provides the short-TTL per-path lookup cache sitting between
// the request interceptor and the redirect store.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/abralabs/redirects/internal/redirect"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "redirects:path:"

// Lookup caches positive redirect lookups keyed by the normalized request
// path. Negative results are never cached, so a newly created redirect is
// visible on the next request. Entries expire on TTL only; mutations do not
// proactively invalidate them.
type Lookup struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
}

// NewLookup creates a lookup cache. When enabled is false every call goes
// straight to compute.
func NewLookup(client *redis.Client, ttl time.Duration, enabled bool) *Lookup {
	return &Lookup{
		client:  client,
		ttl:     ttl,
		enabled: enabled && client != nil,
	}
}

// GetOrCompute returns the cached record for path, or invokes compute on a
// miss. Positive results are cached with the configured TTL; ErrNotFound and
// other errors are returned uncached. Cache I/O failures degrade to compute.
func (l *Lookup) GetOrCompute(
	ctx context.Context, path string,
	compute func(context.Context) (*redirect.Record, error),
) (*redirect.Record, error) {
	if !l.enabled {
		return compute(ctx)
	}

	key := l.key(path)

	if data, err := l.client.Get(ctx, key).Bytes(); err == nil {
		var rec redirect.Record
		if json.Unmarshal(data, &rec) == nil {
			return &rec, nil
		}
	}

	rec, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rec); err == nil {
		l.client.Set(ctx, key, data, l.ttl)
	}

	return rec, nil
}

// Has reports whether a cached entry exists for path.
func (l *Lookup) Has(ctx context.Context, path string) bool {
	if !l.enabled {
		return false
	}

	return l.client.Get(ctx, l.key(path)).Err() == nil
}

func (l *Lookup) key(path string) string {
	sum := md5.Sum([]byte(path))

	return keyPrefix + hex.EncodeToString(sum[:])
}
