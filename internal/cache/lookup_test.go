package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abralabs/redirects/internal/cache"
	"github.com/abralabs/redirects/internal/redirect"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookup(t *testing.T, enabled bool) (*cache.Lookup, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return cache.NewLookup(client, time.Hour, enabled), mr
}

func found(rec *redirect.Record) func(context.Context) (*redirect.Record, error) {
	return func(context.Context) (*redirect.Record, error) {
		return rec, nil
	}
}

func notFound() func(context.Context) (*redirect.Record, error) {
	return func(context.Context) (*redirect.Record, error) {
		return nil, redirect.ErrNotFound
	}
}

func TestLookup_GetOrCompute(t *testing.T) {
	ctx := context.Background()
	record := &redirect.Record{ID: "r1", Source: "/old", Destination: "/new", StatusCode: 301}

	t.Run("caches positive results and skips compute on a hit", func(t *testing.T) {
		lookup, _ := newLookup(t, true)

		rec, err := lookup.GetOrCompute(ctx, "/old", found(record))
		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)

		computed := false
		rec, err = lookup.GetOrCompute(ctx, "/old", func(context.Context) (*redirect.Record, error) {
			computed = true
			return nil, redirect.ErrNotFound
		})
		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
		assert.False(t, computed, "cache hit must not invoke compute")
	})

	t.Run("never caches negative results", func(t *testing.T) {
		lookup, _ := newLookup(t, true)

		_, err := lookup.GetOrCompute(ctx, "/missing", notFound())
		assert.ErrorIs(t, err, redirect.ErrNotFound)
		assert.False(t, lookup.Has(ctx, "/missing"))

		// A redirect created after the miss is visible on the next request.
		rec, err := lookup.GetOrCompute(ctx, "/missing", found(record))
		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
	})

	t.Run("does not cache compute errors", func(t *testing.T) {
		lookup, _ := newLookup(t, true)

		boom := errors.New("store exploded")
		_, err := lookup.GetOrCompute(ctx, "/old", func(context.Context) (*redirect.Record, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, lookup.Has(ctx, "/old"))
	})

	t.Run("entries expire on TTL", func(t *testing.T) {
		lookup, mr := newLookup(t, true)

		_, err := lookup.GetOrCompute(ctx, "/old", found(record))
		require.NoError(t, err)
		require.True(t, lookup.Has(ctx, "/old"))

		mr.FastForward(2 * time.Hour)

		assert.False(t, lookup.Has(ctx, "/old"))
	})

	t.Run("disabled cache always computes", func(t *testing.T) {
		lookup, _ := newLookup(t, false)

		calls := 0
		compute := func(context.Context) (*redirect.Record, error) {
			calls++
			return record, nil
		}

		_, err := lookup.GetOrCompute(ctx, "/old", compute)
		require.NoError(t, err)
		_, err = lookup.GetOrCompute(ctx, "/old", compute)
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
		assert.False(t, lookup.Has(ctx, "/old"))
	})

	t.Run("nil client behaves as disabled", func(t *testing.T) {
		lookup := cache.NewLookup(nil, time.Hour, true)

		rec, err := lookup.GetOrCompute(ctx, "/old", found(record))
		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
	})

	t.Run("degrades to compute when redis is down", func(t *testing.T) {
		lookup, mr := newLookup(t, true)
		mr.Close()

		rec, err := lookup.GetOrCompute(ctx, "/old", found(record))
		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
	})
}
