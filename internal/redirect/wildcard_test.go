package redirect_test

import (
	"testing"

	"github.com/abralabs/redirects/internal/redirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	t.Run("trailing wildcard matches base and everything under it", func(t *testing.T) {
		m := redirect.CompilePattern("/blog/*")

		assert.True(t, m.Match("/blog"))
		assert.True(t, m.Match(redirect.NormalizePath("/blog/")))
		assert.True(t, m.Match("/blog/x"))
		assert.True(t, m.Match("/blog/x/y"))

		assert.False(t, m.Match("/blog-archive"))
		assert.False(t, m.Match("/other/blog"))
	})

	t.Run("mid-pattern wildcard matches across one position only when surrounded", func(t *testing.T) {
		m := redirect.CompilePattern("/blog/*/comments")

		assert.True(t, m.Match("/blog/post-1/comments"))
		assert.True(t, m.Match("/blog/a/b/comments"))

		assert.False(t, m.Match("/blog/comments"))
		assert.False(t, m.Match("/blog/post-1/replies"))
	})

	t.Run("leading wildcard", func(t *testing.T) {
		m := redirect.CompilePattern("*/legacy")

		assert.True(t, m.Match("/anything/legacy"))
		assert.False(t, m.Match("/anything/legacy/more"))
	})

	t.Run("no wildcard degenerates to exact match", func(t *testing.T) {
		m := redirect.CompilePattern("/about")

		assert.True(t, m.Match("/about"))
		assert.False(t, m.Match("/about/us"))
		assert.False(t, m.Match("/abouts"))
	})

	t.Run("regex metacharacters are treated literally", func(t *testing.T) {
		m := redirect.CompilePattern("/price(usd)+tax")

		assert.True(t, m.Match("/price(usd)+tax"))
		assert.False(t, m.Match("/priceusdtax"))
	})

	t.Run("empty pattern matches root only", func(t *testing.T) {
		m := redirect.CompilePattern("")

		assert.True(t, m.Match("/"))
		assert.False(t, m.Match("/a"))
	})

	t.Run("root wildcard matches everything", func(t *testing.T) {
		m := redirect.CompilePattern("/*")

		assert.True(t, m.Match("/"))
		assert.True(t, m.Match("/a"))
		assert.True(t, m.Match("/a/b/c"))
	})

	t.Run("pattern is normalized before compiling", func(t *testing.T) {
		m := redirect.CompilePattern("/docs/")

		assert.True(t, m.Match("/docs"))
		assert.False(t, m.Match("/docs/intro"))
	})
}

func TestMatchRecords(t *testing.T) {
	t.Run("exact match wins over wildcard regardless of order", func(t *testing.T) {
		records := []redirect.Record{
			{ID: "wild", Source: "/blog/*", Destination: "/articles"},
			{ID: "exact", Source: "/blog/special", Destination: "/featured"},
		}

		rec := redirect.MatchRecords(records, "/blog/special")

		require.NotNil(t, rec)
		assert.Equal(t, "exact", rec.ID)
	})

	t.Run("falls back to first wildcard match in listed order", func(t *testing.T) {
		records := []redirect.Record{
			{ID: "first", Source: "/blog/*", Destination: "/articles"},
			{ID: "second", Source: "/*", Destination: "/home"},
		}

		rec := redirect.MatchRecords(records, "/blog/my-post")

		require.NotNil(t, rec)
		assert.Equal(t, "first", rec.ID)
	})

	t.Run("candidate path is normalized", func(t *testing.T) {
		records := []redirect.Record{
			{ID: "exact", Source: "/old", Destination: "/new"},
		}

		rec := redirect.MatchRecords(records, "/old/")

		require.NotNil(t, rec)
		assert.Equal(t, "exact", rec.ID)
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		records := []redirect.Record{
			{ID: "exact", Source: "/old", Destination: "/new"},
		}

		assert.Nil(t, redirect.MatchRecords(records, "/missing"))
	})

	t.Run("literal source without wildcard never matches loosely", func(t *testing.T) {
		records := []redirect.Record{
			{ID: "exact", Source: "/old", Destination: "/new"},
		}

		assert.Nil(t, redirect.MatchRecords(records, "/old/sub"))
	})
}
