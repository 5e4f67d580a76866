package handlers_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abralabs/redirects/internal/handlers"
	"github.com/abralabs/redirects/internal/redirect"
	"github.com/abralabs/redirects/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*handlers.RedirectHandler, redirect.Repository) {
	t.Helper()

	repo, err := store.NewFileRepository(filepath.Join(t.TempDir(), "redirects.yaml"))
	require.NoError(t, err)

	return handlers.NewRedirectHandler(repo, zap.NewNop()), repo
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func createReq(source, destination string, statusCode int) *handlers.CreateRedirectRequest {
	req := &handlers.CreateRedirectRequest{}
	req.Body.Source = source
	req.Body.Destination = destination
	req.Body.StatusCode = statusCode

	return req
}

func TestRedirectHandler_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a redirect with defaults", func(t *testing.T) {
		h, _ := newTestHandler(t)

		resp, err := h.Create(ctx, createReq("/old", "/new", 0))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.ID)
		assert.Equal(t, "/old", resp.Body.Source)
		assert.Equal(t, 301, resp.Body.StatusCode)
	})

	t.Run("rejects duplicate sources with 409", func(t *testing.T) {
		h, _ := newTestHandler(t)

		_, err := h.Create(ctx, createReq("/old", "/new", 0))
		require.NoError(t, err)

		_, err = h.Create(ctx, createReq("/old/", "/elsewhere", 0))
		assert.Equal(t, 409, statusOf(t, err))
	})

	t.Run("rejects status codes outside the enumeration", func(t *testing.T) {
		h, _ := newTestHandler(t)

		_, err := h.Create(ctx, createReq("/old", "/new", 418))
		assert.Equal(t, 422, statusOf(t, err))
	})
}

func TestRedirectHandler_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists redirects with the status-code options", func(t *testing.T) {
		h, _ := newTestHandler(t)

		_, err := h.Create(ctx, createReq("/old", "/new", 302))
		require.NoError(t, err)

		resp, err := h.List(ctx, nil)
		require.NoError(t, err)

		require.Len(t, resp.Body.Redirects, 1)
		assert.Equal(t, "/old", resp.Body.Redirects[0].Source)

		require.Len(t, resp.Body.StatusCodes, 4)
		assert.Equal(t, 301, resp.Body.StatusCodes[0].Code)
		assert.Equal(t, "301 - Permanent", resp.Body.StatusCodes[0].Label)
	})
}

func TestRedirectHandler_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record by id", func(t *testing.T) {
		h, _ := newTestHandler(t)

		created, err := h.Create(ctx, createReq("/old", "/new", 0))
		require.NoError(t, err)

		resp, err := h.Get(ctx, &handlers.GetRedirectRequest{ID: created.Body.ID})
		require.NoError(t, err)
		assert.Equal(t, "/old", resp.Body.Source)
	})

	t.Run("404 for a missing id", func(t *testing.T) {
		h, _ := newTestHandler(t)

		_, err := h.Get(ctx, &handlers.GetRedirectRequest{ID: "missing"})
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestRedirectHandler_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a partial update", func(t *testing.T) {
		h, _ := newTestHandler(t)

		created, err := h.Create(ctx, createReq("/old", "/new", 0))
		require.NoError(t, err)

		destination := "/elsewhere"
		req := &handlers.UpdateRedirectRequest{ID: created.Body.ID}
		req.Body.Destination = &destination

		resp, err := h.Update(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "/old", resp.Body.Source)
		assert.Equal(t, "/elsewhere", resp.Body.Destination)
	})

	t.Run("404 for a missing id", func(t *testing.T) {
		h, _ := newTestHandler(t)

		destination := "/x"
		req := &handlers.UpdateRedirectRequest{ID: "missing"}
		req.Body.Destination = &destination

		_, err := h.Update(ctx, req)
		assert.Equal(t, 404, statusOf(t, err))
	})

	t.Run("409 when the new source collides", func(t *testing.T) {
		h, _ := newTestHandler(t)

		_, err := h.Create(ctx, createReq("/taken", "/a", 0))
		require.NoError(t, err)
		created, err := h.Create(ctx, createReq("/old", "/b", 0))
		require.NoError(t, err)

		source := "/taken"
		req := &handlers.UpdateRedirectRequest{ID: created.Body.ID}
		req.Body.Source = &source

		_, err = h.Update(ctx, req)
		assert.Equal(t, 409, statusOf(t, err))
	})

	t.Run("updating a record to its own source is allowed", func(t *testing.T) {
		h, _ := newTestHandler(t)

		created, err := h.Create(ctx, createReq("/old", "/a", 0))
		require.NoError(t, err)

		source := "/old"
		code := 307
		req := &handlers.UpdateRedirectRequest{ID: created.Body.ID}
		req.Body.Source = &source
		req.Body.StatusCode = &code

		resp, err := h.Update(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 307, resp.Body.StatusCode)
	})
}

func TestRedirectHandler_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and is idempotent", func(t *testing.T) {
		h, repo := newTestHandler(t)

		created, err := h.Create(ctx, createReq("/old", "/new", 0))
		require.NoError(t, err)

		_, err = h.Delete(ctx, &handlers.DeleteRedirectRequest{ID: created.Body.ID})
		require.NoError(t, err)

		_, err = repo.Find(ctx, "/old")
		assert.ErrorIs(t, err, redirect.ErrNotFound)

		_, err = h.Delete(ctx, &handlers.DeleteRedirectRequest{ID: created.Body.ID})
		assert.NoError(t, err)
	})
}
