// Package middleware contains the HTTP middleware that intercepts inbound
// requests and issues redirects for matching paths.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/abralabs/redirects/internal/cache"
	"github.com/abralabs/redirects/internal/redirect"
	"go.uber.org/zap"
)

// Redirects returns middleware that checks every non-admin request against
// the redirect store and issues a redirect on a match. Lookups go through the
// per-path cache; store read failures degrade to pass-through so that site
// traffic never depends on redirect-store availability.
//
// A deleted or changed redirect may still be served from the path cache until
// its TTL expires; only the store-level collection cache is invalidated on
// mutation.
func Redirects(
	repo redirect.Repository,
	lookup *cache.Lookup,
	adminPrefix string,
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	prefix := normalizePrefix(adminPrefix)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Admin-area requests never consult the store.
			if isAdminPath(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			path := normalizeRequestPath(r.URL.Path)

			rec, err := lookup.GetOrCompute(r.Context(), path, func(ctx context.Context) (*redirect.Record, error) {
				return repo.Find(ctx, path)
			})
			if err != nil {
				if !errors.Is(err, redirect.ErrNotFound) {
					logger.Error("redirect lookup failed",
						zap.String("path", path),
						zap.Error(err),
					)
				}

				next.ServeHTTP(w, r)

				return
			}

			target := rec.Destination
			if q := r.URL.RawQuery; q != "" {
				target = appendQueryString(target, q)
			}

			http.Redirect(w, r, target, rec.StatusCode)
		})
	}
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}

	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return redirect.NormalizePath(prefix)
}

func isAdminPath(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return false
	}

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func normalizeRequestPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return redirect.NormalizePath(path)
}

// appendQueryString carries the request's query string over to the target
// URL, honoring any query the destination already has.
func appendQueryString(url, query string) string {
	if strings.Contains(url, "?") {
		return url + "&" + query
	}

	return url + "?" + query
}
