// Package container wires the application services together using samber/do.
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abralabs/redirects/internal/cache"
	"github.com/abralabs/redirects/internal/handlers"
	"github.com/abralabs/redirects/internal/health"
	"github.com/abralabs/redirects/internal/middleware"
	"github.com/abralabs/redirects/internal/redirect"
	"github.com/abralabs/redirects/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options holds the runtime configuration, populated by humacli from flags
// and environment variables.
type Options struct {
	Port         int    `default:"8080"                   help:"Port to listen on"                            short:"p"`
	Storage      string `default:"file"                   help:"Redirect storage backend: file or database"`
	FilePath     string `default:"./data/redirects.yaml"  help:"Path to the redirects file (file storage)"    name:"file-path"`
	DatabaseURL  string `help:"PostgreSQL connection URL (database storage)" name:"database-url"`
	Table        string `default:"redirects"              help:"Database table for redirects"`
	RedisAddr    string `default:"localhost:6379"         help:"Redis server address"                         name:"redis-addr"`
	CacheEnabled bool   `default:"true"                   help:"Enable redirect lookup caching"               name:"cache-enabled"`
	CacheExpiry  int    `default:"60"                     help:"Cache expiry time in minutes"                 name:"cache-expiry"`
	AdminPrefix  string `default:"/cp"                    help:"Admin interface route prefix"                 name:"admin-prefix"`
}

// CacheTTL returns the configured cache expiry as a duration.
func (o *Options) CacheTTL() time.Duration {
	return time.Duration(o.CacheExpiry) * time.Minute
}

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*zap.Logger, error) {
		return zap.NewProduction()
	})
}

// RedisPackage provides the shared redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the database pool. It is only resolved when the
// database storage backend is selected.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.DatabaseURL == "" {
			return nil, fmt.Errorf("database storage selected but no database URL configured")
		}

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		return pool, nil
	})
}

// RepositoryPackage provides the redirect repository, selected from the
// configured storage backend and wrapped with the collection cache when
// caching is enabled. Unknown backends fall back to file storage.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (redirect.Repository, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo redirect.Repository

		switch options.Storage {
		case "database":
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			pg := store.NewPostgresRepository(pool, options.Table)
			if err := pg.EnsureSchema(context.Background()); err != nil {
				return nil, err
			}

			repo = pg
		default:
			if options.Storage != "file" {
				logger.Warn("unknown storage backend, falling back to file",
					zap.String("storage", options.Storage),
				)
			}

			f, err := store.NewFileRepository(options.FilePath)
			if err != nil {
				return nil, err
			}

			repo = f
		}

		if options.CacheEnabled {
			client := do.MustInvoke[*redis.Client](i)
			repo = store.NewCachedRepository(repo, client, options.CacheTTL())
		}

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (*cache.Lookup, error) {
		options := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)

		return cache.NewLookup(client, options.CacheTTL(), options.CacheEnabled), nil
	})
}

// HTTPPackage provides the router, the admin API, and the final request
// handler with the redirect interceptor wrapped around the router.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		repo := do.MustInvoke[redirect.Repository](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		api := humachi.New(router, huma.DefaultConfig("Redirect Manager", "1.0.0"))

		handlers.RegisterRoutes(api, handlers.NewRedirectHandler(repo, logger), options.AdminPrefix)

		storageCheck := health.Checker(health.CheckerFunc(func(context.Context) error { return nil }))
		if c, ok := repo.(health.Checker); ok {
			storageCheck = c
		}

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(redisClient), storageCheck))

		return api, nil
	})

	do.Provide(injector, func(i *do.Injector) (http.Handler, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		repo := do.MustInvoke[redirect.Repository](i)
		lookup := do.MustInvoke[*cache.Lookup](i)

		// Resolve the API so routes are registered before serving.
		_ = do.MustInvoke[huma.API](i)

		return middleware.Redirects(repo, lookup, options.AdminPrefix, logger)(router), nil
	})
}
