package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/waypoint/internal/adapters/file"
	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/adapters/loam"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/aretw0/waypoint/pkg/shop"
)

// ephemeralSession is used when no --session is given; its journal lives in
// memory for the duration of one command.
const ephemeralSession = "cli"

// loader returns the catalog source selected by --catalog.
func (a *app) loader() (ports.CatalogLoader, error) {
	if a.catalogPath == "" {
		return memory.NewLoader(shop.Catalog())
	}

	info, err := os.Stat(a.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog not found: %w", err)
	}
	if info.IsDir() {
		return loam.Open(a.catalogPath)
	}
	return &catalog.FileLoader{Path: a.catalogPath}, nil
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	l, err := a.loader()
	if err != nil {
		return nil, err
	}
	c, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Catalog loaded", "catalog", c.Name, "actions", len(c.Actions))
	return c, nil
}

// openStore builds the configured journal store, sealed with the configured
// encryption key if any. Only the redis backend returns a locker.
func (a *app) openStore() (ports.JournalStore, ports.DistributedLocker, func(), error) {
	store, locker, closer, err := a.openBackend()
	if err != nil {
		return nil, nil, nil, err
	}

	active, fallback, err := a.cfg.Store.Keys()
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	if active == nil {
		return store, locker, closer, nil
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	})
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	return middleware.Chain(store, seal), locker, closer, nil
}

func (a *app) openBackend() (ports.JournalStore, ports.DistributedLocker, func(), error) {
	sc := a.cfg.Store
	switch sc.Backend {
	case config.BackendFile:
		return file.New(sc.Path), nil, func() {}, nil
	case config.BackendRedis:
		store := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB,
			redis.WithTTL(sc.TTL),
			redis.WithPrefix(sc.Prefix),
		)
		locker := redis.NewLocker(store.Client(), "waypoint:")
		closer := func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("Failed to close redis store", "err", err)
			}
		}
		return store, locker, closer, nil
	case config.BackendMemory:
		return memory.NewStore(), nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend '%s'", sc.Backend)
	}
}

// sessions returns the session manager and the session ID to use.
func (a *app) sessions() (*session.Manager, string, func(), error) {
	if a.sessionID == "" {
		return session.NewManager(memory.NewStore(), session.WithLogger(a.logger)), ephemeralSession, func() {}, nil
	}
	if a.cfg.Store.Backend == config.BackendMemory {
		a.logger.Warn("Session is kept in memory and will not survive this command", "session", a.sessionID)
	}
	m, closer, err := a.manager()
	if err != nil {
		return nil, "", nil, err
	}
	return m, a.sessionID, closer, nil
}

// manager builds a session manager over the configured store.
func (a *app) manager() (*session.Manager, func(), error) {
	store, locker, closer, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	opts := []session.Option{session.WithLogger(a.logger)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return session.NewManager(store, opts...), closer, nil
}

// plannerOptions combines the configured budget with any extra hooks. Each
// lifecycle event is logged at debug level.
func (a *app) plannerOptions(hooks ...domain.LifecycleHooks) []runtime.Option {
	opts := append([]runtime.Option{runtime.WithLogger(a.logger)}, a.cfg.PlannerOptions()...)
	if a.cfg.Level() <= slog.LevelDebug {
		hooks = append([]domain.LifecycleHooks{observability.LoggingHooks(a.logger)}, hooks...)
	}
	if len(hooks) > 0 {
		opts = append(opts, runtime.WithLifecycleHooks(observability.ChainHooks(hooks...)))
	}
	return opts
}
