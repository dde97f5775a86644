package main

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/store/memstore"
	"github.com/JonMunkholm/catalog-import/internal/store/postgres"
	"github.com/JonMunkholm/catalog-import/internal/tenantlock"
)

// backend is a service plus whatever must be closed after it.
type backend struct {
	cfg     *config.Config
	service *core.Service
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// offlineBackend runs against an empty in-memory store.
func offlineBackend() (*backend, *memstore.Store, error) {
	cfg, err := config.LoadOffline()
	if err != nil {
		return nil, nil, err
	}
	store := memstore.New()
	return &backend{cfg: cfg, service: core.NewService(store, nil, cfg)}, store, nil
}

// databaseBackend connects to PostgreSQL and, when configured, Redis so that
// CLI imports serialize with the server's.
func databaseBackend(ctx context.Context) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	b := &backend{cfg: cfg}

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, pool.Close)

	var locker tenantlock.Locker
	if cfg.Redis.UsesRedis() {
		client, err := tenantlock.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.closers = append(b.closers, func() { client.Close() })
		locker = tenantlock.NewRedis(client, cfg.Redis.LockTTL, cfg.Redis.LockWait)
	}

	b.service = core.NewService(postgres.New(pool), locker, cfg)
	return b, nil
}
