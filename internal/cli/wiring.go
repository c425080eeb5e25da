package cli

import (
	"context"
	"fmt"

	"github.com/mkoval/citehound/internal/cache"
	"github.com/mkoval/citehound/internal/courtlistener"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/store"
	"github.com/mkoval/citehound/internal/token"
	"github.com/mkoval/citehound/internal/worker"
)

// buildClient assembles the verification client with the token store, rate
// limiter, and optional response cache.
func buildClient(cfg *model.Config) (*courtlistener.Client, error) {
	tokens := token.NewFileStore(tokenStorePath())

	client, err := courtlistener.NewClient(cfg.API, tokens)
	if err != nil {
		return nil, fmt.Errorf("create verification client: %w", err)
	}

	client.SetLimiter(worker.NewLimiter(cfg.API.RequestsPerSecond, cfg.API.Burst))
	if cfg.Cache.Enabled {
		responses := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		client.SetCache(responses, cfg.Cache.DiskTTL)
	}
	return client, nil
}

// buildStore assembles the citation store for the configured driver.
func buildStore(ctx context.Context, cfg *model.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "disk":
		return store.NewDiskStore(cfg.Store.Path), nil
	case "postgres":
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("postgres store requires store.dsn")
		}
		return store.NewPostgresStore(ctx, cfg.Store.DSN)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s (supported: disk, postgres, memory)", cfg.Store.Driver)
	}
}
