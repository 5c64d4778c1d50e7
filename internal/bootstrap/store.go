package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/atelier-interiors/cms-backend/config"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/content/store/memory"
	pgstore "github.com/atelier-interiors/cms-backend/internal/content/store/postgres"
	"github.com/atelier-interiors/cms-backend/internal/storage/postgres"
)

// StoreHandle is an opened content store plus whatever must be released on
// shutdown.
type StoreHandle struct {
	Store store.Store
	close func()
}

func (h *StoreHandle) Close() {
	if h.close != nil {
		h.close()
	}
}

// OpenStore opens the configured content store. With migrate set, pending
// schema migrations are applied before the store is returned.
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig, migrate bool) (*StoreHandle, error) {
	switch cfg.Driver {
	case "memory":
		log.Printf("[info] operation=bootstrap.store driver=memory")
		return &StoreHandle{Store: memory.New()}, nil
	case "postgres":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}

	pool, err := OpenDB(ctx, DBOptions{DSN: postgres.DSN(cfg), MaxConns: cfg.MaxConns})
	if err != nil {
		return nil, err
	}
	db := postgres.NewConnection(pool)

	if migrate {
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			_ = db.Close()
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		for _, name := range applied {
			log.Printf("[info] operation=bootstrap.migrate applied=%s", name)
		}
	}

	log.Printf("[info] operation=bootstrap.store driver=postgres max_conns=%d", cfg.MaxConns)
	return &StoreHandle{
		Store: pgstore.New(db),
		close: func() {
			_ = db.Close()
			pool.Close()
		},
	}, nil
}
