package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atelier-interiors/cms-backend/config"
	"github.com/atelier-interiors/cms-backend/internal/bootstrap"
	"github.com/atelier-interiors/cms-backend/internal/cli"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
	"github.com/atelier-interiors/cms-backend/internal/site/pagecache"
	"github.com/atelier-interiors/cms-backend/internal/site/pages"
	"github.com/atelier-interiors/cms-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cli.NewRootCommand(cli.Deps{
		Open:    func(ctx context.Context) (*cli.App, error) { return open(ctx, cfg) },
		Migrate: func(ctx context.Context) ([]string, error) { return migrate(ctx, cfg) },
	}).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(cli.ExitCode(err))
	}
}

// open wires the store and, when Redis is reachable, the same change feed
// and page cache the API uses so running servers pick up CLI edits.
func open(ctx context.Context, cfg *config.Config) (*cli.App, error) {
	sh, err := bootstrap.OpenStore(ctx, &cfg.Database, false)
	if err != nil {
		return nil, err
	}
	app := &cli.App{Store: sh.Store, Publisher: bus.Disabled{}, Close: sh.Close}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		log.Printf("[warn] operation=cms.open redis error=%v", err)
	}
	if rdb != nil {
		app.Publisher = bus.NewRedis(rdb, cfg.Live.Channel, cfg.Live.ConnectTimeout)
		app.Pages = pages.New(query.New(sh.Store), pagecache.NewRedis(rdb, cfg.Redis.PageTTL))
		app.Close = func() {
			_ = rdb.Close()
			sh.Close()
		}
	}
	return app, nil
}

func migrate(ctx context.Context, cfg *config.Config) ([]string, error) {
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("migrate needs STORE_DRIVER=postgres, got %q", cfg.Database.Driver)
	}
	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database), MaxConns: 2})
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	db := postgres.NewConnection(pool)
	defer db.Close()
	return postgres.Migrate(ctx, db)
}
