package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/atelier-interiors/cms-backend/config"
	"github.com/atelier-interiors/cms-backend/internal/api/http/middleware"
	"github.com/atelier-interiors/cms-backend/internal/auth"
	authmw "github.com/atelier-interiors/cms-backend/internal/auth/middleware"
	"github.com/atelier-interiors/cms-backend/internal/blob"
	"github.com/atelier-interiors/cms-backend/internal/bootstrap"
	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	contenthttp "github.com/atelier-interiors/cms-backend/internal/content/http"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	inquiryhttp "github.com/atelier-interiors/cms-backend/internal/inquiry/http"
	"github.com/atelier-interiors/cms-backend/internal/inquiry/service"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/messaging"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
	realtimehttp "github.com/atelier-interiors/cms-backend/internal/realtime/http"
	"github.com/atelier-interiors/cms-backend/internal/site/pagecache"
	"github.com/atelier-interiors/cms-backend/internal/site/pages"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	logging.SetLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh, err := bootstrap.OpenStore(ctx, &cfg.Database, cfg.App.Environment != "production")
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer sh.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		// The site keeps serving without Redis; live updates and the page
		// cache are simply off.
		log.Printf("[warn] operation=bootstrap.redis error=%v", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	changes, cache := changeBus(cfg, rdb)
	if local, ok := changes.(*bus.Local); ok {
		defer local.Shutdown()
	}

	store, err := blobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("blob: %v", err)
	}

	q := query.New(sh.Store)
	pageSvc := pages.New(q, cache)
	inquiries := service.New(sh.Store, changes, pageSvc, messaging.NewComposer(cfg.Messaging.WhatsAppNumber))

	guard, err := adminGuard(ctx, cfg)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          sh.Store,
		Redis:          rdb,
		Content: contenthttp.New(q, pageSvc,
			actions.New(sh.Store, changes, pageSvc),
			blob.NewUploader(store, int64(cfg.Blob.MaxUploadMB)<<20)),
		Inquiry:      inquiryhttp.New(inquiries, q),
		Live:         realtimehttp.New(changes, cfg.Live.Debounce, cfg.Live.KeepAlive),
		AdminGuard:   guard,
		InquiryLimit: middleware.NewIPRateLimiter(cfg.Inquiry.RatePerMinute, cfg.Inquiry.Burst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[info] operation=server.start service=%s version=%s addr=%s", cfg.App.ServiceName, cfg.App.Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[info] operation=server.stop reason=signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] operation=server.stop error=%v", err)
	}
}

// changeBus picks the change feed and page cache. Without Redis the feed
// stays in-process, which is enough for a single instance.
func changeBus(cfg *config.Config, rdb *redis.Client) (bus.Bus, pagecache.Cache) {
	if rdb == nil {
		log.Printf("[info] operation=bootstrap.bus driver=local")
		return bus.NewLocal(), pagecache.Nop{}
	}
	log.Printf("[info] operation=bootstrap.bus driver=redis channel=%s", cfg.Live.Channel)
	return bus.NewRedis(rdb, cfg.Live.Channel, cfg.Live.ConnectTimeout), pagecache.NewRedis(rdb, cfg.Redis.PageTTL)
}

func blobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.Blob.Driver != "s3" {
		return blob.NewMemory(cfg.Blob.PublicBaseURL), nil
	}
	return blob.NewS3(ctx, blob.S3Config{
		Bucket:        cfg.Blob.Bucket,
		Region:        cfg.Blob.Region,
		Endpoint:      cfg.Blob.Endpoint,
		PathStyle:     cfg.Blob.PathStyle,
		PublicBaseURL: cfg.Blob.PublicBaseURL,
	})
}

// adminGuard prefers Firebase when credentials are configured and falls
// back to the shared admin key.
func adminGuard(ctx context.Context, cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		log.Printf("[info] operation=bootstrap.auth method=firebase")
		return authmw.FirebaseAdmin(client), nil
	}
	if cfg.Admin.APIKey == "" {
		log.Printf("[warn] operation=bootstrap.auth admin routes disabled: set ADMIN_API_KEY or FIREBASE_CREDENTIALS_PATH")
	}
	return authmw.APIKey(cfg.Admin.APIKey), nil
}
