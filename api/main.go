package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/backend"
	"github.com/rogerio-castellano/frame-storefront/internal/cache"
	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/config"
	"github.com/rogerio-castellano/frame-storefront/internal/db"
	"github.com/rogerio-castellano/frame-storefront/internal/events"
	"github.com/rogerio-castellano/frame-storefront/internal/http/ban"
	"github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/frame-storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/frame-storefront/internal/http/router"
	"github.com/rogerio-castellano/frame-storefront/internal/logging"
	"github.com/rogerio-castellano/frame-storefront/internal/redissvc"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
	"github.com/rogerio-castellano/frame-storefront/internal/tasks"
)

const visitorMaxIdle = 3 * time.Minute

// @title Frame Storefront API
// @version 1.0
// @description Catalog, pricing, cart and gallery API for the wall-frame storefront.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", "", "path to a config file (default ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Could not build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := map[string]handlers.HealthCheck{}

	var rs *redissvc.RedisService
	if cfg.Redis.Enabled {
		var err error
		rs, err = redissvc.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rs.Close()
		health["redis"] = rs.Ping
	}

	// Without a project URL, shopper and content calls fail with 502.
	client := backend.New(backend.Config{
		ProjectURL:    cfg.Backend.ProjectURL,
		FunctionsPath: cfg.Backend.FunctionsPath,
		AnonKey:       cfg.Backend.AnonKey,
		Timeout:       cfg.Backend.Timeout,
	}, log)

	products, database, err := productSource(ctx, cfg, client)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
		health["postgres"] = database.PingContext
	}

	var store cache.Store = cache.NewMemoryStore(cfg.Catalog.CacheTTL)
	if rs != nil {
		store = cache.NewRedisStore(rs.Rdb(), cfg.Catalog.CacheTTL)
	}
	cached := cache.NewCachedProductRepository(products, store, log)

	var gallery repo.GalleryRepository = repo.NewInMemoryGalleryRepository()
	if cfg.Backend.ProjectURL != "" {
		gallery = repo.NewBackendGalleryRepository(client)
	}

	var bus events.Bus = events.NewMemoryBus()
	bans := ban.NewTracker(nil, cfg.Ban.MaxStrikes, cfg.Ban.Duration, log)
	if rs != nil {
		bus = events.NewRedisBus(rs.Rdb(), log)
		bans = ban.NewTracker(rs.Rdb(), cfg.Ban.MaxStrikes, cfg.Ban.Duration, log)
	}

	svc := catalog.NewService(cached, log)
	if _, err := svc.Refresh(ctx); err != nil {
		// The scheduler keeps retrying; requests get 503 until a load succeeds.
		log.Warn("initial catalog load failed", zap.Error(err))
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	scheduler := tasks.NewScheduler(log)
	if err := scheduler.AddCatalogRefresh(cfg.Catalog.RefreshCron, svc); err != nil {
		return err
	}
	if err := scheduler.AddVisitorCleanup(limiter, visitorMaxIdle); err != nil {
		return err
	}
	if err := scheduler.AddDailyBanSummary(bans); err != nil {
		return err
	}
	scheduler.Start()

	srv := &handlers.Server{
		Catalog: svc,
		Gallery: gallery,
		Metrics: repo.NewCatalogMetricsRepository(cached, gallery),
		Backend: client,
		Events:  bus,
		Site: handlers.SiteSettings{
			Theme:          cfg.UI.Theme,
			MaxUploadBytes: cfg.Images.MaxUploadBytes,
		},
		Health: health,
		Log:    log,
	}

	httpServer := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(srv, router.Options{
			Tokens:         auth.NewVerifier(cfg.Auth.JWTSecret),
			Limiter:        limiter,
			Bans:           bans,
			Log:            log.Named("http"),
			RequestTimeout: 30 * time.Second,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("✅ Server running", zap.String("addr", cfg.Server.Addr), zap.String("catalog_source", cfg.Catalog.Source))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return httpServer.Shutdown(shutdownCtx)
}

// productSource picks the catalog repository for cfg.Catalog.Source. The
// returned *sql.DB is non-nil only for the postgres source.
func productSource(ctx context.Context, cfg config.Config, client *backend.Client) (repo.ProductRepository, *sql.DB, error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		products, err := repo.NewPostgresProductRepository(database, cfg.Database.KVTable)
		if err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		return products, database, nil
	case config.SourceMemory:
		return repo.NewInMemoryProductRepository(), nil, nil
	default:
		return repo.NewBackendProductRepository(client), nil, nil
	}
}
