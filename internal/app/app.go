package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/cache"
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/db"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Catalog  *catalog.Catalog
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	cat, err := loadCatalog(cfg, log)
	if err != nil {
		// Catalog corruption is systemic; refuse to serve.
		log.Error("Catalog failed validation", "error", err)
		log.Sync()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := catalog.DefaultTierTable.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("tier table: %w", err)
	}
	log.Info("Catalog loaded", "skills", cat.Len())

	theDB, err := openDB(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var tierCache *cache.TierCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		tierCache = cache.NewTierCache(rdb, cfg.TierCacheTTL, log)
		log.Info("Tier cache enabled", "addr", cfg.RedisAddr)
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cat, catalog.DefaultTierTable, reposet, tierCache)
	handlerset := wireHandlers(log, cat, serviceset)
	mw := wireMiddleware(log, cfg)
	router := wireRouter(cfg, handlerset, mw)

	return &App{
		Log:      log,
		DB:       theDB,
		Catalog:  cat,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func loadCatalog(cfg Config, log *logger.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		log.Info("Loading catalog from file", "path", cfg.CatalogPath)
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}

func openDB(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		dsn := os.Getenv("SQLITE_DSN")
		if dsn == "" {
			dsn = "caninecompass.db"
		}
		return db.NewSQLite(dsn, log)
	default:
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.AutoMigrateAll(); err != nil {
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		return pg.DB(), nil
	}
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + a.Cfg.Port,
		Handler: a.Router,
	}
	a.Log.Info("Starting server", "port", a.Cfg.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
