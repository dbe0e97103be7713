package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/api"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/config"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/db"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/notify"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/permissions"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/store"
)

/* ------------------------------------------------------------------
   App struct — runtime container
-------------------------------------------------------------------*/

type App struct {
	cfg   config.Config
	log   logger.Logger
	db    *sqlx.DB
	cache *redis.Client

	server *http.Server
}

// New builds the full dependency graph: config, logger, database pool,
// optional redis cache, store, lifecycle service and HTTP router. Every
// client is constructed once here and injected downward.
func New(configFile string) (*App, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	var cache *redis.Client
	if cfg.Redis.Address != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, fetch cache disabled", map[string]interface{}{
				"address": cfg.Redis.Address,
				"error":   err.Error(),
			})
			cache = nil
		}
	}

	requests := store.New(conn, log)
	notifier := notify.NewLogNotifier(log)
	svc := permissions.NewService(requests, cache, notifier, log)
	router := api.SetupRouter(api.NewHandler(svc, log))

	return &App{
		cfg:   cfg,
		log:   log,
		db:    conn,
		cache: cache,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.WebHost, cfg.WebPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

/* ------------------------------------------------------------------
   Run / Close lifecycle
-------------------------------------------------------------------*/

// Run serves HTTP until the listener fails or Close is called.
func (a *App) Run() error {
	a.log.Info("web server listening", map[string]interface{}{
		"addr":    a.server.Addr,
		"baseUrl": a.cfg.PublicBaseURL,
	})
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if cerr := a.db.Close(); err == nil {
		err = cerr
	}
	return err
}
