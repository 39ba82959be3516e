package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"routine-maker/backend/config"
	"routine-maker/backend/internal/api/handler"
	"routine-maker/backend/internal/api/middleware"
	"routine-maker/backend/internal/api/router"
	"routine-maker/backend/internal/repository"
	"routine-maker/backend/internal/service"
	"routine-maker/backend/pkg/database"
	applogger "routine-maker/backend/pkg/logger"
	"routine-maker/backend/pkg/redis"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("ROUTINE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("data_url", cfg.Catalog.DataURL),
	)

	// 3. database (optional: snapshots and saved routines need it)
	var (
		db   *gorm.DB
		repo *repository.Repository
	)
	if cfg.Database.Enabled {
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get sql.DB failed", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		repo = repository.NewRepository(db)
		logger.Info("database connected")
	} else {
		logger.Info("database disabled, routines cannot be saved")
	}

	// 4. Redis (optional: runs degraded when unreachable)
	var (
		rdb     *redis.Client
		cache   service.Cache
		limiter middleware.RateLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, exam cache and rate limiting are off", zap.Error(err))
			rdb = nil
		}
	}
	// nil interfaces, not typed nil pointers, when Redis is off
	if rdb != nil {
		cache = rdb
		limiter = rdb
	}

	// 5. wiring: Source → Service → Handler
	source := service.NewHTTPCatalogSource(
		cfg.Catalog.DataURL,
		cfg.Catalog.ExamFeedURL,
		cfg.Catalog.MaxBodyBytes,
		service.DefaultCatalogHTTPClient(cfg.Catalog.FetchTimeout),
	)
	svc, err := service.NewService(cfg, repo, source, cache, logger)
	if err != nil {
		logger.Fatal("service wiring failed", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 6. initial catalog: upstream first, last snapshot as fallback
	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.Catalog.FetchTimeout)
	if _, err := svc.Catalog.Refresh(bootCtx); err != nil {
		if _, lerr := svc.Catalog.LoadLatest(context.Background()); lerr != nil {
			logger.Warn("no catalog available yet, serving 503 until a refresh succeeds",
				zap.NamedError("fetch_error", err),
				zap.NamedError("snapshot_error", lerr),
			)
		}
	}
	bootCancel()

	runCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go svc.Catalog.Run(runCtx, cfg.Catalog.RefreshInterval)

	// 7. router
	engine := router.Setup(cfg, h, limiter, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))
	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
