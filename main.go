package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"proforma-engine/config"
	httpLayer "proforma-engine/http"
	"proforma-engine/logger"
	"proforma-engine/repository"
	"proforma-engine/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("failed to load configuration", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	ctx := context.Background()
	checks := map[string]httpLayer.Pinger{}

	// Caché de resultados: Redis si está habilitado, en memoria si no
	var cache repository.CacheRepository
	if cfg.Redis.Enabled {
		redisCache := repository.NewRedisCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis not reachable, results will be recalculated", map[string]interface{}{"address": cfg.Redis.Address})
		}
		cache = redisCache
	} else {
		cache = repository.NewMockCache()
	}
	checks["cache"] = cache

	// Snapshots: PostgreSQL si está habilitado, en memoria si no
	var snapshotRepo repository.SnapshotRepository
	if cfg.Postgres.Enabled {
		db, err := repository.OpenPostgres(cfg.Postgres)
		if err != nil {
			log.WithError(err).Error("failed to connect to postgres", nil)
			os.Exit(1)
		}
		defer db.Close()

		pgRepo := repository.NewSnapshotRepositoryPostgres(db)
		if err := pgRepo.Migrate(ctx); err != nil {
			log.WithError(err).Error("failed to migrate snapshot table", nil)
			os.Exit(1)
		}
		snapshotRepo = pgRepo
		checks["database"] = pgRepo
	} else {
		snapshotRepo = repository.NewSnapshotRepositoryMemory()
	}

	proformaService := service.NewProFormaService(cache, log, service.OptionsFromConfig(cfg.Engine))
	holdPeriodService := service.NewHoldPeriodService(proformaService, log)
	snapshotService := service.NewSnapshotService(snapshotRepo, proformaService, log)

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, config.GetDuration(cfg.RateLimit.Refill))
		defer rateLimiter.Stop()
	}

	handler := httpLayer.NewRouter(httpLayer.RouterConfig{
		ProForma:  httpLayer.NewProFormaHandler(proformaService, holdPeriodService, log),
		Snapshots: httpLayer.NewSnapshotHandler(snapshotService, log),
		Health:    httpLayer.NewHealthHandler(checks),
		Limiter:   rateLimiter,
		Log:       log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("pro forma API listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.WithError(err).Error("error starting server", nil)
		return
	case <-quit:
		log.Info("shutting down server", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during server shutdown", nil)
	}

	log.Info("server exited", nil)
}
