// Command server runs the rewards backend: the HTTP API, the background
// faucet claim processor, and their shared storage and lock infrastructure.
//
// Startup order:
//  1. .env (best effort) and environment configuration
//  2. logging and OpenTelemetry
//  3. database open + migrations
//  4. lock store (in-process or Redis)
//  5. services, router, scheduler
//  6. HTTP server with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zigletlabs/go-rewards-backend/internal/config"
	httpapi "github.com/zigletlabs/go-rewards-backend/internal/http"
	"github.com/zigletlabs/go-rewards-backend/internal/lock"
	"github.com/zigletlabs/go-rewards-backend/internal/observability"
	"github.com/zigletlabs/go-rewards-backend/internal/repo"
	"github.com/zigletlabs/go-rewards-backend/internal/scheduler"
	"github.com/zigletlabs/go-rewards-backend/internal/services"
	"github.com/zigletlabs/go-rewards-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	locks, closeLocks, err := buildLockStore(ctx, cfg.Lock)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Lock.Backend).Msg("lock store setup failed")
	}
	defer closeLocks()

	taskSvc := services.NewTaskService(db, locks, services.StaticTweetVerifier{})
	taskSvc.LockTTL = cfg.Lock.TaskTTL
	faucetSvc := services.NewFaucetService(db, locks, services.MockDisburser{})
	faucetSvc.BatchSize = cfg.Faucet.BatchSize
	faucetSvc.LockTTL = cfg.Lock.FaucetTTL
	pointsSvc := &services.PointsService{DB: db}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Services{
		Tasks:  taskSvc,
		Points: pointsSvc,
		Faucet: faucetSvc,
	}, cfg)

	sched, err := scheduler.Start(faucetSvc, cfg.Faucet.Interval)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// buildLockStore constructs the configured lock backend. The returned close
// function is a no-op for the in-process store.
func buildLockStore(ctx context.Context, cfg config.LockConfig) (lock.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := lock.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		}, nil
	default:
		return lock.NewMemoryStore(), func() {}, nil
	}
}
