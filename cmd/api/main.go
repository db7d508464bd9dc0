package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/docgate/internal/auth"
	"github.com/geocoder89/docgate/internal/config"
	"github.com/geocoder89/docgate/internal/db"
	httpx "github.com/geocoder89/docgate/internal/http"
	"github.com/geocoder89/docgate/internal/ingestion"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/geocoder89/docgate/internal/redisclient"
	"github.com/geocoder89/docgate/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()

	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: "docgate-api",
		Environment: cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// database
	migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
	err = db.Migrate(migrateCtx, cfg.DBURL)
	cancelMigrate()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	usersRepo := postgres.NewUsersRepo(pool, prom)
	documentsRepo := postgres.NewDocumentsRepo(pool, prom)

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	err = db.EnsureAdminUser(seedCtx, log, usersRepo, cfg.AdminEmail, cfg.AdminPassword)
	cancelSeed()

	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	log.Info("access tokens configured", "ttl", tokens.TTL().String())

	// ingestion status lives in redis when configured, otherwise in memory
	var statusStore ingestion.StatusStore = ingestion.NewMemoryStore()

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.Open(ctx, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		defer rdb.Close()

		statusStore = ingestion.NewRedisStore(rdb.Cmdable(), ingestion.DefaultRedisKey)
	}

	forwarder := ingestion.NewProtectedForwarder(
		ingestion.NewHTTPForwarder(cfg.IngestionURL, cfg.IngestionTimeout),
		ingestion.ProtectedForwarderConfig{Timeout: cfg.IngestionTimeout},
	)

	router := httpx.NewRouter(httpx.Deps{
		Log:            log,
		Cfg:            cfg,
		Prom:           prom,
		Ping:           pool.Ping,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Users:          usersRepo,
		Documents:      documentsRepo,
		Ingestion:      ingestion.NewService(forwarder, statusStore, log),
		IngestionState: forwarder.State,
		Tokens:         tokens,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "documents_auth", cfg.DocumentsAuth)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
