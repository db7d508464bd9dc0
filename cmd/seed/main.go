package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/docgate/internal/config"
	"github.com/geocoder89/docgate/internal/db"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/geocoder89/docgate/internal/repo/postgres"
)

func main() {
	count := flag.Int("count", 1000, "number of viewer accounts to create")
	flag.Parse()

	cfg, err := config.Load()

	log := observability.NewLogger(cfg.Env)

	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	created, err := db.SeedUsers(ctx, postgres.NewUsersRepo(pool, nil), *count)

	if err != nil {
		log.Error("seeding stopped", "err", err, "created", created)
		os.Exit(1)
	}

	log.Info("seeding complete", "created", created, "requested", *count)
}
