package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skillbridge/internal/config"
	"skillbridge/internal/database/migration"
	dbpostgres "skillbridge/internal/database/postgres"
	"skillbridge/internal/database/seeder"
	"skillbridge/internal/pkg/logger"
)

// Applies pending schema migrations and exits. The server does the same on
// startup; this is for deploy pipelines that migrate ahead of a rollout.
// With -seed it also loads demo accounts and listings (development only).
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall migration timeout")
	seed := flag.Bool("seed", false, "load demo users and skills after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to connect database", "error", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := migration.NewRunner(lg).Run(ctx, db); err != nil {
		lg.Fatal("migration failed", "error", err)
	}
	lg.Info("migrations applied")

	if !*seed {
		return
	}
	if !cfg.IsDevelopment() {
		lg.Fatal("refusing to seed outside development", "env", cfg.App.Environment)
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: lg}).Run(ctx, db); err != nil {
		lg.Fatal("seeding failed", "error", err)
	}
	lg.Info("demo data seeded", "password", seeder.DemoPassword)
}
