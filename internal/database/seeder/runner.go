package seeder

import (
	"context"
	"errors"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/pkg/logger"
)

// Seeder inserts one kind of demo data. Seed runs inside a transaction owned
// by the Runner and must be idempotent.
type Seeder interface {
	Name() string
	Seed(ctx context.Context, ex database.Executor) error
}

type Runner struct {
	Seeders []Seeder
	Log     *logger.Logger
}

// Run applies each seeder in its own transaction and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := runOne(ctx, db, s); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeded", "seeder", s.Name())
	}
	return nil
}

func runOne(ctx context.Context, db database.DB, s Seeder) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := s.Seed(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
