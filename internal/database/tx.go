package database

import (
	"context"
	"errors"
	"fmt"
)

// TxManager runs fn inside a transaction. Repositories pick the transaction up
// from ctx through Conn, so a usecase can group several repository calls.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func withTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction bound to ctx, if any.
func TxFrom(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(Tx)
	return tx, ok && tx != nil
}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db DB) Executor {
	if tx, ok := TxFrom(ctx); ok {
		return tx
	}
	return db
}

type dbTxManager struct {
	db DB
}

func NewTxManager(db DB) TxManager {
	return &dbTxManager{db: db}
}

func (m *dbTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m == nil || m.db == nil {
		return errors.New("nil db")
	}
	if _, ok := TxFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	if err = fn(withTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
