package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxQuerier is a Querier that can also run a group of writes atomically.
type TxQuerier interface {
	Querier

	// ExecTx runs fn inside a transaction. All writes issued through the
	// Querier passed to fn become visible together or not at all.
	ExecTx(ctx context.Context, fn func(q Querier) error) error
}

// Store is the pool-backed TxQuerier used by the application.
type Store struct {
	*Queries
	pool *pgxpool.Pool
}

var _ TxQuerier = (*Store)(nil)

// NewStore creates a Store bound to a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Queries: New(pool),
		pool:    pool,
	}
}

// ExecTx runs fn inside a pgx transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
