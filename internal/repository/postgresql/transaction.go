package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/tx"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// GetQuerier returns the transaction carried by ctx, or the pool when there is none
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if pgTx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return pgTx
	}
	return db.Pool
}

type transactor struct {
	db   *database.DB
	opts pgx.TxOptions
}

// NewTransactor returns a tx.Manager running read-committed transactions on db
func NewTransactor(db *database.DB) tx.Manager {
	return &transactor{
		db:   db,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// WithinTransaction implements tx.Manager. A nested call joins the outer
// transaction; fn errors and panics roll back.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	var fnErr error
	err := pgx.BeginTxFunc(ctx, t.db.Pool, t.opts, func(pgTx pgx.Tx) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, pgTx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return err
}
