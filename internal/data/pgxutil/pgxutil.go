// Package pgxutil provides scoped acquisition helpers over the process-owned pgxpool.
package pgxutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxConfig groups parameters for WithTx to keep parameter count ≤ 3.
type TxConfig struct {
	Opts pgx.TxOptions
	Fn   func(pgx.Tx) error
}

// WithConn checks a connection out of pool, runs fn and always releases it.
func WithConn(ctx context.Context, pool *pgxpool.Pool, fn func(*pgxpool.Conn) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn from pool: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

// WithTx runs cfg.Fn inside a transaction on a pooled connection. The
// transaction is committed when Fn returns nil and rolled back otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, cfg TxConfig) error {
	return WithConn(ctx, pool, func(conn *pgxpool.Conn) (err error) {
		tx, err := conn.BeginTx(ctx, cfg.Opts)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() {
			if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
		}()

		if err = cfg.Fn(tx); err != nil {
			return err
		}
		if err = tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}
