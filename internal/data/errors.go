package data

import (
	"context"

	"github.com/ibmec/pict-api/internal/data/pgxutil"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Not-found messages returned to API callers.
const (
	msgStudentNotFound  = "Aluno não encontrado"
	msgAdvisorNotFound  = "Orientador não encontrado"
	msgAdminNotFound    = "Administrador não encontrado"
	msgProjectNotFound  = "Projeto não encontrado"
	msgDocumentNotFound = "Documento não encontrado"
)

// mapErr maps driver errors to application errors, replacing the generic
// not-found message with notFoundMsg.
func mapErr(err error, notFoundMsg string) error {
	mapped := apperrors.MapDBError(err)
	if notFoundMsg != "" && apperrors.IsNotFound(mapped) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, notFoundMsg)
	}
	return mapped
}

// queryOne runs sql and scans exactly one row into T by column name.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) (*T, error) {
	var out *T
	err := pgxutil.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
		return err
	})
	return out, err
}

// queryAll runs sql and scans every row into T by column name.
func queryAll[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) ([]T, error) {
	var out []T
	err := pgxutil.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if out == nil && err == nil {
		out = []T{}
	}
	return out, err
}

// exec runs a statement and returns the number of affected rows.
func exec(ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) (int64, error) {
	var affected int64
	err := pgxutil.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, sql, args...)
		affected = tag.RowsAffected()
		return err
	})
	return affected, err
}
