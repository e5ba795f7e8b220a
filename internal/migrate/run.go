package migrate

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibmec/pict-api/internal/data/pgxutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// lockKey serializes concurrent migrators (several replicas starting at once).
const lockKey int64 = 0x50494354

// Run applies all SQL migrations embedded in this package. It is safe to call multiple times.
func Run(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := apply(ctx, pool, f); err != nil {
			return err
		}
	}
	return nil
}

// Versions lists the embedded migration versions in apply order.
func Versions() ([]string, error) {
	files, err := migrationFiles()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = strings.TrimSuffix(f, ".sql")
	}
	return out, nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, file string) error {
	version := strings.TrimSuffix(file, ".sql")
	sqlBytes, err := migrationsFS.ReadFile("migrations/" + file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}

	return pgxutil.WithTx(ctx, pool, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
				return fmt.Errorf("lock migrations: %w", err)
			}

			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check migration %s: %w", file, err)
			}
			if exists {
				return nil
			}

			slog.Default().With("component", "migrations").InfoContext(ctx, "applying migration", "version", version)

			if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("record migration %s: %w", file, err)
			}
			return nil
		},
	})
}
