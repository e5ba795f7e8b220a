package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ibmec/pict-api/internal/bootstrap"
	"github.com/ibmec/pict-api/internal/devseed"
)

const defaultMigrationTimeout = 5 * time.Minute

type dbOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

func parseDBFlags(name string, args []string, withRemote bool) (dbOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for the command to complete")
	if withRemote {
		fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Permit running against database hosts that do not look local")
	}
	if err := fs.Parse(args); err != nil {
		return dbOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBFlags("migrate", args, false)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *pgxpool.Pool) error {
		cmdCtx.Logger.Info("running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return err
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBFlags("db-seed", args, true)
	if err != nil {
		return err
	}
	if isLikelyRemoteHost(cmdCtx.Config.Postgres.Host) && !opts.AllowRemote {
		return fmt.Errorf(
			"refusing to seed potentially remote database host %q; re-run with --allow-remote if this is intentional",
			cmdCtx.Config.Postgres.Host,
		)
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *pgxpool.Pool) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return err
		}
		cmdCtx.Logger.Info("seeding development data")
		if err := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *pgxpool.Pool) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()

	return f(ctx, db)
}

var errRedisNotConfigured = errors.New("redis not configured (set REDIS_ENABLED=true)")

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return errRedisNotConfigured
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()
	return f(ctx, client)
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}
