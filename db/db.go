package db

import (
	"context"
	"fmt"

	"foodorder-telegram/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool stays nil when no database is configured; callers treat that as
// "persistence disabled".
var Pool *pgxpool.Pool

func Init(ctx context.Context, cfg config.DBConfig) error {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping: %w", err)
	}
	Pool = pool
	return nil
}

func Enabled() bool {
	return Pool != nil
}

func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
