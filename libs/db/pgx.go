package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/md-rashed-zaman/courtside/libs/config"
)

// Pool wraps pgxpool so callers depend on this package, not pgx directly.
type Pool struct {
	*pgxpool.Pool
}

// Open connects and pings. The availability workload is read-heavy with short
// queries, so the defaults favor a small warm pool; override with DB_MAX_CONNS
// and DB_MIN_CONNS when load testing says otherwise.
func Open(ctx context.Context, databaseURL string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = int32(config.Int("DB_MAX_CONNS", 10))
	cfg.MinConns = int32(config.Int("DB_MIN_CONNS", 1))
	cfg.MaxConnLifetime = config.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	cfg.MaxConnIdleTime = config.Duration("DB_CONN_MAX_IDLE", 5*time.Minute)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Pool{Pool: pool}, nil
}

func (p *Pool) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// ReadyCheck reports database readiness for /readyz.
func ReadyCheck(pool *Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil || pool.Pool == nil {
			return errors.New("db not configured")
		}
		return pool.Ping(ctx)
	}
}
