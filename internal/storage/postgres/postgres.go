// Package postgres stores converted creatures in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tetracube/internal/config"
)

// ConnectTimeout bounds the initial ping performed by NewPool.
const ConnectTimeout = 10 * time.Second

// Pool owns the connection pool shared by the repositories in this package.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg. Zero pool limits keep
// the pgx defaults.
//
// Precondition: cfg must pass config.Config.Validate.
// Postcondition: Returns a Pool whose database answered a ping within
// ConnectTimeout, or a non-nil error and no open connections.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// Health checks that the database is reachable within the given timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Creatures returns a CreatureRepository sharing this pool.
func (p *Pool) Creatures() *CreatureRepository {
	return NewCreatureRepository(p.pool)
}

// Close releases all pool resources. The Pool and every repository obtained
// from it are unusable afterwards.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
