package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/rickgao/airq-etl/internal/config"
)

// Handle is an open connection to one configured database. Exactly one of
// Pool (postgres) and DB (sqlite) is set.
type Handle struct {
	Driver string
	Pool   *pgxpool.Pool
	DB     *sql.DB
}

// Pools holds database connections for a run.
type Pools struct {
	// Source holds the upstream sensor tables.
	Source *Handle

	// Target holds the reconciled output table.
	Target *Handle
}

// NewPools opens both databases.
func NewPools(ctx context.Context, cfg config.DatabaseConfig) (*Pools, error) {
	src, err := Open(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("connect source: %w", err)
	}

	dst, err := Open(ctx, cfg.Target)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("connect target: %w", err)
	}

	return &Pools{
		Source: src,
		Target: dst,
	}, nil
}

// Open connects to a database using the configured driver.
func Open(ctx context.Context, cfg config.DBConfig) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: cfg.Driver, DB: db}, nil
	case config.DriverPostgres, "":
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: config.DriverPostgres, Pool: pool}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// OpenSQLite opens a sqlite database file. Writes are serialised through a
// single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Ping verifies the connection is healthy.
func (h *Handle) Ping(ctx context.Context) error {
	if h.Pool != nil {
		return h.Pool.Ping(ctx)
	}
	if h.DB != nil {
		return h.DB.PingContext(ctx)
	}
	return fmt.Errorf("%s handle is closed", h.Driver)
}

// Close releases the connection.
func (h *Handle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.DB != nil {
		_ = h.DB.Close()
	}
}

// Close closes both databases.
func (p *Pools) Close() {
	if p.Source != nil {
		p.Source.Close()
	}
	if p.Target != nil {
		p.Target.Close()
	}
}

// Ping verifies both connections are healthy.
func (p *Pools) Ping(ctx context.Context) error {
	if err := p.Source.Ping(ctx); err != nil {
		return fmt.Errorf("ping source: %w", err)
	}
	if err := p.Target.Ping(ctx); err != nil {
		return fmt.Errorf("ping target: %w", err)
	}
	return nil
}
