package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"basegraph.app/hooks/core/db/sqlc"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotConfigured is returned by New when no DSN is available.
var ErrNotConfigured = errors.New("database not configured")

// DB wraps a pgxpool.Pool shared by every request handler.
// It serves as the main entry point for database operations.
type DB struct {
	pool *pgxpool.Pool
	cfg  Config
}

type Config struct {
	// Empty DSN disables storage.
	DSN string

	MaxConns int32
	MinConns int32

	// Bounds a single statement issued on behalf of a request.
	QueryTimeout time.Duration

	// Bounds the schema bootstrap at startup.
	BootstrapTimeout time.Duration
}

func (c Config) Enabled() bool {
	return c.DSN != ""
}

// New creates the pool without dialing. Connections are established lazily so
// that an unreachable database does not stop the process from starting.
func New(ctx context.Context, cfg Config) (*DB, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	if cfg.BootstrapTimeout <= 0 {
		cfg.BootstrapTimeout = 10 * time.Second
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.QueryTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return &DB{pool: pool, cfg: cfg}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// Queries returns a new Queries instance for non-transactional operations.
func (db *DB) Queries() *sqlc.Queries {
	return sqlc.New(db.pool)
}

// QueryTimeout is the per-statement bound applied by the store layer.
func (db *DB) QueryTimeout() time.Duration {
	return db.cfg.QueryTimeout
}

// Ping runs a trivial round-trip (SELECT 1) against the pool.
func (db *DB) Ping(ctx context.Context) error {
	var one int
	if err := db.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// EnsureSchema creates the events table if it does not exist yet.
// Safe to call on every start.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.cfg.BootstrapTimeout)
	defer cancel()

	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}
	return nil
}
