// Package db provides the Postgres connection used by the spatial queries.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool used by this module. pgxmock pools satisfy it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// Connector opens a fresh connection. Callers own the returned Pool and must Close it.
type Connector func(ctx context.Context) (Pool, error)

// Connect returns a Connector for the given DSN. Each call dials, pings and
// hands back a single-connection pool.
func Connect(dsn string) Connector {
	return func(ctx context.Context) (Pool, error) {
		if dsn == "" {
			return nil, eris.New("db: no database url configured")
		}

		pcfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, eris.Wrap(err, "db: parse database url")
		}
		pcfg.MaxConns = 1

		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, eris.Wrap(err, "db: create connection pool")
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, eris.Wrap(err, "db: ping database")
		}

		return pool, nil
	}
}
