// Package postgres registers the pgx-backed PostgreSQL driver.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	database.RegisterPostgresDriver(NewConnection)
}

// ErrMissingURL is returned when no connection string is configured.
var ErrMissingURL = errors.New("database URL is required for PostgreSQL")

// querier is the subset shared by pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connection implements database.Connection over a pgx pool.
type Connection struct {
	executor
	pool *pgxpool.Pool
}

// NewConnection opens a pool and verifies it with a ping.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Connection{executor: executor{q: pool}, pool: pool}, nil
}

// Pool exposes the pgx pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

func (c *Connection) Driver() database.Driver {
	return database.DriverPostgres
}

func (c *Connection) Close() error {
	c.pool.Close()
	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Transaction{executor: executor{q: tx}, tx: tx}, nil
}

// Transaction implements database.Transaction over pgx.Tx.
type Transaction struct {
	executor
	tx pgx.Tx
}

func (t *Transaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Transaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

type executor struct {
	q querier
}

func (e executor) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	tag, err := e.q.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result{tag: tag}, nil
}

func (e executor) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return e.q.QueryRow(ctx, query, args...)
}

func (e executor) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := e.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: r}, nil
}

type result struct {
	tag pgconn.CommandTag
}

func (r result) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

// LastInsertId is unsupported; queries use RETURNING instead.
func (r result) LastInsertId() (int64, error) {
	return 0, errors.New("LastInsertId is not supported by PostgreSQL")
}

type rows struct {
	r pgx.Rows
}

func (r rows) Next() bool             { return r.r.Next() }
func (r rows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r rows) Err() error             { return r.r.Err() }

func (r rows) Close() error {
	r.r.Close()
	return nil
}
