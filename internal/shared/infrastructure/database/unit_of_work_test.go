package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) database.Connection {
	t.Helper()
	conn, err := database.NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), "CREATE TABLE items (name TEXT NOT NULL)")
	require.NoError(t, err)
	return conn
}

func countItems(t *testing.T, conn database.Connection) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM items").Scan(&n))
	return n
}

func TestGenericUnitOfWork(t *testing.T) {
	t.Run("commit persists writes made through the context executor", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(context.Background())
		require.NoError(t, err)

		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, "INSERT INTO items (name) VALUES (?)", "a")
		require.NoError(t, err)
		require.NoError(t, uow.Commit(txCtx))

		assert.Equal(t, 1, countItems(t, conn))
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(context.Background())
		require.NoError(t, err)
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, "INSERT INTO items (name) VALUES (?)", "a")
		require.NoError(t, err)
		require.NoError(t, uow.Rollback(txCtx))

		assert.Equal(t, 0, countItems(t, conn))
	})

	t.Run("nested begin reuses outer transaction", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		outer, err := uow.Begin(context.Background())
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)

		assert.Same(t, database.TxFromContext(outer), database.TxFromContext(inner))
		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Rollback(outer))
	})

	t.Run("commit without transaction fails", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		assert.Error(t, uow.Commit(context.Background()))
	})
}

func TestIsNoRows(t *testing.T) {
	conn := openMemory(t)

	var name string
	err := conn.QueryRow(context.Background(), "SELECT name FROM items WHERE name = ?", "missing").Scan(&name)

	assert.True(t, database.IsNoRows(err))
	assert.False(t, database.IsNoRows(nil))
	assert.False(t, database.IsNoRows(errors.New("boom")))
}

func TestAfterCommit(t *testing.T) {
	t.Run("runs immediately without a transaction", func(t *testing.T) {
		ran := 0
		database.AfterCommit(context.Background(), func(context.Context) { ran++ })
		assert.Equal(t, 1, ran)
	})

	t.Run("waits for the owning commit", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		outer, err := uow.Begin(context.Background())
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)

		var seen []int
		var hadTx bool
		database.AfterCommit(inner, func(ctx context.Context) {
			seen = append(seen, countItems(t, conn))
			hadTx = database.TxFromContext(ctx) != nil
		})
		_, err = database.ExecutorFromContext(inner, conn).Exec(inner, "INSERT INTO items (name) VALUES (?)", "a")
		require.NoError(t, err)

		require.NoError(t, uow.Commit(inner))
		assert.Empty(t, seen, "nested commit must not fire hooks")

		require.NoError(t, uow.Commit(outer))
		assert.Equal(t, []int{1}, seen)
		assert.False(t, hadTx)
	})

	t.Run("dropped on rollback", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(context.Background())
		require.NoError(t, err)
		ran := false
		database.AfterCommit(txCtx, func(context.Context) { ran = true })
		require.NoError(t, uow.Rollback(txCtx))

		assert.False(t, ran)
	})
}
