// Package bunstore implements the storage contracts on the bun ORM.
// SQLite backs tests and local development, Postgres backs production;
// all SQL goes through the same generic store types.
package bunstore

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens a SQLite-backed bun.DB. For an in-memory database
// use "file::memory:?cache=shared"; the connection pool is pinned to
// one connection so the shared memory database is not dropped between
// pooled connections.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens a Postgres-backed bun.DB from a lib/pq DSN.
func OpenPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}
