package kv

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a KVStore that can also purge expired entries.
type Store interface {
	interfaces.KVStore
	interfaces.KVPurger
}

// Opened bundles an opened store with the function releasing its resources.
type Opened struct {
	Store Store
	DB    *bun.DB
	close func() error
}

// Close releases the underlying database, when there is one.
func (o *Opened) Close() error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close()
}

// Open builds the store for driver. SQL drivers get their schema created.
func Open(ctx context.Context, driver, dsn string) (*Opened, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return &Opened{Store: NewMemoryStore()}, nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:blog.db?cache=shared&_fk=1"
		}
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("kv: open sqlite: %w", err)
		}
		return openBun(ctx, bun.NewDB(sqldb, sqlitedialect.New()))
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("kv: postgres driver requires a dsn")
		}
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("kv: open postgres: %w", err)
		}
		return openBun(ctx, bun.NewDB(sqldb, pgdialect.New()))
	default:
		return nil, fmt.Errorf("kv: unsupported driver %q", driver)
	}
}

func openBun(ctx context.Context, db *bun.DB) (*Opened, error) {
	store := NewBunStore(db)
	if err := store.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Opened{Store: store, DB: db, close: db.Close}, nil
}
