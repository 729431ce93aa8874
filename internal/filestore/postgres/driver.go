// Package postgres provides a PostgreSQL implementation of filestore.Store.
//
// Objects live in a single blob table (see package sqlblob for the layout).
//
// Usage:
//
//	cfg := &filestore.Config{Provider: filestore.ProviderPostgres, DSN: dsn}
//	store, err := postgres.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.EnsureSchema(ctx); err != nil { ... }
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/sqlblob"
	"github.com/koustreak/blobidx/internal/objname"
)

// Driver is a PostgreSQL implementation of filestore.Store backed by pgxpool.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	pool *pgxpool.Pool
	q    queries
}

var _ filestore.Store = (*Driver)(nil)

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	table := cfg.TableName()
	if err := sqlblob.ValidateTable(table); err != nil {
		return nil, err
	}

	pool, err := buildPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{pool: pool, q: buildQueries(table)}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// EnsureSchema creates the blob table if it does not exist yet.
func (d *Driver) EnsureSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, d.q.createTable); err != nil {
		return mapError(err, "failed to create blob table")
	}
	return nil
}

// --- filestore.Store implementation ---

// Ping verifies the database is reachable by acquiring and releasing a connection.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close drains the connection pool. Call when the application shuts down.
func (d *Driver) Close() error {
	d.pool.Close()
	return nil
}

// List returns the objects stored directly in dir followed by the names of
// its sub-collections.
func (d *Driver) List(ctx context.Context, dir objname.Path) ([]string, error) {
	objects, err := d.fetchStringList(ctx, d.q.listObjects, dir.String(), "failed to list objects")
	if err != nil {
		return nil, err
	}
	subdirs, err := d.fetchStringList(ctx, d.q.listSubdirs, sqlblob.ChildPrefix(dir), "failed to list collections")
	if err != nil {
		return nil, err
	}
	return sqlblob.Merge(objects, subdirs), nil
}

// ReadBytes returns the data column of the row addressed by p.
func (d *Driver) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	dir, name, err := sqlblob.Key(p)
	if err != nil {
		return nil, err
	}

	var data []byte
	if err := d.pool.QueryRow(ctx, d.q.read, dir, name).Scan(&data); err != nil {
		return nil, mapError(err, "failed to read object "+p.String())
	}
	return data, nil
}

// WriteBytes inserts or replaces the row addressed by p.
func (d *Driver) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	dir, name, err := sqlblob.Key(p)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	if _, err := d.pool.Exec(ctx, d.q.upsert, dir, name, data); err != nil {
		return mapError(err, "failed to write object "+p.String())
	}
	return nil
}

// fetchStringList is a helper for queries that return a single text column.
func (d *Driver) fetchStringList(ctx context.Context, q, arg, errMsg string) ([]string, error) {
	rows, err := d.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, mapError(err, errMsg)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, mapError(err, errMsg)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, errMsg)
	}
	return list, nil
}
