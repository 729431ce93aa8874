// Package mysql provides a MySQL implementation of filestore.Store.
//
// Objects live in a single blob table (see package sqlblob for the layout).
//
// Usage:
//
//	cfg := &filestore.Config{Provider: filestore.ProviderMySQL, DSN: "user:pass@tcp(localhost:3306)/blobs"}
//	store, err := mysql.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package mysql

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/sqlblob"
	"github.com/koustreak/blobidx/internal/objname"
)

// Driver implements filestore.Store for MySQL using database/sql.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
	q  queries
}

var _ filestore.Store = (*Driver)(nil)

// New opens the connection pool and verifies it with Ping.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	table := cfg.TableName()
	if err := sqlblob.ValidateTable(table); err != nil {
		return nil, err
	}

	db, err := buildPool(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{db: db, q: buildQueries(table)}
	if err := d.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// EnsureSchema creates the blob table if it does not exist yet.
func (d *Driver) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, d.q.createTable); err != nil {
		return mapError(err, "failed to create blob table")
	}
	return nil
}

// --- filestore.Store implementation ---

// Ping verifies the connection is alive
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close shuts down the connection pool
func (d *Driver) Close() error {
	return d.db.Close()
}

// List returns the objects stored directly in dir followed by the names of
// its sub-collections.
func (d *Driver) List(ctx context.Context, dir objname.Path) ([]string, error) {
	objects, err := d.fetchStringList(ctx, "failed to list objects", d.q.listObjects, dir.String())
	if err != nil {
		return nil, err
	}

	prefix := sqlblob.ChildPrefix(dir)
	subdirs, err := d.fetchStringList(ctx, "failed to list collections", d.q.listSubdirs, prefix, prefix, prefix)
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
	if err := d.db.QueryRowContext(ctx, d.q.read, dir, name).Scan(&data); err != nil {
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
	if err := checkWidths(dir, name); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	if _, err := d.db.ExecContext(ctx, d.q.upsert, dir, name, data); err != nil {
		return mapError(err, "failed to write object "+p.String())
	}
	return nil
}

// checkWidths rejects keys that do not fit the table's columns.
func checkWidths(dir, name string) error {
	if n := utf8.RuneCountInString(dir); n > maxDirChars {
		return errs.Newf(errs.ErrKindInvalidInput,
			"collection path is %d characters, the mysql store allows %d", n, maxDirChars)
	}
	if n := utf8.RuneCountInString(name); n > maxNameChars {
		return errs.Newf(errs.ErrKindInvalidInput,
			"object name is %d characters, the mysql store allows %d", n, maxNameChars)
	}
	return nil
}

func (d *Driver) fetchStringList(ctx context.Context, errMsg, q string, args ...any) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, q, args...)
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
