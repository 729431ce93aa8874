package mysql

import (
	"database/sql"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
	defaultDialTimeout     = 5 * time.Second
)

// buildPool configures and returns a *sql.DB with pool settings
func buildPool(cfg *filestore.Config) (*sql.DB, error) {
	dsnCfg, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	connector, err := gomysql.NewConnector(dsnCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql config", err)
	}
	db := sql.OpenDB(connector)

	// Pool settings
	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(defaultMaxIdleConns, maxOpen))
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	return db, nil
}

// parseDSN parses a go-sql-driver DSN (user:pass@tcp(host:port)/dbname)
// and applies the settings the blob store relies on.
func parseDSN(dsn string) (*gomysql.Config, error) {
	c, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql DSN", err)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultDialTimeout
	}
	c.ParseTime = true
	// One statement per query; the table name is interpolated.
	c.MultiStatements = false
	return c, nil
}
