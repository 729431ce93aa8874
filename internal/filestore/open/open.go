// Package open builds a filestore.Store from a filestore.Config.
//
// It is the only package that imports every backend, so the rest of the
// code base keeps depending on the filestore interface alone.
package open

import (
	"context"
	"fmt"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/cache"
	"github.com/koustreak/blobidx/internal/filestore/fs"
	"github.com/koustreak/blobidx/internal/filestore/minio"
	"github.com/koustreak/blobidx/internal/filestore/mysql"
	"github.com/koustreak/blobidx/internal/filestore/postgres"
)

// schemaEnsurer is implemented by the SQL backends.
type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// Store validates cfg, connects to the configured backend and, when
// cfg.CacheSize > 0, wraps it in an LRU read cache.
func Store(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "store config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if se, ok := s.(schemaEnsurer); ok {
		if err := se.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	if cfg.CacheSize > 0 {
		return cache.New(s, cfg.CacheSize), nil
	}
	return s, nil
}

func connect(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Provider {
	case filestore.ProviderFS:
		d := fs.New(cfg.Root)
		if err := d.Ping(ctx); err != nil {
			return nil, err
		}
		return d, nil
	case filestore.ProviderMinIO:
		return minio.New(ctx, cfg)
	case filestore.ProviderPostgres:
		return postgres.New(ctx, cfg)
	case filestore.ProviderMySQL:
		return mysql.New(ctx, cfg)
	}
	return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown store provider %q", cfg.Provider))
}
