// Package fs provides a local-directory implementation of filestore.Store.
//
// Usage:
//
//	store := fs.New("/var/lib/blobs")
//	names, err := store.List(ctx, objname.Root())
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/objname"
)

// Driver stores each object as a file below a base directory.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	base string
}

var _ filestore.Store = (*Driver)(nil)

// New returns a Driver rooted at base. The directory is not created.
func New(base string) *Driver {
	return &Driver{base: filepath.Clean(base)}
}

// Base returns the directory the driver is rooted at.
func (d *Driver) Base() string {
	return d.base
}

// Ping checks that the base directory exists.
func (d *Driver) Ping(_ context.Context) error {
	info, err := os.Stat(d.base)
	if err != nil {
		return mapError(err, "base directory is not accessible")
	}
	if !info.IsDir() {
		return errs.New(errs.ErrKindInvalidInput, "base path "+d.base+" is not a directory")
	}
	return nil
}

// Close is a no-op; the driver holds no open handles between calls.
func (d *Driver) Close() error {
	return nil
}

// List reads dir one level deep and returns the entry names.
func (d *Driver) List(ctx context.Context, dir objname.Path) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err, "list cancelled")
	}

	entries, err := os.ReadDir(d.resolve(dir))
	if err != nil {
		return nil, mapError(err, "failed to list "+quote(dir))
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// ReadBytes returns the content of the file at p.
func (d *Driver) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err, "read cancelled")
	}

	data, err := os.ReadFile(d.resolve(p))
	if err != nil {
		return nil, mapError(err, "failed to read "+quote(p))
	}
	return data, nil
}

// WriteBytes writes data to the file at p, creating parent directories.
func (d *Driver) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	if err := ctx.Err(); err != nil {
		return mapError(err, "write cancelled")
	}
	if p.IsRoot() {
		return errs.New(errs.ErrKindInvalidInput, "cannot write to the storage root")
	}

	path := d.resolve(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return mapError(err, "failed to create parent of "+quote(p))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return mapError(err, "failed to write "+quote(p))
	}
	return nil
}

// resolve joins p under the base directory. Every component of p is a
// validated objname.Name, so the result never escapes base.
func (d *Driver) resolve(p objname.Path) string {
	parts := make([]string, 0, p.Len()+1)
	parts = append(parts, d.base)
	for _, n := range p.Names() {
		parts = append(parts, n.String())
	}
	return filepath.Join(parts...)
}

func quote(p objname.Path) string {
	return "\"" + p.String() + "\""
}
