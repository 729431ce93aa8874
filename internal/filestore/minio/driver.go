// Package minio provides a MinIO / S3 implementation of filestore.Store.
//
// Every object path resolves to a key inside the configured bucket;
// collections are "/"-delimited key prefixes.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	cfg.DefaultBucket = "documents"
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	names, err := store.List(ctx, objname.Root())
package minio

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/objname"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

var _ filestore.Store = (*Driver)(nil)

// New connects to MinIO using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if cfg.DefaultBucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "minio store requires a bucket")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client, bucket: cfg.DefaultBucket}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// --- filestore.Store implementation ---

// Ping verifies the MinIO server is reachable and the bucket exists.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return mapError(err, "ping failed")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket "+d.bucket+" does not exist")
	}
	return nil
}

// Close is a no-op for MinIO; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// List returns the direct children of dir. Common prefixes ("sub-folders")
// are reported by name without their trailing delimiter.
func (d *Driver) List(ctx context.Context, dir objname.Path) ([]string, error) {
	prefix := prefixOf(dir)
	listOpts := miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}

	var results []string
	for obj := range d.client.ListObjects(ctx, d.bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}
		if name := childName(prefix, obj.Key); name != "" {
			results = append(results, name)
		}
	}

	return results, nil
}

// ReadBytes downloads the object at p.
func (d *Driver) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, p.String(), miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	defer obj.Close()

	// GetObject is lazy: errors such as NoSuchKey surface on first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}

// WriteBytes uploads data as the object at p.
func (d *Driver) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	if p.IsRoot() {
		return errs.New(errs.ErrKindInvalidInput, "cannot write to the storage root")
	}

	_, err := d.client.PutObject(ctx, d.bucket, p.String(), bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return mapError(err, "failed to put object")
	}
	return nil
}

// --- key helpers ---

// prefixOf returns the listing prefix for dir: "" for the root,
// otherwise the path followed by the delimiter.
func prefixOf(dir objname.Path) string {
	if dir.IsRoot() {
		return ""
	}
	return dir.String() + objname.Separator
}

// childName strips prefix from key and drops the trailing delimiter that
// MinIO appends to common prefixes. It returns "" for the prefix itself.
func childName(prefix, key string) string {
	rest := strings.TrimPrefix(key, prefix)
	return strings.TrimSuffix(rest, objname.Separator)
}
