package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBytes = []byte{0xde, 0xad, 0xfa, 0xce}

func TestDriver_WriteListRead(t *testing.T) {
	ctx := context.Background()
	sto := New(t.TempDir())
	require.NoError(t, sto.Ping(ctx))

	foo := objname.MustNew("foo").Path()
	require.NoError(t, sto.WriteBytes(ctx, foo, testBytes))

	lst, err := sto.List(ctx, objname.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, lst)

	data, err := sto.ReadBytes(ctx, foo)
	require.NoError(t, err)
	assert.Equal(t, testBytes, data)
}

func TestDriver_NestedCollections(t *testing.T) {
	ctx := context.Background()
	sto := New(t.TempDir())

	require.NoError(t, sto.WriteBytes(ctx, objname.MustParsePath("docs/a"), []byte("a")))
	require.NoError(t, sto.WriteBytes(ctx, objname.MustParsePath("docs/b"), []byte("b")))
	require.NoError(t, sto.WriteBytes(ctx, objname.MustParsePath("docs/deep/c"), []byte("c")))

	lst, err := sto.List(ctx, objname.MustParsePath("docs"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "deep"}, lst)

	scoped := filestore.Scope(sto, objname.MustParsePath("docs"))
	data, err := scoped.ReadBytes(ctx, objname.MustNew("b").Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
}

func TestDriver_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sto := New(dir)

	_, err := sto.ReadBytes(ctx, objname.MustNew("missing").Path())
	assert.True(t, errs.IsNotFound(err))

	_, err = sto.List(ctx, objname.MustParsePath("nope"))
	assert.True(t, errs.IsNotFound(err))

	assert.True(t, errs.IsInvalidInput(sto.WriteBytes(ctx, objname.Root(), nil)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sto.List(cancelled, objname.Root())
	assert.True(t, errs.IsTimeout(err))

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.True(t, errs.IsInvalidInput(New(file).Ping(ctx)))
	assert.True(t, errs.IsNotFound(New(filepath.Join(dir, "absent")).Ping(ctx)))
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil, "x"))
	assert.Equal(t, errs.ErrKindPermissionDenied, mapError(os.ErrPermission, "x").Kind)
	assert.Equal(t, errs.ErrKindIOFailed, mapError(os.ErrClosed, "x").Kind)
}
