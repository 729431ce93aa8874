package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/memstore"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts ReadBytes calls reaching the wrapped store.
type countingStore struct {
	filestore.Store
	reads atomic.Int64
}

func (c *countingStore) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	c.reads.Add(1)
	return c.Store.ReadBytes(ctx, p)
}

func TestStore_CachesReads(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: memstore.New().Put("foo", []byte("v1"))}
	sto := New(inner, 8)
	foo := objname.MustNew("foo").Path()

	for range 3 {
		data, err := sto.ReadBytes(ctx, foo)
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), data)
	}
	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Equal(t, 1, sto.Len())
}

func TestStore_WriteInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: memstore.New().Put("foo", []byte("v1"))}
	sto := New(inner, 8)
	foo := objname.MustNew("foo").Path()

	_, err := sto.ReadBytes(ctx, foo)
	require.NoError(t, err)
	require.NoError(t, sto.WriteBytes(ctx, foo, []byte("v2")))

	data, err := sto.ReadBytes(ctx, foo)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
	assert.Equal(t, int64(2), inner.reads.Load())
}

// stallingStore blocks WriteBytes until release is closed.
type stallingStore struct {
	filestore.Store
	entered chan struct{}
	release chan struct{}
}

func (s *stallingStore) WriteBytes(ctx context.Context, p objname.Path, data []byte) error {
	close(s.entered)
	<-s.release
	return s.Store.WriteBytes(ctx, p, data)
}

func TestStore_ReadDuringWriteDoesNotCacheStaleData(t *testing.T) {
	ctx := context.Background()
	inner := &stallingStore{
		Store:   memstore.New().Put("obj", []byte("old")),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sto := New(inner, 8)
	obj := objname.MustNew("obj").Path()

	done := make(chan error, 1)
	go func() { done <- sto.WriteBytes(ctx, obj, []byte("new")) }()
	<-inner.entered

	data, err := sto.ReadBytes(ctx, obj)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), data)

	close(inner.release)
	require.NoError(t, <-done)

	data, err = sto.ReadBytes(ctx, obj)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

// slowReadStore fetches from the wrapped store, then blocks until release
// is closed before returning.
type slowReadStore struct {
	filestore.Store
	fetched chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowReadStore) ReadBytes(ctx context.Context, p objname.Path) ([]byte, error) {
	data, err := s.Store.ReadBytes(ctx, p)
	s.once.Do(func() { close(s.fetched) })
	<-s.release
	return data, err
}

func TestStore_WriteDuringReadDropsFill(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New().Put("obj", []byte("old"))
	inner := &slowReadStore{
		Store:   mem,
		fetched: make(chan struct{}),
		release: make(chan struct{}),
	}
	sto := New(inner, 8)
	obj := objname.MustNew("obj").Path()

	done := make(chan []byte, 1)
	go func() {
		data, _ := sto.ReadBytes(ctx, obj)
		done <- data
	}()
	<-inner.fetched

	require.NoError(t, sto.WriteBytes(ctx, obj, []byte("new")))
	close(inner.release)
	assert.Equal(t, []byte("old"), <-done)
	assert.Equal(t, 0, sto.Len())

	data, err := sto.ReadBytes(ctx, obj)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	sto := New(memstore.New().Put("foo", []byte("abc")), 8)
	foo := objname.MustNew("foo").Path()

	first, err := sto.ReadBytes(ctx, foo)
	require.NoError(t, err)
	first[0] = 'X'

	second, err := sto.ReadBytes(ctx, foo)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second)
}

func TestStore_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: memstore.New()}
	sto := New(inner, 0)

	for range 2 {
		_, err := sto.ReadBytes(ctx, objname.MustNew("missing").Path())
		assert.True(t, errs.IsNotFound(err))
	}
	assert.Equal(t, int64(2), inner.reads.Load())
	assert.Equal(t, 0, sto.Len())
}

func TestStore_Eviction(t *testing.T) {
	ctx := context.Background()
	sto := New(memstore.New().Put("a", nil).Put("b", nil).Put("c", nil), 2)

	for _, n := range []string{"a", "b", "c"} {
		_, err := sto.ReadBytes(ctx, objname.MustNew(n).Path())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, sto.Len())

	sto.Purge()
	assert.Equal(t, 0, sto.Len())
	assert.NoError(t, sto.Close())
}
