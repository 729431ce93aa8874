package filestore_test

import (
	"context"
	"testing"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/memstore"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testData struct {
	Name string `json:"name" yaml:"name"`
	Blob []int  `json:"blob" yaml:"blob"`
}

func TestStructured_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New()
	want := &testData{Name: "Hello World", Blob: []int{1, 1, -1312, 233, 585}}

	for _, codec := range []filestore.Codec{filestore.JSON, filestore.YAML} {
		t.Run(codec.Name(), func(t *testing.T) {
			p := objname.MustParsePath("foo." + codec.Name())
			require.NoError(t, filestore.WriteStructured(ctx, sto, p, want, codec))

			got, err := filestore.ReadStructured[testData](ctx, sto, p, codec)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadJSON_Errors(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New().Put("broken", []byte("{not json"))

	_, err := filestore.ReadJSON[testData](ctx, sto, objname.MustParsePath("broken"))
	require.Error(t, err)
	assert.True(t, errs.IsDataFormat(err))
	assert.False(t, errs.IsStorage(err))

	_, err = filestore.ReadJSON[testData](ctx, sto, objname.MustParsePath("missing"))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.True(t, errs.IsStorage(err))
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	bad := map[string]any{"ch": make(chan int)}
	err := filestore.WriteJSON(context.Background(), memstore.New(), objname.MustParsePath("x"), &bad)
	require.Error(t, err)
	assert.True(t, errs.IsDataFormat(err))
}

func TestScope(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New().
		Put("a/b/one", []byte("1")).
		Put("a/b/two", []byte("2")).
		Put("top", []byte("t"))

	assert.Same(t, sto, filestore.Scope(sto, objname.Root()))

	ab := filestore.Scope(filestore.Scope(sto, objname.MustParsePath("a")), objname.MustParsePath("b"))
	names, err := ab.List(ctx, objname.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, names)

	data, err := ab.ReadBytes(ctx, objname.MustNew("two").Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), data)

	require.NoError(t, ab.WriteBytes(ctx, objname.MustNew("three").Path(), []byte("3")))
	data, err = sto.ReadBytes(ctx, objname.MustParsePath("a/b/three"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), data)
	assert.NoError(t, ab.Close())
}

func TestCodecByName(t *testing.T) {
	c, err := filestore.CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = filestore.CodecByName("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())

	_, err = filestore.CodecByName("toml")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  *filestore.Config
		ok   bool
	}{
		{"fs", filestore.DefaultFSConfig("/tmp/x"), true},
		{"fs no root", &filestore.Config{Provider: filestore.ProviderFS}, false},
		{"minio no bucket", filestore.DefaultConfig("localhost:9000", "a", "b"), false},
		{"minio", &filestore.Config{Provider: filestore.ProviderMinIO, Endpoint: "h:1", DefaultBucket: "b"}, true},
		{"postgres", &filestore.Config{Provider: filestore.ProviderPostgres, DSN: "postgres://x"}, true},
		{"mysql no dsn", &filestore.Config{Provider: filestore.ProviderMySQL}, false},
		{"unknown", &filestore.Config{Provider: "ftp"}, false},
		{"negative cache", &filestore.Config{Provider: filestore.ProviderFS, Root: "/r", CacheSize: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errs.IsInvalidInput(err), "%v", err)
			}
		})
	}

	assert.Equal(t, filestore.DefaultTable, (&filestore.Config{}).TableName())
	assert.Equal(t, "custom", (&filestore.Config{Table: "custom"}).TableName())
}
