package server

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore/memstore"
	"github.com/koustreak/blobidx/internal/index"
	"github.com/koustreak/blobidx/internal/keymap"
	"github.com/koustreak/blobidx/internal/logger"
	"github.com/koustreak/blobidx/internal/metrics"
	"github.com/koustreak/blobidx/internal/objname"
)

type hit struct {
	Score float64 `json:"score"`
	Item  string  `json:"item"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sto := memstore.New().
		Put("a", []byte(`{"size": "1"}`)).
		Put("b", []byte(`{"size": "5"}`)).
		Put("c", []byte(`{"size": "5"}`)).
		Put("d", []byte(`{"size": "12"}`))

	idx, err := index.Index(context.Background(), sto, objname.Root(),
		keymap.JSONField("size"), index.WithLogger(logger.Nop()), index.WithMetrics(false))
	require.NoError(t, err)

	return New(idx, keymap.TextProximity, Config{Logger: logger.Nop()})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestKeysSorted(t *testing.T) {
	rec := get(t, newTestServer(t), "/keys")
	require.Equal(t, http.StatusOK, rec.Code)

	var keys []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	assert.Equal(t, []string{"1", "12", "5"}, keys)
}

func TestObjects(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/objects/5")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.ElementsMatch(t, []string{"b", "c"}, names)

	rec = get(t, s, "/objects/404")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/search?q=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var hits []hit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 4)
	assert.Equal(t, 0.0, hits[0].Score)
	assert.ElementsMatch(t, []string{"b", "c"}, []string{hits[0].Item, hits[1].Item})
	assert.Equal(t, -2.0, hits[2].Score)
	assert.Equal(t, "a", hits[2].Item)
	assert.Equal(t, "d", hits[3].Item)

	rec = get(t, s, "/search?q=4&limit=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	assert.Len(t, hits, 1)
}

func TestSearch_NaNIsUnprocessable(t *testing.T) {
	s := newTestServer(t)
	before := testutil.ToFloat64(metrics.SearchRequests.WithLabelValues(errs.ErrKindIndexing.String()))

	rec := get(t, s, "/search?q=four")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "score evaluates to NaN")
	assert.Contains(t, rec.Body.String(), `"kind":"indexing"`)

	after := testutil.ToFloat64(metrics.SearchRequests.WithLabelValues(errs.ErrKindIndexing.String()))
	assert.Equal(t, before+1, after)
}

// failingLookup has keys but cannot resolve them.
type failingLookup struct{}

func (failingLookup) Get(string) ([]objname.Name, error) {
	return nil, errs.New(errs.ErrKindIOFailed, "backend gone")
}

func (failingLookup) Keys() iter.Seq[string] {
	return func(yield func(string) bool) { yield("k") }
}

func TestSearch_LookupFailureLabelledByKind(t *testing.T) {
	s := New(failingLookup{}, keymap.PrefixScore, Config{Logger: logger.Nop()})
	ioBefore := testutil.ToFloat64(metrics.SearchRequests.WithLabelValues("io_failed"))
	nanBefore := testutil.ToFloat64(metrics.SearchRequests.WithLabelValues(errs.ErrKindIndexing.String()))

	rec := get(t, s, "/search?q=k")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"io_failed"`)

	assert.Equal(t, ioBefore+1, testutil.ToFloat64(metrics.SearchRequests.WithLabelValues("io_failed")))
	assert.Equal(t, nanBefore, testutil.ToFloat64(metrics.SearchRequests.WithLabelValues(errs.ErrKindIndexing.String())))
}

func TestSearch_BadLimit(t *testing.T) {
	rec := get(t, newTestServer(t), "/search?q=1&limit=-3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/search?q=1")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "blobidx_search_requests_total"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
