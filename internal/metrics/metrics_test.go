package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	okBefore := testutil.ToFloat64(IndexBuilds.WithLabelValues(KindMulti, ResultOK))
	objBefore := testutil.ToFloat64(IndexedObjects.WithLabelValues(KindMulti))
	failBefore := testutil.ToFloat64(IndexBuilds.WithLabelValues(KindMulti, ResultKeymapFailed))

	ObserveBuild(KindMulti, ResultOK, 7, 10*time.Millisecond)
	ObserveBuild(KindMulti, ResultKeymapFailed, 3, time.Millisecond)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(IndexBuilds.WithLabelValues(KindMulti, ResultOK)))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(IndexBuilds.WithLabelValues(KindMulti, ResultKeymapFailed)))
	// failed builds contribute no objects
	assert.Equal(t, objBefore+7, testutil.ToFloat64(IndexedObjects.WithLabelValues(KindMulti)))
}

func TestRegistry_Gathers(t *testing.T) {
	ObserveBuild(KindSingle, ResultOK, 1, time.Millisecond)

	families, err := Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["blobidx_index_builds_total"])
	assert.True(t, names["blobidx_index_build_duration_seconds"])
	assert.True(t, names["go_goroutines"])
}
