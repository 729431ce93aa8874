// Package metrics holds the prometheus collectors for index builds.
//
// Collectors are registered on Registry rather than the default registerer
// so tests and embedders get a clean, predictable set.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Build kinds and results used as label values.
const (
	KindSingle = "index"
	KindMulti  = "multi_index"

	ResultOK           = "ok"
	ResultListFailed   = "list_failed"
	ResultInvalidName  = "invalid_name"
	ResultKeymapFailed = "keymap_failed"
	ResultCancelled    = "cancelled"

	// Search results besides ResultOK and error kinds.
	ResultBadRequest = "bad_request"
)

// IndexBuilds counts finished builds by kind and result.
var IndexBuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blobidx",
	Subsystem: "index",
	Name:      "builds_total",
	Help:      "Index builds by kind and outcome.",
}, []string{"kind", "result"})

// IndexedObjects counts objects folded into successful builds.
var IndexedObjects = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blobidx",
	Subsystem: "index",
	Name:      "objects_total",
	Help:      "Objects whose keys were folded into a successful build.",
}, []string{"kind"})

// KeymapFailures counts builds aborted by a keymap error.
var KeymapFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blobidx",
	Subsystem: "index",
	Name:      "keymap_failures_total",
	Help:      "Builds aborted by a keymap error.",
}, []string{"kind"})

// BuildDuration observes build wall time by kind.
var BuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "blobidx",
	Subsystem: "index",
	Name:      "build_duration_seconds",
	Help:      "Wall time of index builds, listing included.",
	Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
}, []string{"kind"})

// SearchRequests counts ranked searches by result; failures are labelled
// with the error kind, e.g. "indexing" for a NaN score.
var SearchRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blobidx",
	Subsystem: "search",
	Name:      "requests_total",
	Help:      "Ranked searches by outcome.",
}, []string{"result"})

// Registry carries every blobidx collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		IndexBuilds,
		IndexedObjects,
		KeymapFailures,
		BuildDuration,
		SearchRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveBuild records the outcome of one build.
func ObserveBuild(kind, result string, objects int, elapsed time.Duration) {
	IndexBuilds.WithLabelValues(kind, result).Inc()
	BuildDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if result == ResultOK {
		IndexedObjects.WithLabelValues(kind).Add(float64(objects))
	}
}
