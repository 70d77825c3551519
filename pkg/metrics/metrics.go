package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Metrics are registered on the default registry through promauto.

var (
	// HttpRequestsTotal counts requests by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorgraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kektorgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// Entities tracks the number of entities in the graph.
	Entities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kektorgraph_entities",
		Help: "Number of entities in the graph",
	})

	// Relationships tracks the number of edges in the graph.
	Relationships = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kektorgraph_relationships",
		Help: "Number of relationships in the graph",
	})

	// RelationshipTypes mirrors the relationship-type counter, one series per label.
	RelationshipTypes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kektorgraph_relationship_type_count",
			Help: "Counter value per relationship label",
		},
		[]string{"relationship"},
	)

	// PathSearchDuration measures FindPaths and ShortestPath.
	PathSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kektorgraph_path_search_duration_seconds",
			Help:    "Duration of path searches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"kind"},
	)

	// PathsFound observes the total paths reported by FindPaths.
	PathsFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kektorgraph_paths_found",
		Help:    "Number of paths found per FindPaths call",
		Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 1000},
	})

	// ImportedRows counts bulk rows by outcome ("added", "failed", "skipped").
	ImportedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorgraph_imported_rows_total",
			Help: "Rows processed by batch and CSV imports",
		},
		[]string{"outcome"},
	)
)

// StatsSource is anything that can report current graph statistics.
type StatsSource interface {
	Stats() graph.Stats
}

var (
	statsMu     sync.Mutex
	statsLabels = map[string]struct{}{}
)

// ObserveGraph publishes the current statistics of src to the gauges. Calls are
// serialized and read src under the lock, so the last call always publishes the
// latest state.
func ObserveGraph(src StatsSource) {
	statsMu.Lock()
	defer statsMu.Unlock()

	s := src.Stats()
	Entities.Set(float64(s.TotalEntities))
	Relationships.Set(float64(s.TotalRelationships))

	for label, n := range s.RelationshipTypes {
		RelationshipTypes.WithLabelValues(label).Set(float64(n))
		statsLabels[label] = struct{}{}
	}
	for label := range statsLabels {
		if _, ok := s.RelationshipTypes[label]; !ok {
			RelationshipTypes.DeleteLabelValues(label)
			delete(statsLabels, label)
		}
	}
}
