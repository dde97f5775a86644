// Package metrics exposes Prometheus instruments for catalog imports.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Catalog import runs by terminal status.",
	}, []string{"status"})

	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Wall time of catalog import runs.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"status"})

	importsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "in_flight",
		Help:      "Catalog imports currently running.",
	})

	nodesPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "nodes_persisted_total",
		Help:      "Catalog nodes persisted without error.",
	})

	recipeEdges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "recipe_edges_total",
		Help:      "Recipe edges written.",
	})

	droppedComponents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "dropped_components_total",
		Help:      "Recipe components dropped because their SKU did not resolve.",
	})

	entityErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "entity_errors_total",
		Help:      "Per-entity persistence failures by entity kind.",
	}, []string{"entity"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
)

// ImportResult carries what one finished import contributes to the counters.
type ImportResult struct {
	Status            string
	Duration          time.Duration
	NodesPersisted    int
	RecipeEdges       int
	DroppedComponents int
	ErrorsByEntity    map[string]int
}

// ImportStarted marks an import as running and returns its completion hook.
func ImportStarted() func() {
	importsInFlight.Inc()
	return importsInFlight.Dec
}

// ObserveImport records a finished import.
func ObserveImport(r ImportResult) {
	importsTotal.WithLabelValues(r.Status).Inc()
	importDuration.WithLabelValues(r.Status).Observe(r.Duration.Seconds())
	nodesPersisted.Add(float64(r.NodesPersisted))
	recipeEdges.Add(float64(r.RecipeEdges))
	droppedComponents.Add(float64(r.DroppedComponents))
	for entity, n := range r.ErrorsByEntity {
		entityErrors.WithLabelValues(entity).Add(float64(n))
	}
}

// ObserveHTTP counts one served request.
func ObserveHTTP(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
