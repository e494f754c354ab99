package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ingestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ordersight_ingest_runs_total",
		Help: "Ingestion runs, labelled by detected platform.",
	}, []string{"platform"})

	rowsNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordersight_rows_normalized_total",
		Help: "Canonical line-item rows produced by ingestion.",
	})

	structuralErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordersight_structural_errors_total",
		Help: "Structural row errors surviving ingestion.",
	})
)

// ObserveIngest records the outcome of one ingestion run.
func ObserveIngest(platform string, rows, errs int) {
	ingestRuns.WithLabelValues(platform).Inc()
	rowsNormalized.Add(float64(rows))
	structuralErrors.Add(float64(errs))
}

// MetricsHandler exposes the prometheus registry over HTTP.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
