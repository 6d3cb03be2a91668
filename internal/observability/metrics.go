package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_pages_fetched_total",
			Help: "Product listing pages fetched",
		},
	)
	ProductsEnriched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_enriched_total",
			Help: "Products enriched with SKU identifiers",
		},
	)
	EnrichmentFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_enrichment_failures_total",
			Help: "Products dropped because enrichment failed",
		},
	)
	BatchesResolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sku_batches_resolved_total",
			Help: "SKU batches resolved successfully",
		},
	)
	BatchesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sku_batches_recorded_total",
			Help: "Failed SKU batches captured as error records",
		},
	)
	BatchesReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sku_batches_replayed_total",
			Help: "Error records replayed successfully",
		},
	)
	BatchReplaysFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sku_batch_replays_failed_total",
			Help: "Replay attempts that failed again",
		},
	)
)

// Start registers the counters and serves /metrics in the background.
func Start(port int) {
	prometheus.MustRegister(
		PagesFetched,
		ProductsEnriched,
		EnrichmentFailures,
		BatchesResolved,
		BatchesRecorded,
		BatchesReplayed,
		BatchReplaysFailed,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}
