// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Repository metrics
	QueriesExecuted *prometheus.CounterVec
	QueryErrors     *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec

	// Workflow metrics
	WorkflowOutcomes      *prometheus.CounterVec
	TransactionsSubmitted prometheus.Counter

	// Feed metrics
	OrderEventsReceived prometheus.Counter
	FeedReconnects      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "nft_market_client"
	}

	return &Metrics{
		QueriesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "queries_executed_total",
			Help:      "Total number of indexer queries executed, by operation",
		}, []string{"operation"}),
		QueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "query_errors_total",
			Help:      "Total number of failed indexer queries, by operation",
		}, []string{"operation"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "query_duration_seconds",
			Help:      "Indexer query duration, by operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		WorkflowOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "workflow_outcomes_total",
			Help:      "Total number of settled workflow invocations, by workflow and outcome",
		}, []string{"workflow", "outcome"}),
		TransactionsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "transactions_submitted_total",
			Help:      "Total number of contract writes submitted",
		}),

		OrderEventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "order_events_received_total",
			Help:      "Total number of order events received from the indexer feed",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of websocket feed reconnects",
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
