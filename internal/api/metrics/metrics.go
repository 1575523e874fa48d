// Package metrics defines and registers the custom Prometheus metrics of the
// example API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; request-level metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "example_api"

// Result label values shared by the counters below.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemsOperationsTotal counts item operations by outcome.
// Labels:
//   - operation: "list", "get", "create", "update" or "delete"
//   - result: one of the Result* constants
var ItemsOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_operations_total",
		Help:      "Total number of item operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ItemsPageSize observes the number of items returned per list call.
var ItemsPageSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "items_page_size",
		Help:      "Number of items returned by a single list request.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 500, 2000},
	},
)

// ── Cache-test metrics ────────────────────────────────────────────────────────

// CacheOperationsTotal counts cache-test calls.
// Labels:
//   - operation: "set", "get", "delete" or "keys"
//   - result: "hit"/"miss" for reads and deletes, "success"/"error" otherwise
var CacheOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Total number of cache-test operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests refused by the authorization gate.
// Label:
//   - reason: "missing_token", "invalid_token" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)
