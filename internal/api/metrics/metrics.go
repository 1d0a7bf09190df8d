// Package metrics defines the custom Prometheus metrics of the storefront API.
// HTTP request metrics come from echoprometheus; everything here describes
// domain outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// EnvelopesTotal counts service results rendered to clients.
// Labels:
//   - context: the operation that produced the envelope (e.g. "getProducts")
//   - outcome: "success" or "failure"
var EnvelopesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "envelopes_total",
		Help:      "Total number of service envelopes rendered, by operation and outcome.",
	},
	[]string{"context", "outcome"},
)

// CartMutationsTotal counts cart changes.
// Label:
//   - op: "add", "adjust", "remove" or "clear"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of successful cart mutations.",
	},
	[]string{"op"},
)

// ExportsTotal counts spreadsheet exports.
// Labels:
//   - collection: "users", "products", "categories" or "roles"
//   - result: "ok", "empty" or "error"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of spreadsheet exports, by collection and result.",
	},
	[]string{"collection", "result"},
)

// ExportRows observes how many rows an export wrote.
var ExportRows = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_rows",
		Help:      "Number of rows written per spreadsheet export.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
)

// SessionEventsTotal counts session-change events applied by the dispatcher.
// Label:
//   - kind: "sign_in", "sign_out" or "refresh"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session-change events applied.",
	},
	[]string{"kind"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "authorized", "unauthenticated", "forbidden" or "loading"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of protected-route checks, by decision.",
	},
	[]string{"decision"},
)
