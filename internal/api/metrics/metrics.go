// Package metrics defines the custom Prometheus metrics of the task API. All
// metrics are registered with the default registry on package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskapi"

// ── Authentication ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "conflict", "invalid" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests refused by the authenticate middleware.
// Label:
//   - reason: "missing", "expired", "invalid" or "unknown_identity"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Authorization ────────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts role and ownership decisions.
// Labels:
//   - operation: "role", "read", "update" or "delete"
//   - result: "allow", "deny" or "not_found"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because the worker
// queue was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full queue.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each audit worker.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
)
