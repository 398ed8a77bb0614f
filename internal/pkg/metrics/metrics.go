// Package metrics defines and registers the custom Prometheus metrics of the
// user service. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics register with the default registry on import via promauto, so
// they are served by the same /metrics handler as the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Authentication ───────────────────────────────────────────────────────────

// AuthenticationsTotal counts Authentication Guard outcomes.
// Labels:
//   - result: "authenticated" or "rejected"
//   - reason: "ok", "missing_credential", "invalid_credential", "expired", "error"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of bearer credential checks, by result and reason.",
	},
	[]string{"result", "reason"},
)

// AuthorizationDecisionsTotal counts Decision Engine outcomes.
// Labels:
//   - operation: the route's operation name (e.g. "users.delete")
//   - effect: "allow" or "deny"
//   - rule: the rule that produced the decision
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization decisions, by operation, effect and rule.",
	},
	[]string{"operation", "effect", "rule"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "failure", "blocked", "invalid"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly created accounts.
// Label:
//   - role: "USER" or "ADMIN"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// ── Password hashing ─────────────────────────────────────────────────────────

// HashQueueDepth tracks jobs waiting for a password hashing worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "password_hash_queue_depth",
		Help:      "Current number of password hash jobs waiting for a worker.",
	},
)

// HashDuration measures a single bcrypt operation.
// Label:
//   - op: "hash" or "verify"
var HashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt hash and verify operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)
