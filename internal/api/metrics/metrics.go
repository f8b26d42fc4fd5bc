// Package metrics defines and registers all custom Prometheus metrics for
// the Groomly platform API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groomly"

// ── Hydration metrics ─────────────────────────────────────────────────────────

// HydrationsTotal counts completed hydration cycles.
// Label:
//   - outcome: "authenticated", "anonymous", or "degraded" (identity present
//     but profile or business missing)
var HydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hydrations_total",
		Help:      "Total number of auth snapshot hydration cycles, by outcome.",
	},
	[]string{"outcome"},
)

// HydrationDuration measures how long one hydration cycle takes end-to-end.
var HydrationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hydration_duration_seconds",
		Help:      "Duration of a hydration cycle from trigger to committed snapshot.",
		Buckets:   prometheus.DefBuckets,
	},
)

// StaleHydrationsTotal counts hydration results discarded because a fresher
// generation started for the same session before they committed.
var StaleHydrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_hydrations_total",
		Help:      "Total number of hydration results discarded as superseded.",
	},
)

// ── Route guard metrics ───────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard verdicts.
// Label:
//   - outcome: "render", "wait", "unauthenticated", or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Impersonation metrics ─────────────────────────────────────────────────────

// ImpersonationRedemptionsTotal counts token redemption attempts.
// Label:
//   - result: "success", "invalid", "expired", or "business_not_found"
var ImpersonationRedemptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impersonation_redemptions_total",
		Help:      "Total number of impersonation token redemption attempts, by result.",
	},
	[]string{"result"},
)

// ImpersonationTokensIssuedTotal counts tokens minted by administrators.
var ImpersonationTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impersonation_tokens_issued_total",
		Help:      "Total number of impersonation tokens issued.",
	},
)
