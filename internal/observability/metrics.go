package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AICalls counts outbound generative-AI calls by kind and outcome.
	// outcome is "ok", "degraded" (fallback substituted) or "rejected".
	AICalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_ai_calls_total",
		Help: "Total generative-AI calls by kind and outcome",
	}, []string{"kind", "outcome"})

	// UnknownStackLabels counts analysis results whose document-stack label is
	// outside the six recognized values. The labels are advisory, so the
	// result is still served; this counter is how drift becomes visible.
	UnknownStackLabels = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debteraser_ai_unknown_stack_labels_total",
		Help: "Analysis results carrying an unrecognized document-stack label",
	})

	// PaymentIntents counts payment intents by plan and outcome.
	PaymentIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_payment_intents_total",
		Help: "Payment intents created by plan and outcome",
	}, []string{"plan", "outcome"})

	// AccessGrants counts server-side membership grants by plan.
	AccessGrants = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_access_grants_total",
		Help: "Membership access grants issued after verified payments",
	}, []string{"plan"})

	// EmailsSent counts transactional emails by template and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_emails_sent_total",
		Help: "Transactional emails by template and outcome",
	}, []string{"template", "outcome"})

	// CRMSyncs counts CRM operations by kind and outcome.
	CRMSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debteraser_crm_syncs_total",
		Help: "CRM operations by kind and outcome",
	}, []string{"kind", "outcome"})
)
