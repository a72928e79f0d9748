package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes. Rejections are expected traffic and show up here
// rather than in error logs.
const (
	OutcomeAccepted    = "accepted"
	OutcomeHoneypot    = "honeypot"
	OutcomeTooFast     = "too_fast"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeDuplicate   = "duplicate"
	OutcomeError       = "error"
)

// LeadMetrics exposes counters for the subscription pipeline.
type LeadMetrics struct {
	submissions *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parcefx",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total subscription attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}
