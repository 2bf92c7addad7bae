package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes
const (
	OutcomeSent        = "sent"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
	OutcomeRateLimited = "rate_limited"
)

var (
	ContactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions handled by the relay, by outcome",
	}, []string{"outcome"})

	MailDispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mail_dispatch_duration_seconds",
		Help:    "Time spent handing a message to the outbound transport",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"transport", "result"})
)

// RecordSubmission counts one relay request
func RecordSubmission(outcome string) {
	ContactSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveDispatch records the duration of one transport call
func ObserveDispatch(transport string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MailDispatchDuration.WithLabelValues(transport, result).Observe(d.Seconds())
}
