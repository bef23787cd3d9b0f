package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsCreated   prometheus.Counter
	Approved          prometheus.Counter
	Rejected          prometheus.Counter
	Cancelled         prometheus.Counter
	AttemptsExhausted prometheus.Counter
	DuplicateIdentity prometheus.Counter
	EmailDispatches   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_requests_created_total",
			Help: "Total number of verification requests created",
		}),
		Approved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_approved_total",
			Help: "Total number of approved verification requests",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_rejected_total",
			Help: "Total number of rejected verification requests",
		}),
		Cancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_cancelled_total",
			Help: "Total number of cancelled verification requests",
		}),
		AttemptsExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_attempts_exhausted_total",
			Help: "Total number of identities that exhausted the lifetime attempt budget",
		}),
		DuplicateIdentity: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comercio_verification_duplicate_identity_total",
			Help: "Total number of approvals refused for a duplicate national ID or verified account",
		}),
		EmailDispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "comercio_verification_email_dispatches_total",
			Help: "Email dispatch outcomes by template and result",
		}, []string{"template", "result"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "comercio_verification_operation_duration_seconds",
			Help:    "Latency of verification workflow operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveEmailDispatch(template string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.EmailDispatches.WithLabelValues(template, result).Inc()
}
