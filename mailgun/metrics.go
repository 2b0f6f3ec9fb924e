package mailgun

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors of a client. A nil *metrics is
// valid and records nothing.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	renewals prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgun_requests_total",
				Help: "Total number of Mailgun API requests.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailgun_request_duration_seconds",
				Help:    "Duration of Mailgun API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		renewals: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mailgun_connection_renewals_total",
				Help: "Number of times the pooled HTTP client was replaced.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.renewals} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *metrics) observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *metrics) renewed() {
	if m == nil {
		return
	}
	m.renewals.Inc()
}
