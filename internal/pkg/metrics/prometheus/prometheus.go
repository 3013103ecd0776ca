package prommetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
)

// Metrics implements billing.Metrics using Prometheus.
type Metrics struct {
	hashActionsTotal   *prometheus.CounterVec
	ledgerWritesTotal  *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

var _ billing.Metrics = (*Metrics)(nil)

// NewMetrics registers the payment callback collectors on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		hashActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "hash_actions_total",
			Help:      "Total number of hash generate/verify/redirect calls by outcome.",
		}, []string{"action", "outcome"}),

		ledgerWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "ledger_reconciliations_total",
			Help:      "Total number of ledger reconciliations by ledger and outcome.",
		}, []string{"ledger", "outcome"}),

		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "confirmation_notifications_total",
			Help:      "Total number of payment confirmation notifications by status.",
		}, []string{"status"}),
	}
}

func (m *Metrics) RecordHashAction(action, outcome string) {
	m.hashActionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordLedgerWrite(ledger, outcome string) {
	m.ledgerWritesTotal.WithLabelValues(ledger, outcome).Inc()
}

func (m *Metrics) RecordNotification(status string) {
	m.notificationsTotal.WithLabelValues(status).Inc()
}

// DefaultMetrics returns a Metrics implementation using the default Prometheus registerer.
func DefaultMetrics(namespace string) billing.Metrics {
	return NewMetrics(prometheus.DefaultRegisterer, namespace)
}
