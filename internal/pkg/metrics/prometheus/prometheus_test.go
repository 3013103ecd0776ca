package prommetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHashAction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordHashAction("verify-hash", "verified")
	m.RecordHashAction("verify-hash", "verified")
	m.RecordHashAction("verify-hash", "rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.hashActionsTotal.WithLabelValues("verify-hash", "verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hashActionsTotal.WithLabelValues("verify-hash", "rejected")))
}

func TestRecordLedgerWriteAndNotification(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordLedgerWrite("affiliate", "activated")
	m.RecordNotification("enqueued")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerWritesTotal.WithLabelValues("affiliate", "activated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("enqueued")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_payments_ledger_reconciliations_total")
	assert.Contains(t, names, "test_payments_confirmation_notifications_total")
}
