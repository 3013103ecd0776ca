package billing

// Metrics tracks callback handling. All methods are optional; use NoopMetrics
// when no collector is wired.
type Metrics interface {
	// RecordHashAction records a dispatched action.
	// outcome: "ok", "invalid_request", "verified", "rejected"
	RecordHashAction(action, outcome string)

	// RecordLedgerWrite records a reconciliation outcome per ledger variant.
	RecordLedgerWrite(ledger, outcome string)

	// RecordNotification records whether a confirmation was handed off.
	// status: "enqueued" or "error"
	RecordNotification(status string)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordHashAction(_, _ string)  {}
func (n *NoopMetrics) RecordLedgerWrite(_, _ string) {}
func (n *NoopMetrics) RecordNotification(_ string)   {}
