package billing

import (
	"context"
	"strings"
	"time"
)

// LedgerKind selects one of the two schema pairs. The set is closed.
type LedgerKind string

const (
	LedgerCustomer  LedgerKind = "customer"
	LedgerAffiliate LedgerKind = "affiliate"
)

// AffiliateDiscriminator is the userField4 value routing to the affiliate ledger.
const AffiliateDiscriminator = "affiliate"

// ResolveLedger maps the discriminator field onto a ledger kind.
func ResolveLedger(discriminator string) LedgerKind {
	if strings.EqualFold(strings.TrimSpace(discriminator), AffiliateDiscriminator) {
		return LedgerAffiliate
	}
	return LedgerCustomer
}

// Ledger writes the attempt/subscription pair of one variant. Only this
// package implements it.
type Ledger interface {
	Kind() LedgerKind
	// RecordAttempt inserts or replaces the attempt keyed by transaction id.
	RecordAttempt(ctx context.Context, in Attempt) error
	// ActivateSubscription inserts or replaces the payer's subscription as
	// active with the given period start.
	ActivateSubscription(ctx context.Context, userID, plan string, periodStart time.Time) error

	sealed()
}
