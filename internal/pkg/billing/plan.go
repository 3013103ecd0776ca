package billing

import (
	"strings"

	"github.com/ManuelReschke/PayFox/app/models"
)

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// isSuccessStatus reports whether a processor status activates a subscription.
func isSuccessStatus(status string) bool {
	return normalizeStatus(status) == models.PaymentStatusSuccess
}

func normalizePlan(plan string) string {
	return strings.TrimSpace(plan)
}
