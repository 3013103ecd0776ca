package billing

// Attempt is the provider-agnostic shape the reconciler writes into the
// ledger for one processor transaction.
type Attempt struct {
	TransactionID  string
	PayerID        string
	PlanName       string
	Amount         string
	Status         string
	ProcessorRef   string
	RawPayloadJSON string
	Discriminator  string
	Email          string
	FirstName      string
}

// AttemptFromCallback maps a normalized callback onto a ledger attempt.
func AttemptFromCallback(cb *Callback) Attempt {
	return Attempt{
		TransactionID:  cb.Get(FieldTransactionID),
		PayerID:        cb.PayerID(),
		PlanName:       cb.PlanName(),
		Amount:         FormatAmount(cb.Fields.Amount),
		Status:         normalizeStatus(cb.Fields.Status),
		ProcessorRef:   cb.ProcessorRef,
		RawPayloadJSON: cb.PayloadJSON(),
		Discriminator:  cb.Discriminator(),
		Email:          cb.Get(FieldEmail),
		FirstName:      cb.Get(FieldFirstName),
	}
}

// PaymentConfirmation is handed to the notifier after a customer payment
// activated a subscription.
type PaymentConfirmation struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	PlanName      string `json:"plan_name"`
	ProcessorRef  string `json:"processor_ref"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}

// HashResponse answers a generate-hash call.
type HashResponse struct {
	Digest     string `json:"digest"`
	SigningKey string `json:"signingKey"`
}

// VerificationResponse answers a verify-hash call.
type VerificationResponse struct {
	Verified        bool   `json:"verified"`
	Status          string `json:"status"`
	GeneratedDigest string `json:"generatedDigest"`
	ReceivedDigest  string `json:"receivedDigest"`
}
