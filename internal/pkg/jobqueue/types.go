package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypePaymentConfirmation JobType = "payment_confirmation"
	JobTypeArchivePayload      JobType = "archive_payload"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// PaymentConfirmationJobPayload carries a successful customer payment to the
// confirmation email handler.
type PaymentConfirmationJobPayload struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	PlanName      string `json:"plan_name"`
	ProcessorRef  string `json:"processor_ref"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}

// ToMap converts the payload to a map for storage
func (p PaymentConfirmationJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        p.UserID,
		"email":          p.Email,
		"first_name":     p.FirstName,
		"plan_name":      p.PlanName,
		"processor_ref":  p.ProcessorRef,
		"transaction_id": p.TransactionID,
		"amount":         p.Amount,
	}
}

// PaymentConfirmationJobPayloadFromMap creates a payload from a map
func PaymentConfirmationJobPayloadFromMap(data map[string]interface{}) (*PaymentConfirmationJobPayload, error) {
	var payload PaymentConfirmationJobPayload
	err := decodePayload(data, &payload)
	return &payload, err
}

// ArchivePayloadJobPayload carries a verified callback body to the audit archive.
type ArchivePayloadJobPayload struct {
	Ledger        string `json:"ledger"`
	TransactionID string `json:"transaction_id"`
	PayloadJSON   string `json:"payload_json"`
	ReceivedAt    string `json:"received_at"`
}

func (p ArchivePayloadJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"ledger":         p.Ledger,
		"transaction_id": p.TransactionID,
		"payload_json":   p.PayloadJSON,
		"received_at":    p.ReceivedAt,
	}
}

func ArchivePayloadJobPayloadFromMap(data map[string]interface{}) (*ArchivePayloadJobPayload, error) {
	var payload ArchivePayloadJobPayload
	err := decodePayload(data, &payload)
	return &payload, err
}

func decodePayload(data map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, out)
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

// startedAt is when processing began, falling back to the last update and
// then creation for jobs written before ProcessedAt was set.
func (j *Job) startedAt() time.Time {
	if j.ProcessedAt != nil && !j.ProcessedAt.IsZero() {
		return *j.ProcessedAt
	}
	if !j.UpdatedAt.IsZero() {
		return j.UpdatedAt
	}
	return j.CreatedAt
}
