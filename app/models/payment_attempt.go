package models

import "time"

// Processor payment statuses as delivered in the callback "status" field.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailure = "failure"
	PaymentStatusPending = "pending"
)

// PaymentAttempt is the customer ledger row for a single processor
// transaction. TransactionID is the idempotency key: redeliveries overwrite
// the row instead of adding a new one.
type PaymentAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TransactionID  string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_attempts_txn" json:"transaction_id"`
	UserID         string    `gorm:"type:varchar(191);not null;index" json:"user_id"`
	PlanName       string    `gorm:"type:varchar(100);not null;default:''" json:"plan_name"`
	Amount         string    `gorm:"type:varchar(32);not null" json:"amount"`
	Status         string    `gorm:"type:varchar(32);not null;index" json:"status"`
	ProcessorRef   string    `gorm:"type:varchar(191);default:''" json:"processor_ref"`
	RawPayloadJSON string    `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}

// AffiliatePaymentAttempt is the partner-side twin of PaymentAttempt, keyed
// by tier instead of plan.
type AffiliatePaymentAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TransactionID  string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_affiliate_payment_attempts_txn" json:"transaction_id"`
	UserID         string    `gorm:"type:varchar(191);not null;index" json:"user_id"`
	TierName       string    `gorm:"type:varchar(100);not null;default:''" json:"tier_name"`
	Amount         string    `gorm:"type:varchar(32);not null" json:"amount"`
	Status         string    `gorm:"type:varchar(32);not null;index" json:"status"`
	ProcessorRef   string    `gorm:"type:varchar(191);default:''" json:"processor_ref"`
	RawPayloadJSON string    `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AffiliatePaymentAttempt) TableName() string {
	return "affiliate_payment_attempts"
}
