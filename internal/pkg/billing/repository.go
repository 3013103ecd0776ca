package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository hands out the ledger for a variant.
type Repository interface {
	Ledger(kind LedgerKind) Ledger
}

type gormRepository struct {
	customer  *customerLedger
	affiliate *affiliateLedger
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{
		customer:  &customerLedger{db: db},
		affiliate: &affiliateLedger{db: db},
	}
}

func (r *gormRepository) Ledger(kind LedgerKind) Ledger {
	if kind == LedgerAffiliate {
		return r.affiliate
	}
	return r.customer
}

var attemptUpdateColumns = []string{
	"user_id",
	"amount",
	"status",
	"processor_ref",
	"raw_payload_json",
	"updated_at",
}

var subscriptionUpdateColumns = []string{
	"status",
	"current_period_start",
	"updated_at",
}

func requireKey(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

type customerLedger struct {
	db *gorm.DB
}

func (l *customerLedger) Kind() LedgerKind { return LedgerCustomer }
func (l *customerLedger) sealed()          {}

func (l *customerLedger) RecordAttempt(ctx context.Context, in Attempt) error {
	if err := requireKey("transaction_id", in.TransactionID); err != nil {
		return err
	}
	row := &models.PaymentAttempt{
		TransactionID:  in.TransactionID,
		UserID:         in.PayerID,
		PlanName:       in.PlanName,
		Amount:         in.Amount,
		Status:         in.Status,
		ProcessorRef:   in.ProcessorRef,
		RawPayloadJSON: in.RawPayloadJSON,
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns(append([]string{"plan_name"}, attemptUpdateColumns...)),
	}).Create(row).Error
}

func (l *customerLedger) ActivateSubscription(ctx context.Context, userID, plan string, periodStart time.Time) error {
	if err := requireKey("user_id", userID); err != nil {
		return err
	}
	row := &models.Subscription{
		UserID:             userID,
		PlanName:           normalizePlan(plan),
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &periodStart,
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append([]string{"plan_name"}, subscriptionUpdateColumns...)),
	}).Create(row).Error
}

type affiliateLedger struct {
	db *gorm.DB
}

func (l *affiliateLedger) Kind() LedgerKind { return LedgerAffiliate }
func (l *affiliateLedger) sealed()          {}

func (l *affiliateLedger) RecordAttempt(ctx context.Context, in Attempt) error {
	if err := requireKey("transaction_id", in.TransactionID); err != nil {
		return err
	}
	row := &models.AffiliatePaymentAttempt{
		TransactionID:  in.TransactionID,
		UserID:         in.PayerID,
		TierName:       in.PlanName,
		Amount:         in.Amount,
		Status:         in.Status,
		ProcessorRef:   in.ProcessorRef,
		RawPayloadJSON: in.RawPayloadJSON,
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns(append([]string{"tier_name"}, attemptUpdateColumns...)),
	}).Create(row).Error
}

func (l *affiliateLedger) ActivateSubscription(ctx context.Context, userID, tier string, periodStart time.Time) error {
	if err := requireKey("user_id", userID); err != nil {
		return err
	}
	row := &models.AffiliateSubscription{
		UserID:             userID,
		TierName:           normalizePlan(tier),
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &periodStart,
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append([]string{"tier_name"}, subscriptionUpdateColumns...)),
	}).Create(row).Error
}
