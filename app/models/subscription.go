package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
)

// Subscription is the current plan of a direct customer. There is at most one
// row per user.
type Subscription struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_subscriptions_user" json:"user_id"`
	PlanName           string     `gorm:"type:varchar(100);not null;default:''" json:"plan_name"`
	Status             string     `gorm:"type:varchar(32);not null;default:'inactive';index" json:"status"`
	CurrentPeriodStart *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// AffiliateSubscription is the current tier of an affiliate partner.
type AffiliateSubscription struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_affiliate_subscriptions_user" json:"user_id"`
	TierName           string     `gorm:"type:varchar(100);not null;default:''" json:"tier_name"`
	Status             string     `gorm:"type:varchar(32);not null;default:'inactive';index" json:"status"`
	CurrentPeriodStart *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AffiliateSubscription) TableName() string {
	return "affiliate_subscriptions"
}
