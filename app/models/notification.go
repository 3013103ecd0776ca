package models

import (
	"time"

	"gorm.io/gorm"
)

const NotificationTypePaymentConfirmation = "payment_confirmation"

type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"type:varchar(191);index" json:"user_id"`
	Type        string         `gorm:"type:varchar(50)" json:"type" validate:"oneof=payment_confirmation system"`
	Content     string         `gorm:"type:text" json:"content"`
	IsRead      bool           `gorm:"default:false" json:"is_read"`
	ReferenceID string         `gorm:"type:varchar(191);index" json:"reference_id"` // transaction id of the payment
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateNotification stores a notification log entry.
func CreateNotification(db *gorm.DB, userID string, notificationType string, content string, referenceID string) error {
	notification := Notification{
		UserID:      userID,
		Type:        notificationType,
		Content:     content,
		ReferenceID: referenceID,
		IsRead:      false,
	}

	return db.Create(&notification).Error
}
