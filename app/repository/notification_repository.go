package repository

import (
	"context"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores a notification log entry
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ExistsForReference reports whether a notification of the given type was
// already logged for the reference
func (r *notificationRepository) ExistsForReference(ctx context.Context, userID, notificationType, referenceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND reference_id = ?", userID, notificationType, referenceID).
		Count(&count).Error
	return count > 0, err
}

// ListByUserID returns a user's notifications, newest first
func (r *notificationRepository) ListByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}
