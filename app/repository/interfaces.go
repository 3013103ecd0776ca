package repository

import (
	"context"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for payer profile lookups
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CatalogRepository defines the interface for recommendable catalog items
type CatalogRepository interface {
	Create(ctx context.Context, item *models.CatalogItem) error
	ListActive(ctx context.Context) ([]models.CatalogItem, error)
}

// NotificationRepository defines the interface for the notification log
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ExistsForReference(ctx context.Context, userID, notificationType, referenceID string) (bool, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Notification, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Catalog      CatalogRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Catalog:      NewCatalogRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
