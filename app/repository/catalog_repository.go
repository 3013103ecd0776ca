package repository

import (
	"context"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// Create stores an item together with its tags, creating missing tags by name
func (r *catalogRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range item.Tags {
			if err := item.Tags[i].FindOrCreate(tx); err != nil {
				return err
			}
		}
		return tx.Create(item).Error
	})
}

// ListActive returns active items with their tags in ID order
func (r *catalogRepository) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
