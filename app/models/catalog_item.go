package models

import (
	"time"

	"gorm.io/gorm"
)

// CatalogItem is a recommendable trip experience shown in confirmation mails.
type CatalogItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description string         `gorm:"type:text" json:"description"`
	URL         string         `gorm:"type:varchar(500);default:''" json:"url"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	Tags        []Tag          `gorm:"many2many:catalog_item_tags;" json:"tags,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagNames returns the names of the loaded tags.
func (ci *CatalogItem) TagNames() []string {
	names := make([]string, 0, len(ci.Tags))
	for _, t := range ci.Tags {
		names = append(names, t.Name)
	}
	return names
}
