package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is the payer profile. The ID is the identifier the client passes to the
// processor in the first user-defined field.
type User struct {
	ID        string         `gorm:"primaryKey;type:varchar(191)" json:"id" validate:"required,max=191"`
	Name      string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email     string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Status    string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"omitempty,oneof=active inactive disabled"`
	Interests string         `gorm:"type:text" json:"interests"` // comma separated
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// InterestSet returns the stored interests lower-cased and trimmed.
func (u *User) InterestSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, raw := range strings.Split(u.Interests, ",") {
		if s := strings.ToLower(strings.TrimSpace(raw)); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
