package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents an owner or staff account. Barbers are staff users.
type User struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name            string              `gorm:"size:255;not null" json:"name"`
	Username        string              `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password        string              `gorm:"size:255;not null" json:"-"`
	Role            enum.UserRole       `gorm:"size:20;not null;default:'staff'" json:"role"`
	Status          enum.UserStatus     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CommissionType  enum.CommissionType `gorm:"size:20;not null;default:'percentage'" json:"commission_type"`
	CommissionValue decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"commission_value"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may log in and be paid
func (u *User) IsActive() bool {
	return u.Status == enum.UserStatusActive
}

// IsOwner reports whether the account has the owner role
func (u *User) IsOwner() bool {
	return u.Role == enum.UserRoleOwner
}
