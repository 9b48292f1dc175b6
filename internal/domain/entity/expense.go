package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Expense is money paid out of the shop
type Expense struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Description string               `gorm:"size:255;not null" json:"description"`
	Amount      int64                `gorm:"not null" json:"amount"`
	Category    enum.ExpenseCategory `gorm:"size:20;not null;index" json:"category"`
	SpentAt     time.Time            `gorm:"not null;index" json:"spent_at"`
	RecordedBy  uuid.UUID            `gorm:"type:uuid;not null" json:"recorded_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
