package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Shift is a cash drawer session. At most one shift is open at any time,
// enforced by the partial unique index on status.
type Shift struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OpenedBy           uuid.UUID        `gorm:"type:uuid;not null;index" json:"opened_by"`
	ClosedBy           *uuid.UUID       `gorm:"type:uuid" json:"closed_by,omitempty"`
	OpeningCash        int64            `gorm:"not null" json:"opening_cash"`
	ClosingCash        *int64           `json:"closing_cash,omitempty"`
	TotalSystemRevenue int64            `gorm:"not null;default:0" json:"total_system_revenue"`
	ReportedRevenue    *int64           `json:"reported_system_revenue,omitempty"`
	Status             enum.ShiftStatus `gorm:"size:10;not null;default:'open'" json:"status"`
	OpenedAt           time.Time        `gorm:"not null;index" json:"opened_at"`
	ClosedAt           *time.Time       `json:"closed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	// Relationships
	Opener *User `gorm:"foreignKey:OpenedBy" json:"opener,omitempty"`
	Closer *User `gorm:"foreignKey:ClosedBy" json:"closer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new shift
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

func (s *Shift) IsOpen() bool {
	return s.Status == enum.ShiftStatusOpen
}

// ShiftSummary is the reconciliation view of a shift. Derived, never stored.
type ShiftSummary struct {
	Shift           *Shift `json:"shift"`
	OpeningCash     int64  `json:"opening_cash"`
	CashSales       int64  `json:"cash_sales"`
	ElectronicSales int64  `json:"electronic_sales"`
	SaleCount       int64  `json:"sale_count"`
	Expenses        int64  `json:"expenses"`
	ExpectedCash    int64  `json:"expected_cash"`
	ClosingCash     *int64 `json:"closing_cash,omitempty"`
	Discrepancy     *int64 `json:"discrepancy,omitempty"`
}
