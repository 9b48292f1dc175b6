package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/money"
	"gorm.io/gorm"
)

// Sale is a recorded checkout. Sales are immutable once written.
type Sale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceCode   string             `gorm:"size:20;uniqueIndex;not null" json:"invoice_code"`
	SoldAt        time.Time          `gorm:"not null;index" json:"sold_at"`
	CustomerName  *string            `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone *string            `gorm:"size:50" json:"customer_phone,omitempty"`
	BarberID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"barber_id"`
	CashierID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	ShiftID       *uuid.UUID         `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20;not null;index" json:"payment_method"`
	TotalAmount   int64              `gorm:"not null" json:"total_amount"`
	CreatedAt     time.Time          `json:"created_at"`

	// Relationships
	Barber  *User      `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	Cashier *User      `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// ItemsTotal sums price * quantity over the items. ok is false on overflow.
func (s *Sale) ItemsTotal() (int64, bool) {
	var total int64
	for _, item := range s.Items {
		line, ok := money.LineTotal(item.UnitPrice, item.Quantity)
		if !ok {
			return 0, false
		}
		if total, ok = money.Add(total, line); !ok {
			return 0, false
		}
	}
	return total, true
}

// SaleItem is one line of a sale, kept in checkout order by Position
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	Position  int       `gorm:"not null" json:"position"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Subtotal  int64     `gorm:"not null" json:"subtotal"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
