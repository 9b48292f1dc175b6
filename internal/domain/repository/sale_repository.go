package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// BarberSalesResult aggregates one barber's sales over a period
type BarberSalesResult struct {
	BarberID     uuid.UUID
	SaleCount    int64
	TotalRevenue int64
}

// PaymentMethodTotal aggregates sales by payment method
type PaymentMethodTotal struct {
	PaymentMethod enum.PaymentMethod
	SaleCount     int64
	Total         int64
}

// DailyRevenueResult is the revenue of one shop-local calendar day
type DailyRevenueResult struct {
	Date      time.Time
	SaleCount int64
	Revenue   int64
}

// SaleRepository defines the interface for sale data operations.
// Time ranges are half-open: from <= sold_at < to.
type SaleRepository interface {
	// LockInvoiceDay serializes invoice numbering for the given business day.
	// It must be called inside a transaction and holds until commit or rollback.
	LockInvoiceDay(ctx context.Context, day time.Time) error
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	// Create inserts the sale and its items
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceCode(ctx context.Context, code string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)

	SumByBarber(ctx context.Context, from, to time.Time) ([]BarberSalesResult, error)
	SumByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error)
	SumByShift(ctx context.Context, shiftID uuid.UUID) ([]PaymentMethodTotal, error)
	DailyRevenue(ctx context.Context, from, to time.Time, loc *time.Location) ([]DailyRevenueResult, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string // invoice code or customer name
	From          *time.Time
	To            *time.Time
	BarberID      *uuid.UUID
	ShiftID       *uuid.UUID
	PaymentMethod *enum.PaymentMethod
}
