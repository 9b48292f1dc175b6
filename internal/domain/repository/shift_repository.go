package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// ShiftRepository defines the interface for shift data operations
type ShiftRepository interface {
	// Create returns ErrDuplicateKey when another shift is already open
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	GetOpen(ctx context.Context) (*entity.Shift, error)
	// AddRevenue atomically increments the open shift's revenue and returns
	// the updated shift, or nil when no shift is open.
	AddRevenue(ctx context.Context, amount int64) (*entity.Shift, error)
	// Close applies the closing fields only while the shift is still open.
	// It reports false when the shift was not open.
	Close(ctx context.Context, shift *entity.Shift) (bool, error)
	List(ctx context.Context, params *ShiftFilterParams) ([]entity.Shift, int64, error)
}

// ShiftFilterParams contains filtering parameters for shift queries
type ShiftFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ShiftStatus
}
