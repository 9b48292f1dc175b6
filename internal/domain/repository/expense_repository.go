package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// CategoryTotal aggregates expenses of one category
type CategoryTotal struct {
	Category enum.ExpenseCategory
	Count    int64
	Total    int64
}

// ExpenseRepository defines the interface for expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ExpenseFilterParams) ([]entity.Expense, int64, error)
	// SumBetween totals expenses with from <= spent_at < to
	SumBetween(ctx context.Context, from, to time.Time) (int64, error)
	SumByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
}

// ExpenseFilterParams contains filtering parameters for expense queries
type ExpenseFilterParams struct {
	Pagination *pagination.PaginationParams
	Category   *enum.ExpenseCategory
	From       *time.Time
	To         *time.Time
}
