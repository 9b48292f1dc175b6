package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// ExpenseService handles expense-related operations
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	now         Clock
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository, clock Clock) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		now:         systemClock(clock),
	}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	Description string
	Amount      int64
	Category    enum.ExpenseCategory
	SpentAt     *time.Time
	RecordedBy  uuid.UUID
}

// CreateExpense records money paid out of the shop
func (s *ExpenseService) CreateExpense(ctx context.Context, input *CreateExpenseInput) (*entity.Expense, error) {
	var fields []apperror.FieldError
	description := strings.TrimSpace(input.Description)
	if description == "" {
		fields = append(fields, apperror.FieldError{Field: "description", Message: "is required"})
	}
	if input.Amount <= 0 {
		fields = append(fields, apperror.FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if !input.Category.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "category", Message: "must be one of [supplies utilities rent salary maintenance other]"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	spentAt := s.now()
	if input.SpentAt != nil {
		spentAt = *input.SpentAt
	}

	expense := &entity.Expense{
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		SpentAt:     spentAt,
		RecordedBy:  input.RecordedBy,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperror.NewDependencyError("record expense", err)
	}

	return expense, nil
}

// GetExpense returns an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewDependencyError("load expense", err)
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// ListExpenses returns a paginated list of expenses
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewDependencyError("list expenses", err)
	}
	return pagination.NewPaginatedResult(expenses, params.Pagination, total), nil
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetExpense(ctx, id); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return apperror.NewDependencyError("delete expense", err)
	}
	return nil
}
