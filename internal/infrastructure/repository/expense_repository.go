package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return conn(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := conn(ctx, r.db).First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) List(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := conn(ctx, r.db).Model(&entity.Expense{})

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if params.From != nil {
		query = query.Where("spent_at >= ?", *params.From)
	}

	if params.To != nil {
		query = query.Where("spent_at < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("spent_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}

func (r *expenseRepository) SumBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("spent_at >= ? AND spent_at < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *expenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]domainRepo.CategoryTotal, error) {
	var results []domainRepo.CategoryTotal

	err := conn(ctx, r.db).Model(&entity.Expense{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("spent_at >= ? AND spent_at < ?", from, to).
		Group("category").
		Order("total DESC").
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
