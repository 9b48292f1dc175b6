package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
)

type expenseRepository struct {
	store *Store
}

func NewExpenseRepository(store *Store) domainRepo.ExpenseRepository {
	return &expenseRepository{store: store}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	now := time.Now()
	expense.CreatedAt, expense.UpdatedAt = now, now
	r.store.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.expenses, id)
	return nil
}

func (r *expenseRepository) List(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := sortedValues(r.store.expenses, func(a, b entity.Expense) bool { return a.SpentAt.After(b.SpentAt) })

	var matched []entity.Expense
	for _, e := range all {
		if params.Category != nil && e.Category != *params.Category {
			continue
		}
		if params.From != nil && e.SpentAt.Before(*params.From) {
			continue
		}
		if params.To != nil && !e.SpentAt.Before(*params.To) {
			continue
		}
		matched = append(matched, e)
	}

	return page(matched, params.Pagination), int64(len(matched)), nil
}

func (r *expenseRepository) SumBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int64
	for _, e := range r.store.expenses {
		if inRange(e.SpentAt, from, to) {
			total += e.Amount
		}
	}
	return total, nil
}

func (r *expenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]domainRepo.CategoryTotal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byCategory := make(map[enum.ExpenseCategory]*domainRepo.CategoryTotal)
	for _, e := range r.store.expenses {
		if !inRange(e.SpentAt, from, to) {
			continue
		}
		res, ok := byCategory[e.Category]
		if !ok {
			res = &domainRepo.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = res
		}
		res.Count++
		res.Total += e.Amount
	}

	results := make([]domainRepo.CategoryTotal, 0, len(byCategory))
	for _, c := range enum.ExpenseCategories {
		if res, ok := byCategory[c]; ok {
			results = append(results, *res)
		}
	}
	return results, nil
}
