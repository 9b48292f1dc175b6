package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
)

type shiftRepository struct {
	store *Store
}

func NewShiftRepository(store *Store) domainRepo.ShiftRepository {
	return &shiftRepository{store: store}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if shift.Status == enum.ShiftStatusOpen {
		for _, s := range r.store.shifts {
			if s.Status == enum.ShiftStatusOpen {
				return duplicate("uniq_shifts_single_open")
			}
		}
	}

	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt, shift.UpdatedAt = now, now

	stored := *shift
	stored.Opener, stored.Closer = nil, nil
	r.store.shifts[shift.ID] = stored
	return nil
}

func (r *shiftRepository) withRelations(s entity.Shift) *entity.Shift {
	if u, ok := r.store.users[s.OpenedBy]; ok {
		s.Opener = &u
	}
	if s.ClosedBy != nil {
		if u, ok := r.store.users[*s.ClosedBy]; ok {
			s.Closer = &u
		}
	}
	return &s
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.shifts[id]
	if !ok {
		return nil, nil
	}
	return r.withRelations(s), nil
}

func (r *shiftRepository) GetOpen(ctx context.Context) (*entity.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.shifts {
		if s.Status == enum.ShiftStatusOpen {
			return r.withRelations(s), nil
		}
	}
	return nil, nil
}

func (r *shiftRepository) AddRevenue(ctx context.Context, amount int64) (*entity.Shift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, s := range r.store.shifts {
		if s.Status != enum.ShiftStatusOpen {
			continue
		}
		s.TotalSystemRevenue += amount
		s.UpdatedAt = time.Now()
		r.store.shifts[id] = s
		return &s, nil
	}
	return nil, nil
}

func (r *shiftRepository) Close(ctx context.Context, shift *entity.Shift) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.shifts[shift.ID]
	if !ok || s.Status != enum.ShiftStatusOpen {
		return false, nil
	}
	s.Status = enum.ShiftStatusClosed
	s.ClosedBy = shift.ClosedBy
	s.ClosingCash = shift.ClosingCash
	s.ReportedRevenue = shift.ReportedRevenue
	s.ClosedAt = shift.ClosedAt
	s.UpdatedAt = time.Now()
	r.store.shifts[s.ID] = s
	return true, nil
}

func (r *shiftRepository) List(ctx context.Context, params *domainRepo.ShiftFilterParams) ([]entity.Shift, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := sortedValues(r.store.shifts, func(a, b entity.Shift) bool { return a.OpenedAt.After(b.OpenedAt) })

	var matched []entity.Shift
	for _, s := range all {
		if params.Status != nil && s.Status != *params.Status {
			continue
		}
		matched = append(matched, *r.withRelations(s))
	}

	return page(matched, params.Pagination), int64(len(matched)), nil
}
