package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	return translateError(conn(ctx, r.db).Create(shift).Error)
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := conn(ctx, r.db).
		Preload("Opener").
		Preload("Closer").
		First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetOpen(ctx context.Context) (*entity.Shift, error) {
	var shift entity.Shift
	err := conn(ctx, r.db).
		Preload("Opener").
		First(&shift, "status = ?", enum.ShiftStatusOpen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) AddRevenue(ctx context.Context, amount int64) (*entity.Shift, error) {
	var shifts []entity.Shift
	result := conn(ctx, r.db).Model(&shifts).
		Clauses(clause.Returning{}).
		Where("status = ?", enum.ShiftStatusOpen).
		Update("total_system_revenue", gorm.Expr("total_system_revenue + ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(shifts) == 0 {
		return nil, nil
	}
	return &shifts[0], nil
}

func (r *shiftRepository) Close(ctx context.Context, shift *entity.Shift) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Shift{}).
		Where("id = ? AND status = ?", shift.ID, enum.ShiftStatusOpen).
		Updates(map[string]interface{}{
			"status":           enum.ShiftStatusClosed,
			"closed_by":        shift.ClosedBy,
			"closing_cash":     shift.ClosingCash,
			"reported_revenue": shift.ReportedRevenue,
			"closed_at":        shift.ClosedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *shiftRepository) List(ctx context.Context, params *domainRepo.ShiftFilterParams) ([]entity.Shift, int64, error) {
	var shifts []entity.Shift
	var total int64

	query := conn(ctx, r.db).Model(&entity.Shift{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Opener").
		Preload("Closer").
		Order("opened_at DESC").
		Find(&shifts).Error

	return shifts, total, err
}
