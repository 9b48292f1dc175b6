package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

// invoiceLockClass namespaces the advisory locks taken for invoice numbering
const invoiceLockClass = 7301

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) LockInvoiceDay(ctx context.Context, day time.Time) error {
	key, err := strconv.Atoi(day.Format("060102"))
	if err != nil {
		return err
	}
	return conn(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(?, ?)", invoiceLockClass, key).Error
}

func (r *saleRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Sale{}).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	// Items are inserted through the association
	return translateError(conn(ctx, r.db).Create(sale).Error)
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.withRelations(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceCode(ctx context.Context, code string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.withRelations(ctx).First(&sale, "invoice_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) withRelations(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Barber").
		Preload("Cashier")
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := conn(ctx, r.db).Model(&entity.Sale{})

	if params.Search != "" {
		query = query.Where("invoice_code ILIKE ? OR customer_name ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.From != nil {
		query = query.Where("sold_at >= ?", *params.From)
	}

	if params.To != nil {
		query = query.Where("sold_at < ?", *params.To)
	}

	if params.BarberID != nil {
		query = query.Where("barber_id = ?", *params.BarberID)
	}

	if params.ShiftID != nil {
		query = query.Where("shift_id = ?", *params.ShiftID)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Barber").
		Order("sold_at DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) SumByBarber(ctx context.Context, from, to time.Time) ([]domainRepo.BarberSalesResult, error) {
	var results []domainRepo.BarberSalesResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			barber_id,
			COUNT(*) AS sale_count,
			COALESCE(SUM(total_amount), 0) AS total_revenue
		FROM sales
		WHERE sold_at >= ? AND sold_at < ?
		GROUP BY barber_id
		ORDER BY total_revenue DESC
	`, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *saleRepository) SumByPaymentMethod(ctx context.Context, from, to time.Time) ([]domainRepo.PaymentMethodTotal, error) {
	var results []domainRepo.PaymentMethodTotal

	err := conn(ctx, r.db).Raw(`
		SELECT
			payment_method,
			COUNT(*) AS sale_count,
			COALESCE(SUM(total_amount), 0) AS total
		FROM sales
		WHERE sold_at >= ? AND sold_at < ?
		GROUP BY payment_method
	`, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *saleRepository) SumByShift(ctx context.Context, shiftID uuid.UUID) ([]domainRepo.PaymentMethodTotal, error) {
	var results []domainRepo.PaymentMethodTotal

	err := conn(ctx, r.db).Raw(`
		SELECT
			payment_method,
			COUNT(*) AS sale_count,
			COALESCE(SUM(total_amount), 0) AS total
		FROM sales
		WHERE shift_id = ?
		GROUP BY payment_method
	`, shiftID).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *saleRepository) DailyRevenue(ctx context.Context, from, to time.Time, loc *time.Location) ([]domainRepo.DailyRevenueResult, error) {
	var rows []struct {
		Day       string
		SaleCount int64
		Revenue   int64
	}

	err := conn(ctx, r.db).Raw(`
		SELECT
			TO_CHAR(sold_at AT TIME ZONE ?, 'YYYY-MM-DD') AS day,
			COUNT(*) AS sale_count,
			COALESCE(SUM(total_amount), 0) AS revenue
		FROM sales
		WHERE sold_at >= ? AND sold_at < ?
		GROUP BY day
		ORDER BY day ASC
	`, loc.String(), from, to).Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.DailyRevenueResult, 0, len(rows))
	for _, row := range rows {
		date, err := time.ParseInLocation("2006-01-02", row.Day, loc)
		if err != nil {
			return nil, err
		}
		results = append(results, domainRepo.DailyRevenueResult{
			Date:      date,
			SaleCount: row.SaleCount,
			Revenue:   row.Revenue,
		})
	}

	return results, nil
}
