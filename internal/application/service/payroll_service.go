package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/cache"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PayrollService computes monthly commission statements from recorded sales
type PayrollService struct {
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
	cache    cache.Cache
	cacheTTL time.Duration
	loc      *time.Location
	now      Clock
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	userRepo repository.UserRepository,
	saleRepo repository.SaleRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	loc *time.Location,
	clock Clock,
) *PayrollService {
	return &PayrollService{
		userRepo: userRepo,
		saleRepo: saleRepo,
		cache:    c,
		cacheTTL: cacheTTL,
		loc:      loc,
		now:      systemClock(clock),
	}
}

// PayrollCacheKey is the cache key of a month's per-barber sales totals.
// Only the sales aggregate is cached, so commission edits apply immediately.
// Months that have not ended yet are never cached.
func PayrollCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("payroll:%04d-%02d", year, int(month))
}

// Commission applies a commission policy to a barber's totals.
// Percentage pays round(revenue * value / 100); flat pays count * value.
func Commission(t enum.CommissionType, value decimal.Decimal, revenue, count int64) int64 {
	switch t {
	case enum.CommissionPercentage:
		return money.Percent(revenue, value)
	case enum.CommissionFlat:
		return money.Times(count, value)
	default:
		return 0
	}
}

func validatePeriod(month, year int) error {
	var fields []apperror.FieldError
	if month < 1 || month > 12 {
		fields = append(fields, apperror.FieldError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 9999 {
		fields = append(fields, apperror.FieldError{Field: "year", Message: "must be between 2000 and 9999"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// ComputePayroll returns one statement per active account for the month.
// Owners are left out unless includeOwner is set.
func (s *PayrollService) ComputePayroll(ctx context.Context, month, year int, includeOwner bool) ([]entity.PayrollStatement, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListActive(ctx, includeOwner)
	if err != nil {
		return nil, apperror.NewDependencyError("load staff", err)
	}

	totals, err := s.monthTotals(ctx, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	statements := make([]entity.PayrollStatement, 0, len(users))
	for _, u := range users {
		t := totals[u.ID]
		statements = append(statements, entity.PayrollStatement{
			UserID:          u.ID,
			Name:            u.Name,
			Username:        u.Username,
			Role:            u.Role,
			Month:           month,
			Year:            year,
			CommissionType:  u.CommissionType,
			CommissionValue: u.CommissionValue,
			SaleCount:       t.SaleCount,
			TotalRevenue:    t.TotalRevenue,
			Commission:      Commission(u.CommissionType, u.CommissionValue, t.TotalRevenue, t.SaleCount),
		})
	}

	return statements, nil
}

func (s *PayrollService) monthTotals(ctx context.Context, year int, month time.Month) (map[uuid.UUID]repository.BarberSalesResult, error) {
	key := PayrollCacheKey(year, month)
	from, to := monthRange(year, month, s.loc)
	// sales can still land in an open month, so its totals are read fresh
	cacheable := !to.After(s.now())

	var rows []repository.BarberSalesResult
	found := false
	if cacheable {
		var err error
		found, err = s.cache.Get(ctx, key, &rows)
		if err != nil {
			log.Printf("Warning: payroll cache read %s: %v", key, err)
		}
	}

	if !found {
		var err error
		rows, err = s.saleRepo.SumByBarber(ctx, from, to)
		if err != nil {
			return nil, apperror.NewDependencyError("aggregate sales", err)
		}
		if cacheable {
			if err := s.cache.Set(ctx, key, rows, s.cacheTTL); err != nil {
				log.Printf("Warning: payroll cache write %s: %v", key, err)
			}
		}
	}

	totals := make(map[uuid.UUID]repository.BarberSalesResult, len(rows))
	for _, r := range rows {
		totals[r.BarberID] = r
	}
	return totals, nil
}

// InvalidateMonth drops the cached totals of the month containing t
func (s *PayrollService) InvalidateMonth(ctx context.Context, t time.Time) {
	local := t.In(s.loc)
	key := PayrollCacheKey(local.Year(), local.Month())
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Warning: payroll cache invalidate %s: %v", key, err)
	}
}

// ExportPayroll renders the month's statements as an xlsx workbook
func (s *PayrollService) ExportPayroll(ctx context.Context, month, year int, includeOwner bool) (*bytes.Buffer, error) {
	statements, err := s.ComputePayroll(ctx, month, year, includeOwner)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Payroll %04d-%02d", year, month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperror.NewDependencyError("build payroll workbook", err)
	}

	headers := []interface{}{"Name", "Username", "Role", "Commission Type", "Commission Value", "Sales", "Revenue", "Commission"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, apperror.NewDependencyError("build payroll workbook", err)
	}

	var totalRevenue, totalCommission int64
	for i, st := range statements {
		row := []interface{}{
			st.Name,
			st.Username,
			st.Role.String(),
			st.CommissionType.String(),
			st.CommissionValue.String(),
			st.SaleCount,
			st.TotalRevenue,
			st.Commission,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, apperror.NewDependencyError("build payroll workbook", err)
		}
		totalRevenue += st.TotalRevenue
		totalCommission += st.Commission
	}

	footer := []interface{}{"Total", "", "", "", "", "", totalRevenue, totalCommission}
	cell, _ := excelize.CoordinatesToCellName(1, len(statements)+2)
	if err := f.SetSheetRow(sheet, cell, &footer); err != nil {
		return nil, apperror.NewDependencyError("build payroll workbook", err)
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
		_ = f.SetRowStyle(sheet, len(statements)+2, len(statements)+2, style)
	}
	_ = f.SetColWidth(sheet, "A", "B", 24)
	_ = f.SetColWidth(sheet, "C", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.NewDependencyError("write payroll workbook", err)
	}
	return buf, nil
}
