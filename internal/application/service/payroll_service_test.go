package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func statementFor(t *testing.T, statements []entity.PayrollStatement, id uuid.UUID) entity.PayrollStatement {
	t.Helper()
	for _, st := range statements {
		if st.UserID == id {
			return st
		}
	}
	t.Fatalf("no statement for %s", id)
	return entity.PayrollStatement{}
}

func TestCommission(t *testing.T) {
	assert.EqualValues(t, 40000, Commission(enum.CommissionPercentage, decimal.NewFromInt(40), 100000, 2))
	assert.EqualValues(t, 45000, Commission(enum.CommissionFlat, decimal.NewFromInt(15000), 999999, 3))
	// 12.5% of 333 is 41.625
	assert.EqualValues(t, 42, Commission(enum.CommissionPercentage, decimal.RequireFromString("12.5"), 333, 1))
	// 41.5 rounds half up
	assert.EqualValues(t, 42, Commission(enum.CommissionPercentage, decimal.NewFromInt(50), 83, 1))
	assert.Zero(t, Commission(enum.CommissionPercentage, decimal.NewFromInt(40), 0, 0))
	assert.Zero(t, Commission("unknown", decimal.NewFromInt(40), 100000, 2))
}

func TestComputePayrollPercentage(t *testing.T) {
	f := newFixture(t)

	f.sell(t, f.barber, enum.PaymentMethodCash, 40000)
	f.sell(t, f.barber, enum.PaymentMethodElectronic, 60000)

	statements, err := f.payroll.ComputePayroll(context.Background(), 3, 2024, false)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	st := statements[0]
	assert.Equal(t, f.barber.ID, st.UserID)
	assert.EqualValues(t, 100000, st.TotalRevenue)
	assert.EqualValues(t, 2, st.SaleCount)
	assert.EqualValues(t, 40000, st.Commission)
}

func TestComputePayrollFlat(t *testing.T) {
	f := newFixture(t)
	flat := f.addUser(t, "Joko", enum.UserRoleStaff, enum.CommissionFlat, 15000)

	f.sell(t, flat, enum.PaymentMethodCash, 10000)
	f.sell(t, flat, enum.PaymentMethodCash, 85000)
	f.sell(t, flat, enum.PaymentMethodElectronic, 1)

	statements, err := f.payroll.ComputePayroll(context.Background(), 3, 2024, false)
	require.NoError(t, err)

	st := statementFor(t, statements, flat.ID)
	assert.EqualValues(t, 3, st.SaleCount)
	assert.EqualValues(t, 45000, st.Commission)

	idle := statementFor(t, statements, f.barber.ID)
	assert.Zero(t, idle.SaleCount)
	assert.Zero(t, idle.Commission)
}

func TestComputePayrollPeriodBoundaries(t *testing.T) {
	f := newFixture(t)

	f.clock.Set(time.Date(2024, 2, 29, 23, 59, 59, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 11000)
	f.clock.Set(time.Date(2024, 3, 1, 0, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 22000)
	f.clock.Set(time.Date(2024, 3, 31, 23, 59, 59, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 33000)
	f.clock.Set(time.Date(2024, 4, 1, 0, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 44000)

	statements, err := f.payroll.ComputePayroll(context.Background(), 3, 2024, false)
	require.NoError(t, err)

	st := statementFor(t, statements, f.barber.ID)
	assert.EqualValues(t, 2, st.SaleCount)
	assert.EqualValues(t, 55000, st.TotalRevenue)
}

func TestComputePayrollOwnerAndInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gone := f.addUser(t, "Ani", enum.UserRoleStaff, enum.CommissionPercentage, 30)
	f.sell(t, gone, enum.PaymentMethodCash, 50000)

	inactive := enum.UserStatusInactive
	_, err := f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: gone.ID, Status: &inactive})
	require.NoError(t, err)

	statements, err := f.payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, f.barber.ID, statements[0].UserID)

	statements, err = f.payroll.ComputePayroll(ctx, 3, 2024, true)
	require.NoError(t, err)
	assert.Len(t, statements, 2)
	statementFor(t, statements, f.owner.ID)
}

func TestComputePayrollRejectsBadPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.payroll.ComputePayroll(context.Background(), 13, 2024, false)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"month"}, fieldNames(appErr))

	_, err = f.payroll.ComputePayroll(context.Background(), 0, 1999, false)
	appErr = requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"month", "year"}, fieldNames(appErr))
}

func TestComputePayrollCachesEndedMonths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sell(t, f.barber, enum.PaymentMethodCash, 40000)
	april := time.Date(2024, 4, 2, 9, 0, 0, 0, shopTZ)
	f.clock.Set(april)

	first, err := f.payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	assert.Zero(t, f.cache.hits)
	require.True(t, f.cache.has("payroll:2024-03"))

	// a commission change is visible without invalidating the cache
	pct := decimal.NewFromInt(50)
	_, err = f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: f.barber.ID, CommissionValue: &pct})
	require.NoError(t, err)

	second, err := f.payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.EqualValues(t, 16000, first[0].Commission)
	assert.EqualValues(t, 20000, second[0].Commission)

	// a late sale dated in March drops the cached month
	f.clock.Set(time.Date(2024, 3, 31, 23, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 10000)
	f.clock.Set(april)

	third, err := f.payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	assert.EqualValues(t, 50000, third[0].TotalRevenue)
}

// interleavedSaleRepository commits another sale right after the aggregate is read
type interleavedSaleRepository struct {
	repository.SaleRepository
	during func()
}

func (r *interleavedSaleRepository) SumByBarber(ctx context.Context, from, to time.Time) ([]repository.BarberSalesResult, error) {
	rows, err := r.SaleRepository.SumByBarber(ctx, from, to)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return rows, err
}

func TestComputePayrollReadsOpenMonthFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sell(t, f.barber, enum.PaymentMethodCash, 40000)

	sales := &interleavedSaleRepository{
		SaleRepository: f.sales,
		during:         func() { f.sell(t, f.barber, enum.PaymentMethodCash, 60000) },
	}
	payroll := NewPayrollService(f.users, sales, f.cache, time.Hour, shopTZ, f.clock.Now)

	first, err := payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, statementFor(t, first, f.barber.ID).SaleCount)
	assert.False(t, f.cache.has("payroll:2024-03"))

	second, err := payroll.ComputePayroll(ctx, 3, 2024, false)
	require.NoError(t, err)
	st := statementFor(t, second, f.barber.ID)
	assert.EqualValues(t, 2, st.SaleCount)
	assert.EqualValues(t, 100000, st.TotalRevenue)
	assert.EqualValues(t, 40000, st.Commission)
	assert.Zero(t, f.cache.hits)
}

func TestInvalidateMonthUsesShopTimeZone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.Set(context.Background(), PayrollCacheKey(2024, time.April), []int{}, time.Hour))

	// still March in UTC, already April in the shop
	f.payroll.InvalidateMonth(context.Background(), time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC))

	assert.Equal(t, []string{"payroll:2024-04"}, f.cache.dels)
}

func TestExportPayroll(t *testing.T) {
	f := newFixture(t)
	f.sell(t, f.barber, enum.PaymentMethodCash, 40000)
	f.sell(t, f.barber, enum.PaymentMethodCash, 60000)

	buf, err := f.payroll.ExportPayroll(context.Background(), 3, 2024, false)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Payroll 2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, f.barber.Name, rows[1][0])
	assert.Equal(t, "40000", rows[1][7])
	assert.Equal(t, []string{"Total", "", "", "", "", "", "100000", "40000"}, rows[2])
}
