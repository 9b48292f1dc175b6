package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.addUser(t, "Joko", enum.UserRoleStaff, enum.CommissionFlat, 15000)

	f.clock.Set(time.Date(2024, 3, 1, 9, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 50000)
	f.sell(t, other, enum.PaymentMethodElectronic, 30000)
	f.clock.Set(time.Date(2024, 3, 3, 9, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 70000)
	_, err := f.expense.CreateExpense(ctx, &CreateExpenseInput{
		Description: "Towels",
		Amount:      25000,
		Category:    enum.ExpenseCategorySupplies,
		RecordedBy:  f.owner.ID,
	})
	require.NoError(t, err)

	// outside the range
	f.clock.Set(time.Date(2024, 3, 4, 9, 0, 0, 0, shopTZ))
	f.sell(t, f.barber, enum.PaymentMethodCash, 99000)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, shopTZ)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, shopTZ)
	stats, err := f.dashboard.GetDashboardStats(ctx, DateRange{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", stats.From)
	assert.Equal(t, "2024-03-03", stats.To)
	assert.EqualValues(t, 150000, stats.Revenue)
	assert.EqualValues(t, 3, stats.SaleCount)
	assert.Equal(t, map[string]int64{"cash": 120000, "electronic": 30000}, stats.RevenueByMethod)
	assert.EqualValues(t, 25000, stats.Expenses)
	assert.EqualValues(t, 125000, stats.NetIncome)
	assert.Equal(t, []CategoryAmountPoint{{Category: "supplies", Count: 1, Amount: 25000}}, stats.ExpensesByCategory)

	assert.Equal(t, []DailyRevenuePoint{
		{Date: "2024-03-01", SaleCount: 2, Revenue: 80000},
		{Date: "2024-03-02"},
		{Date: "2024-03-03", SaleCount: 1, Revenue: 70000},
	}, stats.DailyRevenue)

	require.Len(t, stats.TopBarbers, 2)
	assert.Equal(t, "Budi", stats.TopBarbers[0].Name)
	assert.EqualValues(t, 120000, stats.TopBarbers[0].Revenue)
	assert.Equal(t, "Joko", stats.TopBarbers[1].Name)
	assert.Nil(t, stats.CurrentShift)
}

func TestDashboardDefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t)
	_, err := f.shiftSvc.OpenShift(context.Background(), f.owner.ID, 100000)
	require.NoError(t, err)

	stats, err := f.dashboard.GetDashboardStats(context.Background(), DateRange{})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", stats.From)
	assert.Equal(t, "2024-03-31", stats.To)
	assert.Len(t, stats.DailyRevenue, 31)
	assert.Equal(t, map[string]int64{"cash": 0, "electronic": 0}, stats.RevenueByMethod)
	require.NotNil(t, stats.CurrentShift)
}

func TestDashboardRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, shopTZ)
	to := time.Date(2024, 3, 9, 0, 0, 0, 0, shopTZ)

	_, err := f.dashboard.GetDashboardStats(context.Background(), DateRange{From: &from, To: &to})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"to"}, fieldNames(appErr))
}

func TestCreateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense, err := f.expense.CreateExpense(ctx, &CreateExpenseInput{
		Description: " Water bill ",
		Amount:      120000,
		Category:    enum.ExpenseCategoryUtilities,
		RecordedBy:  f.owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Water bill", expense.Description)
	assert.True(t, expense.SpentAt.Equal(f.clock.Now()))

	_, err = f.expense.CreateExpense(ctx, &CreateExpenseInput{Category: "snacks"})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"description", "amount", "category"}, fieldNames(appErr))
}

func TestListAndDeleteExpenses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, category := range []enum.ExpenseCategory{enum.ExpenseCategoryRent, enum.ExpenseCategoryOther, enum.ExpenseCategoryRent} {
		spentAt := f.clock.Now().Add(time.Duration(i) * time.Hour)
		_, err := f.expense.CreateExpense(ctx, &CreateExpenseInput{
			Description: "Expense",
			Amount:      int64(1000 * (i + 1)),
			Category:    category,
			SpentAt:     &spentAt,
			RecordedBy:  f.owner.ID,
		})
		require.NoError(t, err)
	}

	rent := enum.ExpenseCategoryRent
	result, err := f.expense.ListExpenses(ctx, &repository.ExpenseFilterParams{
		Pagination: pagination.DefaultPagination(),
		Category:   &rent,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.EqualValues(t, 3000, result.Items[0].Amount)
	assert.EqualValues(t, 2, result.Pagination.Total)

	require.NoError(t, f.expense.DeleteExpense(ctx, result.Items[0].ID))
	_, err = f.expense.GetExpense(ctx, result.Items[0].ID)
	requireAppError(t, err, http.StatusNotFound)

	err = f.expense.DeleteExpense(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound)
}
