package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

const topBarbersLimit = 5

// DashboardService provides the owner's overview of a period
type DashboardService struct {
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	userRepo    repository.UserRepository
	shiftRepo   repository.ShiftRepository
	loc         *time.Location
	now         Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	userRepo repository.UserRepository,
	shiftRepo repository.ShiftRepository,
	loc *time.Location,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		shiftRepo:   shiftRepo,
		loc:         loc,
		now:         systemClock(clock),
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	From               string                `json:"from"`
	To                 string                `json:"to"`
	Revenue            int64                 `json:"revenue"`
	SaleCount          int64                 `json:"sale_count"`
	RevenueByMethod    map[string]int64      `json:"revenue_by_payment_method"`
	Expenses           int64                 `json:"expenses"`
	NetIncome          int64                 `json:"net_income"`
	ExpensesByCategory []CategoryAmountPoint `json:"expenses_by_category"`
	DailyRevenue       []DailyRevenuePoint   `json:"daily_revenue"`
	TopBarbers         []BarberPerformance   `json:"top_barbers"`
	CurrentShift       *entity.Shift         `json:"current_shift"`
}

// DailyRevenuePoint represents a daily revenue data point
type DailyRevenuePoint struct {
	Date      string `json:"date"`
	SaleCount int64  `json:"sale_count"`
	Revenue   int64  `json:"revenue"`
}

// CategoryAmountPoint represents expenses of one category
type CategoryAmountPoint struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Amount   int64  `json:"amount"`
}

// BarberPerformance ranks barbers by revenue
type BarberPerformance struct {
	BarberID  uuid.UUID `json:"barber_id"`
	Name      string    `json:"name"`
	SaleCount int64     `json:"sale_count"`
	Revenue   int64     `json:"revenue"`
}

// DateRange is a whole-day period in the shop time zone. To is inclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (s *DashboardService) resolve(r DateRange) (time.Time, time.Time, error) {
	now := s.now().In(s.loc)
	from, to := monthRange(now.Year(), now.Month(), s.loc)
	if r.From != nil {
		from, _ = dayRange(*r.From, s.loc)
	}
	if r.To != nil {
		_, to = dayRange(*r.To, s.loc)
	}
	if !from.Before(to) {
		return from, to, apperror.NewFieldError("to", "must not be before from")
	}
	return from, to, nil
}

// GetDashboardStats returns revenue, expenses and staff performance for the
// range, defaulting to the current month.
func (s *DashboardService) GetDashboardStats(ctx context.Context, r DateRange) (*DashboardStats, error) {
	from, to, err := s.resolve(r)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		From:            from.Format("2006-01-02"),
		To:              to.AddDate(0, 0, -1).Format("2006-01-02"),
		RevenueByMethod: make(map[string]int64, len(enum.PaymentMethods)),
	}

	methods, err := s.saleRepo.SumByPaymentMethod(ctx, from, to)
	if err != nil {
		return nil, apperror.NewDependencyError("load revenue", err)
	}
	for _, m := range enum.PaymentMethods {
		stats.RevenueByMethod[m.String()] = 0
	}
	for _, m := range methods {
		stats.Revenue += m.Total
		stats.SaleCount += m.SaleCount
		stats.RevenueByMethod[m.PaymentMethod.String()] = m.Total
	}

	stats.Expenses, err = s.expenseRepo.SumBetween(ctx, from, to)
	if err != nil {
		return nil, apperror.NewDependencyError("load expenses", err)
	}
	stats.NetIncome = stats.Revenue - stats.Expenses

	categories, err := s.expenseRepo.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, apperror.NewDependencyError("load expenses", err)
	}
	stats.ExpensesByCategory = make([]CategoryAmountPoint, 0, len(categories))
	for _, c := range categories {
		stats.ExpensesByCategory = append(stats.ExpensesByCategory, CategoryAmountPoint{
			Category: c.Category.String(),
			Count:    c.Count,
			Amount:   c.Total,
		})
	}

	daily, err := s.saleRepo.DailyRevenue(ctx, from, to, s.loc)
	if err != nil {
		return nil, apperror.NewDependencyError("load daily revenue", err)
	}
	stats.DailyRevenue = fillDays(from, to, daily)

	stats.TopBarbers, err = s.topBarbers(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stats.CurrentShift, err = s.shiftRepo.GetOpen(ctx)
	if err != nil {
		return nil, apperror.NewDependencyError("load current shift", err)
	}

	return stats, nil
}

// fillDays returns one point per day in [from, to), zero where nothing sold
func fillDays(from, to time.Time, rows []repository.DailyRevenueResult) []DailyRevenuePoint {
	byDay := make(map[string]repository.DailyRevenueResult, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format("2006-01-02")] = r
	}

	var points []DailyRevenuePoint
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		r := byDay[key]
		points = append(points, DailyRevenuePoint{Date: key, SaleCount: r.SaleCount, Revenue: r.Revenue})
	}
	return points
}

func (s *DashboardService) topBarbers(ctx context.Context, from, to time.Time) ([]BarberPerformance, error) {
	rows, err := s.saleRepo.SumByBarber(ctx, from, to)
	if err != nil {
		return nil, apperror.NewDependencyError("load barber performance", err)
	}
	if len(rows) > topBarbersLimit {
		rows = rows[:topBarbersLimit]
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.BarberID
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewDependencyError("load barbers", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	result := make([]BarberPerformance, 0, len(rows))
	for _, r := range rows {
		result = append(result, BarberPerformance{
			BarberID:  r.BarberID,
			Name:      names[r.BarberID],
			SaleCount: r.SaleCount,
			Revenue:   r.TotalRevenue,
		})
	}
	return result, nil
}
