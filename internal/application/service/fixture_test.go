package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/events"
	"github.com/sangkips/barberpos-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// shopTZ avoids depending on the host's tzdata
var shopTZ = time.FixedZone("WIB", 7*60*60)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mapCache is a Cache that keeps JSON in a map and counts hits
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	dels []string
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.dels = append(c.dels, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type fixture struct {
	store     *memory.Store
	users     repository.UserRepository
	sales     repository.SaleRepository
	shifts    repository.ShiftRepository
	expenses  repository.ExpenseRepository
	cache     *mapCache
	publisher *recordingPublisher
	clock     *fakeClock

	sequencer *InvoiceSequencer
	shiftSvc  *ShiftService
	payroll   *PayrollService
	saleSvc   *SaleService
	expense   *ExpenseService
	dashboard *DashboardService
	userSvc   *UserService

	owner  *entity.User
	barber *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:     store,
		users:     memory.NewUserRepository(store),
		sales:     memory.NewSaleRepository(store),
		shifts:    memory.NewShiftRepository(store),
		expenses:  memory.NewExpenseRepository(store),
		cache:     newMapCache(),
		publisher: &recordingPublisher{},
		clock:     &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, shopTZ)},
	}

	f.sequencer = NewInvoiceSequencer(f.sales, shopTZ)
	f.shiftSvc = NewShiftService(f.shifts, f.sales, f.expenses, f.publisher, f.clock.Now)
	f.payroll = NewPayrollService(f.users, f.sales, f.cache, time.Hour, shopTZ, f.clock.Now)
	f.saleSvc = NewSaleService(
		memory.NewTransactor(store),
		f.sales,
		f.users,
		f.sequencer,
		f.shiftSvc,
		f.payroll,
		f.publisher,
		events.NewBackupTrigger(events.NewNoopPublisher(), time.Hour),
		f.clock.Now,
	)
	f.expense = NewExpenseService(f.expenses, f.clock.Now)
	f.dashboard = NewDashboardService(f.sales, f.expenses, f.users, f.shifts, shopTZ, f.clock.Now)
	f.userSvc = NewUserService(f.users)

	f.owner = f.addUser(t, "Owner", enum.UserRoleOwner, enum.CommissionPercentage, 0)
	f.barber = f.addUser(t, "Budi", enum.UserRoleStaff, enum.CommissionPercentage, 40)
	return f
}

// addUser stores an account directly, skipping bcrypt
func (f *fixture) addUser(t *testing.T, name string, role enum.UserRole, ct enum.CommissionType, value int64) *entity.User {
	t.Helper()
	u := &entity.User{
		Name:            name,
		Username:        uuid.NewString()[:8],
		Password:        "x",
		Role:            role,
		Status:          enum.UserStatusActive,
		CommissionType:  ct,
		CommissionValue: decimal.NewFromInt(value),
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) sell(t *testing.T, barber *entity.User, method enum.PaymentMethod, prices ...int64) *entity.Sale {
	t.Helper()
	items := make([]SaleItemInput, 0, len(prices))
	for i, p := range prices {
		items = append(items, SaleItemInput{Name: "Service " + string(rune('A'+i)), UnitPrice: p, Quantity: 1})
	}
	sale, err := f.saleSvc.RecordSale(context.Background(), &RecordSaleInput{
		Items:         items,
		PaymentMethod: method,
		BarberID:      barber.ID,
		CashierID:     f.owner.ID,
	})
	require.NoError(t, err)
	return sale
}

// requireAppError asserts err is an AppError with the given status code
func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperror.IsAppError(err), "expected AppError, got %v", err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func fieldNames(appErr *apperror.AppError) []string {
	names := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func int64Ptr(v int64) *int64 { return &v }
