package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/infrastructure/cache"
	"github.com/sangkips/barberpos-api/internal/infrastructure/events"
	"github.com/sangkips/barberpos-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	jwt    *utils.JWTManager
	owner  *entity.User
	staff  *entity.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	shiftRepo := memory.NewShiftRepository(store)
	expenseRepo := memory.NewExpenseRepository(store)
	loc := time.UTC

	publisher := events.NewNoopPublisher()
	jwtManager := utils.NewJWTManager("routes-test-secret", time.Hour, 24*time.Hour)

	sequencer := service.NewInvoiceSequencer(saleRepo, loc)
	shiftService := service.NewShiftService(shiftRepo, saleRepo, expenseRepo, publisher, nil)
	payrollService := service.NewPayrollService(userRepo, saleRepo, cache.NewNoopCache(), time.Minute, loc, nil)
	saleService := service.NewSaleService(memory.NewTransactor(store), saleRepo, userRepo, sequencer, shiftService,
		payrollService, publisher, events.NewBackupTrigger(publisher, time.Hour), nil)
	printerService := service.NewPrinterService(printer.NewNullPrinter(), saleService, config.ShopConfig{Name: "Test Cuts"}, 32, loc)

	h := &Handlers{
		Health:    handler.NewHealthHandler(nil, "barberpos-api"),
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		Sale:      handler.NewSaleHandler(saleService, printerService, loc),
		Shift:     handler.NewShiftHandler(shiftService),
		Expense:   handler.NewExpenseHandler(service.NewExpenseService(expenseRepo, nil), loc),
		Payroll:   handler.NewPayrollHandler(payrollService, loc),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(saleRepo, expenseRepo, userRepo, shiftRepo, loc, nil), loc),
		User:      handler.NewUserHandler(service.NewUserService(userRepo)),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	router, err := Setup(h, &Deps{
		JWTManager:      jwtManager,
		Cfg:             &config.Config{RateLimit: config.RateLimitConfig{Login: "100-M"}},
		IdempotencyRepo: memory.NewIdempotencyRepository(store),
	})
	require.NoError(t, err)

	srv := &testServer{t: t, router: router, jwt: jwtManager}
	srv.owner = srv.addUser("owner", enum.UserRoleOwner, userRepo.Create)
	srv.staff = srv.addUser("budi", enum.UserRoleStaff, userRepo.Create)
	return srv
}

func (s *testServer) addUser(username string, role enum.UserRole, create func(context.Context, *entity.User) error) *entity.User {
	hash, err := utils.HashPassword("secret123")
	require.NoError(s.t, err)
	u := &entity.User{
		Name:            strings.ToUpper(username[:1]) + username[1:],
		Username:        username,
		Password:        hash,
		Role:            role,
		Status:          enum.UserStatusActive,
		CommissionType:  enum.CommissionPercentage,
		CommissionValue: decimal.NewFromInt(40),
	}
	require.NoError(s.t, create(context.Background(), u))
	return u
}

func (s *testServer) token(u *entity.User) string {
	tok, err := s.jwt.GenerateAccessToken(u.ID, u.Username, u.Role.String())
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path string, as *entity.User, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(as))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/v1/sales", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/sales", nil, nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnerOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/payroll", "/api/v1/dashboard", "/api/v1/users"} {
		w := srv.do(http.MethodGet, path, srv.staff, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)

		w = srv.do(http.MethodGet, path, srv.owner, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"username": "BUDI", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &data)
	require.NotEmpty(t, data.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+data.AccessToken)
	profile := httptest.NewRecorder()
	srv.router.ServeHTTP(profile, req)
	assert.Equal(t, http.StatusOK, profile.Code)

	w = srv.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"username": "budi", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShiftAndSaleFlow(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/shifts/open", srv.staff, map[string]int64{"opening_cash": 200000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var shift entity.Shift
	decode(t, w, &shift)

	w = srv.do(http.MethodPost, "/api/v1/shifts/open", srv.owner, map[string]int64{"opening_cash": 0})
	assert.Equal(t, http.StatusConflict, w.Code)

	sale := map[string]interface{}{
		"items":          []map[string]interface{}{{"name": "Haircut", "unit_price": 50000, "quantity": 1}},
		"payment_method": "cash",
		"barber_id":      srv.staff.ID.String(),
		"total_amount":   50000,
	}
	w = srv.do(http.MethodPost, "/api/v1/sales", srv.staff, sale)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recorded entity.Sale
	decode(t, w, &recorded)
	assert.True(t, strings.HasPrefix(recorded.InvoiceCode, "INV-"))
	assert.True(t, strings.HasSuffix(recorded.InvoiceCode, "-001"))
	require.NotNil(t, recorded.ShiftID)
	assert.Equal(t, shift.ID, *recorded.ShiftID)

	w = srv.do(http.MethodGet, "/api/v1/sales/invoice/"+recorded.InvoiceCode, srv.staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/shifts/current", srv.staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current entity.Shift
	decode(t, w, &current)
	assert.EqualValues(t, 50000, current.TotalSystemRevenue)

	w = srv.do(http.MethodPost, "/api/v1/shifts/"+shift.ID.String()+"/close", srv.staff, map[string]int64{
		"closing_cash":            250000,
		"reported_system_revenue": 48000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var closed entity.Shift
	decode(t, w, &closed)
	assert.Equal(t, enum.ShiftStatusClosed, closed.Status)
	assert.EqualValues(t, 200000, closed.OpeningCash)
	assert.EqualValues(t, 50000, closed.TotalSystemRevenue)
	require.NotNil(t, closed.ClosingCash)
	assert.EqualValues(t, 250000, *closed.ClosingCash)
	require.NotNil(t, closed.ReportedRevenue)
	assert.EqualValues(t, 48000, *closed.ReportedRevenue)

	w = srv.do(http.MethodPost, "/api/v1/shifts/"+shift.ID.String()+"/close", srv.staff, map[string]int64{"closing_cash": 250000})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateSaleValidation(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/sales", srv.staff, map[string]interface{}{
		"items":          []map[string]interface{}{{"name": "Haircut", "unit_price": 50000, "quantity": 0}},
		"payment_method": "credit",
		"barber_id":      "nope",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	env := decode(t, w, nil)
	fields := make([]string, 0, len(env.Errors))
	for _, fe := range env.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"items[0].quantity", "payment_method", "barber_id"}, fields)

	w = srv.do(http.MethodPost, "/api/v1/sales", srv.staff, `{"items": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSaleIdempotency(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]interface{}{
		"items":          []map[string]interface{}{{"name": "Shave", "unit_price": 30000, "quantity": 1}},
		"payment_method": "electronic",
		"barber_id":      srv.staff.ID.String(),
	}

	first := srv.do(http.MethodPost, "/api/v1/sales", srv.staff, body, "Idempotency-Key", "checkout-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := srv.do(http.MethodPost, "/api/v1/sales", srv.staff, body, "Idempotency-Key", "checkout-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	body["payment_method"] = "cash"
	reused := srv.do(http.MethodPost, "/api/v1/sales", srv.staff, body, "Idempotency-Key", "checkout-1")
	assert.Equal(t, http.StatusConflict, reused.Code)

	w := srv.do(http.MethodGet, "/api/v1/sales", srv.staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []entity.Sale `json:"items"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Items, 1)
}

func TestPayrollEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/v1/payroll?month=13&year=2024", srv.owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/payroll?month=3&year=2024&include_owner=true", srv.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Statements []entity.PayrollStatement `json:"statements"`
	}
	decode(t, w, &data)
	assert.Len(t, data.Statements, 2)

	w = srv.do(http.MethodGet, "/api/v1/payroll/export?month=3&year=2024", srv.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll-2024-03.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExpenseDeleteIsOwnerOnly(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/v1/expenses", srv.staff, map[string]interface{}{
		"description": "Clippers oil",
		"amount":      12000,
		"category":    "supplies",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var expense entity.Expense
	decode(t, w, &expense)

	w = srv.do(http.MethodDelete, "/api/v1/expenses/"+expense.ID.String(), srv.staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(http.MethodDelete, "/api/v1/expenses/"+expense.ID.String(), srv.owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/expenses/"+expense.ID.String(), srv.owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
