package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Sale      *handler.SaleHandler
	Shift     *handler.ShiftHandler
	Expense   *handler.ExpenseHandler
	Payroll   *handler.PayrollHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; nil disables per-user limiting
	RateLimiter *middleware.UserRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	loginLimit, err := middleware.LoginRateLimit(deps.Cfg.RateLimit.Login)
	if err != nil {
		return nil, err
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/health", h.Health.Check)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", loginLimit, h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router, nil
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	ownerOnly := middleware.RequireRole(enum.UserRoleOwner.String())

	// Profile
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Sales
	sales := protected.Group("/sales")
	{
		sales.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/invoice/:code", h.Sale.GetByInvoice)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/print", h.Sale.Print)
		sales.GET("/:id/receipt.pdf", h.Sale.ReceiptPDF)
	}

	// Shifts
	shifts := protected.Group("/shifts")
	{
		shifts.GET("", h.Shift.List)
		shifts.GET("/current", h.Shift.Current)
		shifts.POST("/open", h.Shift.Open)
		shifts.GET("/:id", h.Shift.Get)
		shifts.GET("/:id/summary", h.Shift.Summary)
		shifts.POST("/:id/close", h.Shift.Close)
	}

	// Expenses
	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.GET("/:id", h.Expense.Get)
		expenses.DELETE("/:id", ownerOnly, h.Expense.Delete)
	}

	// Payroll
	payroll := protected.Group("/payroll", ownerOnly)
	{
		payroll.GET("", h.Payroll.Get)
		payroll.GET("/export", h.Payroll.Export)
	}

	// Dashboard
	protected.GET("/dashboard", ownerOnly, h.Dashboard.GetStats)

	// Users
	users := protected.Group("/users", ownerOnly)
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/password", h.User.ResetPassword)
	}

	// Printer
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
