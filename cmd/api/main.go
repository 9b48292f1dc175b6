package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/config"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/cache"
	"github.com/sangkips/barberpos-api/internal/infrastructure/database"
	"github.com/sangkips/barberpos-api/internal/infrastructure/events"
	"github.com/sangkips/barberpos-api/internal/infrastructure/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/barberpos-api/internal/presentation/http/routes"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

const idempotencySweepInterval = time.Hour

func main() {
	app := &cli.App{
		Name:   "barberpos-api",
		Usage:  "barbershop point-of-sale backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "create the owner account from OWNER_* variables",
				Action: seed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func migrate(c *cli.Context) error {
	db, err := openDB(config.Load())
	if err != nil {
		return err
	}
	defer database.Close(db)

	log.Println("Migrations applied")
	return nil
}

func seed(c *cli.Context) error {
	db, err := openDB(config.Load())
	if err != nil {
		return err
	}
	defer database.Close(db)

	return database.SeedDefaultData(db)
}

func serve(c *cli.Context) error {
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	loc := cfg.App.Location()

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Redis is optional; without it caching and events are no-ops
	reportCache := cache.NewNoopCache()
	publisher := events.NewNoopPublisher()
	if cfg.Redis.Enabled {
		var client *redis.Client
		client, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis unavailable, continuing without cache and events: %v", err)
		} else {
			defer client.Close()
			reportCache = cache.NewRedisCache(client)
			publisher = events.NewRedisPublisher(client)
		}
	}
	backup := events.NewBackupTrigger(publisher, cfg.Backup.Interval)

	// Initialize repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	sequencer := service.NewInvoiceSequencer(saleRepo, loc)
	shiftService := service.NewShiftService(shiftRepo, saleRepo, expenseRepo, publisher, nil)
	payrollService := service.NewPayrollService(userRepo, saleRepo, reportCache, cfg.Payroll.CacheTTL, loc, nil)
	saleService := service.NewSaleService(tx, saleRepo, userRepo, sequencer, shiftService, payrollService, publisher, backup, nil)
	expenseService := service.NewExpenseService(expenseRepo, nil)
	dashboardService := service.NewDashboardService(saleRepo, expenseRepo, userRepo, shiftRepo, loc, nil)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, saleService, cfg.Shop, cfg.Printer.CharWidth, loc)

	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(db, cfg.App.Name),
		Auth:      handler.NewAuthHandler(authService),
		Sale:      handler.NewSaleHandler(saleService, printerService, loc),
		Shift:     handler.NewShiftHandler(shiftService),
		Expense:   handler.NewExpenseHandler(expenseService, loc),
		Payroll:   handler.NewPayrollHandler(payrollService, loc),
		Dashboard: handler.NewDashboardHandler(dashboardService, loc),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	router, err := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, idempotencyRepo)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, cfg.App.Port)
		log.Printf("Environment: %s, timezone: %s", cfg.App.Env, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("Server stopped")
	return nil
}

// sweepIdempotencyKeys removes expired checkout replay records until ctx ends
func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Warning: failed to delete expired idempotency keys: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Deleted %d expired idempotency keys", n)
			}
		}
	}
}
