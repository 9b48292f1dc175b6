package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// Close releases the connection pool
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Warning: failed to get underlying sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
		return
	}
	log.Println("Database connection closed")
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Shift{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Expense{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one open shift, system wide
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_shifts_single_open
		ON shifts (status) WHERE status = 'open'`).Error
	if err != nil {
		return fmt.Errorf("failed to create open shift index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the owner account if configured via environment variables
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	ownerUsername := strings.ToLower(strings.TrimSpace(viper.GetString("OWNER_USERNAME")))
	ownerPassword := viper.GetString("OWNER_PASSWORD")
	ownerName := viper.GetString("OWNER_NAME")

	if ownerUsername == "" || ownerPassword == "" {
		log.Println("OWNER_USERNAME or OWNER_PASSWORD not set, skipping owner account")
		return nil
	}

	var existing entity.User
	if err := db.Where("username = ?", ownerUsername).First(&existing).Error; err == nil {
		log.Printf("Owner account already exists: %s", ownerUsername)
		return nil
	}

	hashedPassword, err := utils.HashPassword(ownerPassword)
	if err != nil {
		return fmt.Errorf("failed to hash owner password: %w", err)
	}

	if ownerName == "" {
		ownerName = "Owner"
	}

	owner := entity.User{
		Name:            ownerName,
		Username:        ownerUsername,
		Password:        hashedPassword,
		Role:            enum.UserRoleOwner,
		Status:          enum.UserStatusActive,
		CommissionType:  enum.CommissionPercentage,
		CommissionValue: decimal.Zero,
	}
	if err := db.Create(&owner).Error; err != nil {
		return fmt.Errorf("failed to create owner account: %w", err)
	}

	log.Printf("Owner account created: %s", ownerUsername)
	log.Println("Default data seeding completed")
	return nil
}
