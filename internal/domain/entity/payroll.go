package entity

import (
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PayrollStatement is one account's pay for a calendar month.
// It is recomputed on request and never persisted.
type PayrollStatement struct {
	UserID          uuid.UUID           `json:"user_id"`
	Name            string              `json:"name"`
	Username        string              `json:"username"`
	Role            enum.UserRole       `json:"role"`
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
	CommissionType  enum.CommissionType `json:"commission_type"`
	CommissionValue decimal.Decimal     `json:"commission_value"`
	SaleCount       int64               `json:"sale_count"`
	TotalRevenue    int64               `json:"total_revenue"`
	Commission      int64               `json:"commission"`
}
