package request

import "github.com/shopspring/decimal"

// CreateUserRequest represents a staff account creation request
type CreateUserRequest struct {
	Name            string          `json:"name" binding:"required,max=255"`
	Username        string          `json:"username" binding:"required,min=3,max=100"`
	Password        string          `json:"password" binding:"required,min=8"`
	Role            string          `json:"role" binding:"omitempty,oneof=owner staff"`
	CommissionType  string          `json:"commission_type" binding:"omitempty,oneof=percentage flat"`
	CommissionValue decimal.Decimal `json:"commission_value"`
}

// UpdateUserRequest represents a staff account update. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=255"`
	Role            *string          `json:"role" binding:"omitempty,oneof=owner staff"`
	Status          *string          `json:"status" binding:"omitempty,oneof=active inactive"`
	CommissionType  *string          `json:"commission_type" binding:"omitempty,oneof=percentage flat"`
	CommissionValue *decimal.Decimal `json:"commission_value"`
}

// ResetPasswordRequest sets a new password on a staff account
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}
