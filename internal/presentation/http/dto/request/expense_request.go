package request

import "time"

// CreateExpenseRequest represents an expense creation request
type CreateExpenseRequest struct {
	Description string     `json:"description" binding:"required,max=500"`
	Amount      int64      `json:"amount" binding:"gt=0"`
	Category    string     `json:"category" binding:"required,oneof=supplies utilities rent salary maintenance other"`
	SpentAt     *time.Time `json:"spent_at"`
}
