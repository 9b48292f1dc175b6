package request

// SaleItemRequest is one line of a checkout
type SaleItemRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
	Quantity  int    `json:"quantity" binding:"gt=0"`
}

// CreateSaleRequest represents a checkout request
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=cash electronic"`
	BarberID      string            `json:"barber_id" binding:"required,uuid"`
	CustomerName  *string           `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone *string           `json:"customer_phone" binding:"omitempty,max=50"`
	TotalAmount   *int64            `json:"total_amount" binding:"omitempty,gte=0"`
}

// SaleFilterRequest represents sale list query parameters
type SaleFilterRequest struct {
	Search        string `form:"search"`
	From          string `form:"from"`
	To            string `form:"to"`
	BarberID      string `form:"barber_id"`
	ShiftID       string `form:"shift_id"`
	PaymentMethod string `form:"payment_method"`
	Page          string `form:"page"`
	PerPage       string `form:"per_page"`
}
