package request

// OpenShiftRequest represents an open shift request
type OpenShiftRequest struct {
	OpeningCash int64 `json:"opening_cash" binding:"gte=0"`
}

// CloseShiftRequest represents a close shift request
type CloseShiftRequest struct {
	ClosingCash           int64  `json:"closing_cash" binding:"gte=0"`
	ReportedSystemRevenue *int64 `json:"reported_system_revenue" binding:"omitempty,gte=0"`
}
