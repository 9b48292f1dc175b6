package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	loc              *time.Location
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, loc: loc}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	from, err := queryDay(c, "from", h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := queryDay(c, "to", h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), service.DateRange{From: from, To: to})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
