package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// ShiftHandler handles cash drawer shift requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Open starts a shift
// @Summary Open Shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param request body request.OpenShiftRequest true "Opening cash"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /shifts/open [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.OpenShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.shiftService.OpenShift(c.Request.Context(), userID, req.OpeningCash)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened successfully", shift)
}

// Close ends a shift
// @Summary Close Shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param request body request.CloseShiftRequest true "Closing cash"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /shifts/{id}/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "shift")
	if !ok {
		return
	}

	var req request.CloseShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.shiftService.CloseShift(c.Request.Context(), &service.CloseShiftInput{
		ShiftID:               id,
		ClosedBy:              userID,
		ClosingCash:           req.ClosingCash,
		ReportedSystemRevenue: req.ReportedSystemRevenue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed successfully", shift)
}

// Current returns the open shift, or null when the drawer is closed
func (h *ShiftHandler) Current(c *gin.Context) {
	shift, err := h.shiftService.CurrentShift(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if shift == nil {
		response.OK(c, "No shift is open", nil)
		return
	}

	response.OK(c, "Current shift retrieved successfully", shift)
}

// List returns shifts, newest first
func (h *ShiftHandler) List(c *gin.Context) {
	params := &repository.ShiftFilterParams{Pagination: pageParams(c)}
	if v := c.Query("status"); v != "" {
		status := enum.ShiftStatus(v)
		if !status.IsValid() {
			response.Error(c, apperror.NewFieldError("status", "must be one of [open closed]"))
			return
		}
		params.Status = &status
	}

	result, err := h.shiftService.ListShifts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Shifts retrieved successfully", result)
}

// Get returns a shift
func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "shift")
	if !ok {
		return
	}

	shift, err := h.shiftService.GetShift(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift retrieved successfully", shift)
}

// Summary returns the cash reconciliation of a shift
func (h *ShiftHandler) Summary(c *gin.Context) {
	id, ok := pathID(c, "shift")
	if !ok {
		return
	}

	summary, err := h.shiftService.ShiftSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift summary retrieved successfully", summary)
}
