package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayrollHandler serves monthly commission statements
type PayrollHandler struct {
	payrollService *service.PayrollService
	loc            *time.Location
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(payrollService *service.PayrollService, loc *time.Location) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, loc: loc}
}

type payrollQuery struct {
	month        int
	year         int
	includeOwner bool
}

func (h *PayrollHandler) parse(c *gin.Context) (*payrollQuery, error) {
	month, year, err := monthYear(c, h.loc)
	if err != nil {
		return nil, err
	}

	q := &payrollQuery{month: month, year: year}
	if v := c.Query("include_owner"); v != "" {
		q.includeOwner, err = strconv.ParseBool(v)
		if err != nil {
			return nil, apperror.NewFieldError("include_owner", "must be true or false")
		}
	}
	return q, nil
}

// Get returns one statement per active account for the month
// @Summary Compute Payroll
// @Tags payroll
// @Produce json
// @Param month query int false "Month 1-12, defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Param include_owner query bool false "Include owner accounts"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /payroll [get]
func (h *PayrollHandler) Get(c *gin.Context) {
	q, err := h.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	statements, err := h.payrollService.ComputePayroll(c.Request.Context(), q.month, q.year, q.includeOwner)
	if err != nil {
		response.Error(c, err)
		return
	}

	var totalCommission, totalRevenue int64
	for _, st := range statements {
		totalCommission += st.Commission
		totalRevenue += st.TotalRevenue
	}

	response.OK(c, "Payroll computed successfully", gin.H{
		"month":            q.month,
		"year":             q.year,
		"statements":       statements,
		"total_revenue":    totalRevenue,
		"total_commission": totalCommission,
	})
}

// Export downloads the month's statements as an xlsx workbook
func (h *PayrollHandler) Export(c *gin.Context) {
	q, err := h.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	buf, err := h.payrollService.ExportPayroll(c.Request.Context(), q.month, q.year, q.includeOwner)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("payroll-%04d-%02d.xlsx", q.year, q.month)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
