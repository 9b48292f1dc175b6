package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// SaleHandler handles checkout and sale history requests
type SaleHandler struct {
	saleService    *service.SaleService
	printerService *service.PrinterService
	loc            *time.Location
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, printerService *service.PrinterService, loc *time.Location) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		printerService: printerService,
		loc:            loc,
	}
}

// Create records a checkout
// @Summary Record Sale
// @Description Record a checkout, assign an invoice code and credit the open shift
// @Tags sales
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry key"
// @Param request body request.CreateSaleRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	cashierID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		response.Error(c, apperror.NewFieldError("barber_id", "must be a valid UUID"))
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), &service.RecordSaleInput{
		Items:         items,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		BarberID:      barberID,
		CashierID:     cashierID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// List returns sale history
func (h *SaleHandler) List(c *gin.Context) {
	params := &repository.SaleFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}

	var err error
	if params.From, params.To, err = queryRange(c, h.loc); err != nil {
		response.Error(c, err)
		return
	}
	if params.BarberID, err = queryUUID(c, "barber_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.ShiftID, err = queryUUID(c, "shift_id"); err != nil {
		response.Error(c, err)
		return
	}
	if v := c.Query("payment_method"); v != "" {
		method := enum.PaymentMethod(v)
		if !method.IsValid() {
			response.Error(c, apperror.NewFieldError("payment_method", "must be one of [cash electronic]"))
			return
		}
		params.PaymentMethod = &method
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Get returns a sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// GetByInvoice looks a sale up by its invoice code
func (h *SaleHandler) GetByInvoice(c *gin.Context) {
	sale, err := h.saleService.GetSaleByInvoice(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Print sends the sale's receipt to the thermal printer. The receipt is
// returned even when printing fails.
func (h *SaleHandler) Print(c *gin.Context) {
	id, ok := pathID(c, "sale")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintSaleReceipt(c.Request.Context(), id)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// ReceiptPDF streams the sale's receipt as a PDF
func (h *SaleHandler) ReceiptPDF(c *gin.Context) {
	id, ok := pathID(c, "sale")
	if !ok {
		return
	}

	receipt, err := h.printerService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteReceiptPDF(&buf, receipt); err != nil {
		response.Error(c, apperror.NewDependencyError("render receipt", err))
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+receipt.InvoiceCode+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
