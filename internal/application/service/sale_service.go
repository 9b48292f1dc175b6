package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/events"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/money"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// SaleService records checkouts and serves sale history
type SaleService struct {
	tx        repository.Transactor
	saleRepo  repository.SaleRepository
	userRepo  repository.UserRepository
	sequencer *InvoiceSequencer
	shifts    *ShiftService
	payroll   *PayrollService
	publisher events.Publisher
	backup    *events.BackupTrigger
	now       Clock
}

// NewSaleService creates a new sale service
func NewSaleService(
	tx repository.Transactor,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	sequencer *InvoiceSequencer,
	shifts *ShiftService,
	payroll *PayrollService,
	publisher events.Publisher,
	backup *events.BackupTrigger,
	clock Clock,
) *SaleService {
	return &SaleService{
		tx:        tx,
		saleRepo:  saleRepo,
		userRepo:  userRepo,
		sequencer: sequencer,
		shifts:    shifts,
		payroll:   payroll,
		publisher: publisher,
		backup:    backup,
		now:       systemClock(clock),
	}
}

// SaleItemInput represents one line of a checkout
type SaleItemInput struct {
	Name      string
	UnitPrice int64
	Quantity  int
}

// RecordSaleInput represents the checkout input
type RecordSaleInput struct {
	Items         []SaleItemInput
	PaymentMethod enum.PaymentMethod
	BarberID      uuid.UUID
	CashierID     uuid.UUID
	CustomerName  *string
	CustomerPhone *string
	// TotalAmount is the client's own total. When present it must match.
	TotalAmount *int64
}

func validateSaleInput(input *RecordSaleInput) []apperror.FieldError {
	var fields []apperror.FieldError
	add := func(field, msg string) {
		fields = append(fields, apperror.FieldError{Field: field, Message: msg})
	}

	if len(input.Items) == 0 {
		add("items", "must contain at least one item")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			add(fmt.Sprintf("items[%d].name", i), "is required")
		}
		if item.Quantity <= 0 {
			add(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		if item.UnitPrice < 0 {
			add(fmt.Sprintf("items[%d].unit_price", i), "must be greater than or equal to 0")
		}
	}
	if !input.PaymentMethod.IsValid() {
		add("payment_method", "must be one of [cash electronic]")
	}
	if input.BarberID == uuid.Nil {
		add("barber_id", "is required")
	}
	return fields
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// RecordSale validates and persists a sale. Invoice numbering, the insert
// and the shift revenue update commit or roll back together.
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.Sale, error) {
	if fields := validateSaleInput(input); len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	items := make([]entity.SaleItem, 0, len(input.Items))
	var total int64
	for i, item := range input.Items {
		subtotal, ok := money.LineTotal(item.UnitPrice, item.Quantity)
		if ok {
			total, ok = money.Add(total, subtotal)
		}
		if !ok {
			return nil, apperror.NewFieldError(fmt.Sprintf("items[%d].unit_price", i), "makes the sale total too large")
		}
		items = append(items, entity.SaleItem{
			Position:  i + 1,
			Name:      strings.TrimSpace(item.Name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
	}

	if input.TotalAmount != nil && *input.TotalAmount != total {
		return nil, apperror.NewFieldError("total_amount", fmt.Sprintf("does not match the sum of the items (%d)", total))
	}

	barber, err := s.userRepo.GetByID(ctx, input.BarberID)
	if err != nil {
		return nil, apperror.NewDependencyError("load barber", err)
	}
	if barber == nil {
		return nil, apperror.NewFieldError("barber_id", "does not refer to an existing staff account")
	}
	if !barber.IsActive() {
		return nil, apperror.NewFieldError("barber_id", "refers to an inactive account")
	}

	sale := &entity.Sale{
		SoldAt:        s.now(),
		CustomerName:  optionalText(input.CustomerName),
		CustomerPhone: optionalText(input.CustomerPhone),
		BarberID:      barber.ID,
		CashierID:     input.CashierID,
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   total,
		Items:         items,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		code, err := s.sequencer.NextInvoiceCode(ctx, sale.SoldAt)
		if err != nil {
			return err
		}
		sale.InvoiceCode = code

		shift, err := s.shifts.RecordSaleRevenue(ctx, total)
		if err != nil {
			return err
		}
		if shift != nil {
			sale.ShiftID = &shift.ID
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperror.NewConflictError("Invoice code " + code + " is already taken, please retry")
			}
			return apperror.NewDependencyError("record sale", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.Barber = barber
	s.afterRecord(ctx, sale)
	return sale, nil
}

// afterRecord runs the best-effort side effects of a committed sale
func (s *SaleService) afterRecord(ctx context.Context, sale *entity.Sale) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	s.payroll.InvalidateMonth(ctx, sale.SoldAt)

	if err := s.publisher.Publish(ctx, events.SaleRecorded, map[string]interface{}{
		"sale_id":        sale.ID,
		"invoice_code":   sale.InvoiceCode,
		"barber_id":      sale.BarberID,
		"cashier_id":     sale.CashierID,
		"shift_id":       sale.ShiftID,
		"payment_method": sale.PaymentMethod,
		"total_amount":   sale.TotalAmount,
		"sold_at":        sale.SoldAt,
	}); err != nil {
		log.Printf("Warning: failed to publish %s for %s: %v", events.SaleRecorded, sale.InvoiceCode, err)
	}

	s.backup.Poke(events.SaleRecorded)
}

// GetSale returns a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewDependencyError("load sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetSaleByInvoice returns a sale by its invoice code
func (s *SaleService) GetSaleByInvoice(ctx context.Context, code string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByInvoiceCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, apperror.NewDependencyError("load sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales returns a paginated list of sales, newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewDependencyError("list sales", err)
	}
	return pagination.NewPaginatedResult(sales, params.Pagination, total), nil
}
