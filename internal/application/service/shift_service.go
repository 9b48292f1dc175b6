package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/events"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// ShiftService is the cash drawer ledger. Exactly one shift may be open.
type ShiftService struct {
	shiftRepo   repository.ShiftRepository
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	publisher   events.Publisher
	now         Clock
}

// NewShiftService creates a new shift service
func NewShiftService(
	shiftRepo repository.ShiftRepository,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	publisher events.Publisher,
	clock Clock,
) *ShiftService {
	return &ShiftService{
		shiftRepo:   shiftRepo,
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		publisher:   publisher,
		now:         systemClock(clock),
	}
}

var errShiftAlreadyOpen = apperror.NewConflictError("A shift is already open")

// OpenShift starts a new shift with the declared opening cash
func (s *ShiftService) OpenShift(ctx context.Context, openedBy uuid.UUID, openingCash int64) (*entity.Shift, error) {
	if openingCash < 0 {
		return nil, apperror.NewFieldError("opening_cash", "must be greater than or equal to 0")
	}

	existing, err := s.shiftRepo.GetOpen(ctx)
	if err != nil {
		return nil, apperror.NewDependencyError("check open shift", err)
	}
	if existing != nil {
		return nil, errShiftAlreadyOpen
	}

	shift := &entity.Shift{
		OpenedBy:    openedBy,
		OpeningCash: openingCash,
		Status:      enum.ShiftStatusOpen,
		OpenedAt:    s.now(),
	}

	// The partial unique index settles two opens racing past the check above
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errShiftAlreadyOpen
		}
		return nil, apperror.NewDependencyError("open shift", err)
	}

	s.publish(ctx, events.ShiftOpened, shift)
	return shift, nil
}

// RecordSaleRevenue folds amount into the open shift. It returns nil when
// no shift is open. Call it inside the sale's transaction.
func (s *ShiftService) RecordSaleRevenue(ctx context.Context, amount int64) (*entity.Shift, error) {
	shift, err := s.shiftRepo.AddRevenue(ctx, amount)
	if err != nil {
		return nil, apperror.NewDependencyError("update shift revenue", err)
	}
	return shift, nil
}

// CloseShiftInput represents the close shift input
type CloseShiftInput struct {
	ShiftID     uuid.UUID
	ClosedBy    uuid.UUID
	ClosingCash int64
	// ReportedSystemRevenue is the figure the cashier saw. It is kept for
	// audit; the ledger's own total is the stored snapshot.
	ReportedSystemRevenue *int64
}

// CloseShift closes an open shift with the counted closing cash
func (s *ShiftService) CloseShift(ctx context.Context, input *CloseShiftInput) (*entity.Shift, error) {
	if input.ClosingCash < 0 {
		return nil, apperror.NewFieldError("closing_cash", "must be greater than or equal to 0")
	}

	shift, err := s.GetShift(ctx, input.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, apperror.NewConflictError("Shift is already closed")
	}

	closedAt := s.now()
	closingCash := input.ClosingCash
	closedBy := input.ClosedBy
	shift.ClosedBy = &closedBy
	shift.ClosingCash = &closingCash
	shift.ReportedRevenue = input.ReportedSystemRevenue
	shift.ClosedAt = &closedAt

	closed, err := s.shiftRepo.Close(ctx, shift)
	if err != nil {
		return nil, apperror.NewDependencyError("close shift", err)
	}
	if !closed {
		return nil, apperror.NewConflictError("Shift is already closed")
	}

	// Reload for the revenue snapshot frozen by the close
	shift, err = s.GetShift(ctx, input.ShiftID)
	if err != nil {
		return nil, err
	}

	if r := input.ReportedSystemRevenue; r != nil && *r != shift.TotalSystemRevenue {
		log.Printf("Shift %s closed with reported revenue %d, ledger revenue %d", shift.ID, *r, shift.TotalSystemRevenue)
	}

	s.publish(ctx, events.ShiftClosed, shift)
	return shift, nil
}

// CurrentShift returns the open shift, or nil when none is open
func (s *ShiftService) CurrentShift(ctx context.Context) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetOpen(ctx)
	if err != nil {
		return nil, apperror.NewDependencyError("load current shift", err)
	}
	return shift, nil
}

// GetShift returns a shift by ID
func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewDependencyError("load shift", err)
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return shift, nil
}

// ListShifts returns a paginated list of shifts, newest first
func (s *ShiftService) ListShifts(ctx context.Context, params *repository.ShiftFilterParams) (*pagination.PaginatedResult[entity.Shift], error) {
	shifts, total, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewDependencyError("list shifts", err)
	}
	return pagination.NewPaginatedResult(shifts, params.Pagination, total), nil
}

// ShiftSummary reconciles the drawer: opening cash plus cash sales minus
// expenses spent during the shift is the expected cash.
func (s *ShiftService) ShiftSummary(ctx context.Context, id uuid.UUID) (*entity.ShiftSummary, error) {
	shift, err := s.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}

	totals, err := s.saleRepo.SumByShift(ctx, shift.ID)
	if err != nil {
		return nil, apperror.NewDependencyError("summarize shift sales", err)
	}

	until := s.now()
	if shift.ClosedAt != nil {
		until = *shift.ClosedAt
	}
	// include an expense stamped at the closing instant
	expenses, err := s.expenseRepo.SumBetween(ctx, shift.OpenedAt, until.Add(time.Nanosecond))
	if err != nil {
		return nil, apperror.NewDependencyError("summarize shift expenses", err)
	}

	summary := &entity.ShiftSummary{
		Shift:       shift,
		OpeningCash: shift.OpeningCash,
		Expenses:    expenses,
		ClosingCash: shift.ClosingCash,
	}
	for _, t := range totals {
		summary.SaleCount += t.SaleCount
		switch t.PaymentMethod {
		case enum.PaymentMethodCash:
			summary.CashSales += t.Total
		case enum.PaymentMethodElectronic:
			summary.ElectronicSales += t.Total
		}
	}

	summary.ExpectedCash = summary.OpeningCash + summary.CashSales - summary.Expenses
	if shift.ClosingCash != nil {
		d := *shift.ClosingCash - summary.ExpectedCash
		summary.Discrepancy = &d
	}

	return summary, nil
}

func (s *ShiftService) publish(ctx context.Context, eventType string, shift *entity.Shift) {
	if err := s.publisher.Publish(ctx, eventType, shift); err != nil {
		log.Printf("Warning: failed to publish %s for shift %s: %v", eventType, shift.ID, err)
	}
}
