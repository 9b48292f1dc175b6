package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// MaxDailyInvoices is the last sequence number a three digit code can carry
const MaxDailyInvoices = 999

// InvoiceSequencer hands out day-scoped invoice codes INV-YYMMDD-NNN
type InvoiceSequencer struct {
	saleRepo repository.SaleRepository
	loc      *time.Location
}

// NewInvoiceSequencer creates a sequencer that numbers days in loc
func NewInvoiceSequencer(saleRepo repository.SaleRepository, loc *time.Location) *InvoiceSequencer {
	return &InvoiceSequencer{saleRepo: saleRepo, loc: loc}
}

// NextInvoiceCode returns the code for the next sale on now's business day.
// It must run inside the transaction that inserts the sale: the day lock it
// takes is held until that transaction ends.
func (s *InvoiceSequencer) NextInvoiceCode(ctx context.Context, now time.Time) (string, error) {
	from, to := dayRange(now, s.loc)

	if err := s.saleRepo.LockInvoiceDay(ctx, from); err != nil {
		return "", apperror.NewDependencyError("reserve invoice number", err)
	}

	n, err := s.saleRepo.CountBetween(ctx, from, to)
	if err != nil {
		return "", apperror.NewDependencyError("count today's sales", err)
	}

	seq := n + 1
	if seq > MaxDailyInvoices {
		return "", apperror.NewConflictError("daily invoice capacity reached")
	}

	return FormatInvoiceCode(from, seq), nil
}

// FormatInvoiceCode renders day and seq as INV-YYMMDD-NNN
func FormatInvoiceCode(day time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%03d", day.Format("060102"), seq)
}
