package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
)

type saleRepository struct {
	store *Store
}

func NewSaleRepository(store *Store) domainRepo.SaleRepository {
	return &saleRepository{store: store}
}

// LockInvoiceDay is covered by the store-wide transaction lock
func (r *saleRepository) LockInvoiceDay(ctx context.Context, day time.Time) error {
	return nil
}

func (r *saleRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, s := range r.store.sales {
		if inRange(s.SoldAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.sales {
		if s.InvoiceCode == sale.InvoiceCode {
			return duplicate("sales_invoice_code_key")
		}
	}

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	for i := range sale.Items {
		if sale.Items[i].ID == uuid.Nil {
			sale.Items[i].ID = uuid.New()
		}
		sale.Items[i].SaleID = sale.ID
	}

	stored := *sale
	stored.Items = append([]entity.SaleItem(nil), sale.Items...)
	stored.Barber, stored.Cashier = nil, nil
	r.store.sales[sale.ID] = stored
	return nil
}

func (r *saleRepository) withRelations(s entity.Sale) *entity.Sale {
	if u, ok := r.store.users[s.BarberID]; ok {
		s.Barber = &u
	}
	if u, ok := r.store.users[s.CashierID]; ok {
		s.Cashier = &u
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	return r.withRelations(s), nil
}

func (r *saleRepository) GetByInvoiceCode(ctx context.Context, code string) (*entity.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.sales {
		if s.InvoiceCode == code {
			return r.withRelations(s), nil
		}
	}
	return nil, nil
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := sortedValues(r.store.sales, func(a, b entity.Sale) bool { return a.SoldAt.After(b.SoldAt) })
	search := strings.ToLower(params.Search)

	var matched []entity.Sale
	for _, s := range all {
		if search != "" && !strings.Contains(strings.ToLower(s.InvoiceCode), search) &&
			(s.CustomerName == nil || !strings.Contains(strings.ToLower(*s.CustomerName), search)) {
			continue
		}
		if params.From != nil && s.SoldAt.Before(*params.From) {
			continue
		}
		if params.To != nil && !s.SoldAt.Before(*params.To) {
			continue
		}
		if params.BarberID != nil && s.BarberID != *params.BarberID {
			continue
		}
		if params.ShiftID != nil && (s.ShiftID == nil || *s.ShiftID != *params.ShiftID) {
			continue
		}
		if params.PaymentMethod != nil && s.PaymentMethod != *params.PaymentMethod {
			continue
		}
		matched = append(matched, *r.withRelations(s))
	}

	return page(matched, params.Pagination), int64(len(matched)), nil
}

func (r *saleRepository) SumByBarber(ctx context.Context, from, to time.Time) ([]domainRepo.BarberSalesResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byBarber := make(map[uuid.UUID]*domainRepo.BarberSalesResult)
	for _, s := range r.store.sales {
		if !inRange(s.SoldAt, from, to) {
			continue
		}
		res, ok := byBarber[s.BarberID]
		if !ok {
			res = &domainRepo.BarberSalesResult{BarberID: s.BarberID}
			byBarber[s.BarberID] = res
		}
		res.SaleCount++
		res.TotalRevenue += s.TotalAmount
	}

	results := make([]domainRepo.BarberSalesResult, 0, len(byBarber))
	for _, res := range byBarber {
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].TotalRevenue > results[j].TotalRevenue })
	return results, nil
}

func (r *saleRepository) SumByPaymentMethod(ctx context.Context, from, to time.Time) ([]domainRepo.PaymentMethodTotal, error) {
	return r.sumByMethod(func(s entity.Sale) bool { return inRange(s.SoldAt, from, to) }), nil
}

func (r *saleRepository) SumByShift(ctx context.Context, shiftID uuid.UUID) ([]domainRepo.PaymentMethodTotal, error) {
	return r.sumByMethod(func(s entity.Sale) bool { return s.ShiftID != nil && *s.ShiftID == shiftID }), nil
}

func (r *saleRepository) sumByMethod(match func(entity.Sale) bool) []domainRepo.PaymentMethodTotal {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byMethod := make(map[enum.PaymentMethod]*domainRepo.PaymentMethodTotal)
	for _, s := range r.store.sales {
		if !match(s) {
			continue
		}
		res, ok := byMethod[s.PaymentMethod]
		if !ok {
			res = &domainRepo.PaymentMethodTotal{PaymentMethod: s.PaymentMethod}
			byMethod[s.PaymentMethod] = res
		}
		res.SaleCount++
		res.Total += s.TotalAmount
	}

	results := make([]domainRepo.PaymentMethodTotal, 0, len(byMethod))
	for _, m := range enum.PaymentMethods {
		if res, ok := byMethod[m]; ok {
			results = append(results, *res)
		}
	}
	return results
}

func (r *saleRepository) DailyRevenue(ctx context.Context, from, to time.Time, loc *time.Location) ([]domainRepo.DailyRevenueResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byDay := make(map[string]*domainRepo.DailyRevenueResult)
	for _, s := range r.store.sales {
		if !inRange(s.SoldAt, from, to) {
			continue
		}
		local := s.SoldAt.In(loc)
		key := local.Format("2006-01-02")
		res, ok := byDay[key]
		if !ok {
			y, m, d := local.Date()
			res = &domainRepo.DailyRevenueResult{Date: time.Date(y, m, d, 0, 0, 0, 0, loc)}
			byDay[key] = res
		}
		res.SaleCount++
		res.Revenue += s.TotalAmount
	}

	results := make([]domainRepo.DailyRevenueResult, 0, len(byDay))
	for _, res := range byDay {
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date.Before(results[j].Date) })
	return results, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
