// Package memory holds in-process repository implementations used by tests
// and local demos. They enforce the same uniqueness rules as the database
// schema: unique invoice codes, unique usernames and a single open shift.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

type ctxKey struct{}

// Store is the shared state behind every memory repository
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[uuid.UUID]entity.User
	sales    map[uuid.UUID]entity.Sale
	shifts   map[uuid.UUID]entity.Shift
	expenses map[uuid.UUID]entity.Expense
	ikeys    map[string]entity.IdempotencyKey
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]entity.User),
		sales:    make(map[uuid.UUID]entity.Sale),
		shifts:   make(map[uuid.UUID]entity.Shift),
		expenses: make(map[uuid.UUID]entity.Expense),
		ikeys:    make(map[string]entity.IdempotencyKey),
	}
}

type snapshot struct {
	users    map[uuid.UUID]entity.User
	sales    map[uuid.UUID]entity.Sale
	shifts   map[uuid.UUID]entity.Shift
	expenses map[uuid.UUID]entity.Expense
	ikeys    map[string]entity.IdempotencyKey
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:    cloneMap(s.users),
		sales:    cloneMap(s.sales),
		shifts:   cloneMap(s.shifts),
		expenses: cloneMap(s.expenses),
		ikeys:    cloneMap(s.ikeys),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.sales = snap.sales
	s.shifts = snap.shifts
	s.expenses = snap.expenses
	s.ikeys = snap.ikeys
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type transactor struct {
	store *Store
}

// NewTransactor serializes transactions on the store and restores the
// previous state when fn fails.
func NewTransactor(store *Store) domainRepo.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(ctxKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, ctxKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func duplicate(what string) error {
	return fmt.Errorf("%w: %s", domainRepo.ErrDuplicateKey, what)
}

// page applies offset pagination to an already sorted slice
func page[T any](items []T, params *pagination.PaginationParams) []T {
	params.Validate()
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
