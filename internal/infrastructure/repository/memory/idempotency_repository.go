package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
)

type idempotencyRepository struct {
	store *Store
}

func NewIdempotencyRepository(store *Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{store: store}
}

func idempotencyKey(key string, userID uuid.UUID) string {
	return userID.String() + "/" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ikey, ok := r.store.ikeys[idempotencyKey(key, userID)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := idempotencyKey(ikey.Key, ikey.UserID)
	if existing, ok := r.store.ikeys[k]; ok && !existing.IsExpired() {
		return nil
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = time.Now()
	r.store.ikeys[k] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for k, ikey := range r.store.ikeys {
		if ikey.IsExpired() {
			delete(r.store.ikeys, k)
			n++
		}
	}
	return n, nil
}
