package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) usernameTaken(username string, except uuid.UUID) bool {
	for _, u := range r.store.users {
		if u.ID != except && u.Username == username {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.usernameTaken(user.Username, uuid.Nil) {
		return duplicate("users_username_key")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.store.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var users []entity.User
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.usernameTaken(user.Username, user.ID) {
		return duplicate("users_username_key")
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *userRepository) List(ctx context.Context, params *domainRepo.UserFilterParams) ([]entity.User, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := sortedValues(r.store.users, func(a, b entity.User) bool { return a.Name < b.Name })
	search := strings.ToLower(params.Search)

	var matched []entity.User
	for _, u := range all {
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Username), search) {
			continue
		}
		if params.Role != nil && u.Role != *params.Role {
			continue
		}
		if params.Status != nil && u.Status != *params.Status {
			continue
		}
		matched = append(matched, u)
	}

	return page(matched, params.Pagination), int64(len(matched)), nil
}

func (r *userRepository) ListActive(ctx context.Context, includeOwner bool) ([]entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := sortedValues(r.store.users, func(a, b entity.User) bool { return a.Name < b.Name })

	var users []entity.User
	for _, u := range all {
		if u.Status != enum.UserStatusActive {
			continue
		}
		if !includeOwner && u.Role == enum.UserRoleOwner {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}
