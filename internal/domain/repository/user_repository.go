package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create returns ErrDuplicateKey when the username is taken
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
	// ListActive returns active accounts ordered by name, staff only unless includeOwner
	ListActive(ctx context.Context, includeOwner bool) ([]entity.User, error)
}

// UserFilterParams contains filtering parameters for user queries
type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Role       *enum.UserRole
	Status     *enum.UserStatus
}
