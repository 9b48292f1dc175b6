package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UserService handles staff account management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	Name            string
	Username        string
	Password        string
	Role            enum.UserRole
	CommissionType  enum.CommissionType
	CommissionValue decimal.Decimal
}

// validateCommission checks a commission policy. Percentages live in [0,100],
// flat amounts are non-negative.
func validateCommission(ct enum.CommissionType, value decimal.Decimal) []apperror.FieldError {
	var fields []apperror.FieldError
	switch ct {
	case enum.CommissionPercentage:
		if value.IsNegative() || value.GreaterThan(hundred) {
			fields = append(fields, apperror.FieldError{Field: "commission_value", Message: "must be between 0 and 100 for percentage commission"})
		}
	case enum.CommissionFlat:
		if value.IsNegative() {
			fields = append(fields, apperror.FieldError{Field: "commission_value", Message: "must be greater than or equal to 0"})
		}
	default:
		fields = append(fields, apperror.FieldError{Field: "commission_type", Message: "must be one of [percentage flat]"})
	}
	return fields
}

// CreateUser creates an owner or staff account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	var fields []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if username == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "is required"})
	}
	if len(input.Password) < minPasswordLength {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if input.Role == "" {
		input.Role = enum.UserRoleStaff
	}
	if !input.Role.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "must be one of [owner staff]"})
	}
	if input.CommissionType == "" {
		input.CommissionType = enum.CommissionPercentage
	}
	fields = append(fields, validateCommission(input.CommissionType, input.CommissionValue)...)
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewDependencyError("hash password", err)
	}

	user := &entity.User{
		Name:            name,
		Username:        username,
		Password:        hashedPassword,
		Role:            input.Role,
		Status:          enum.UserStatusActive,
		CommissionType:  input.CommissionType,
		CommissionValue: input.CommissionValue,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("Username already taken")
		}
		return nil, apperror.NewDependencyError("create user", err)
	}

	return user, nil
}

// ListUsers returns a paginated list of accounts
func (s *UserService) ListUsers(ctx context.Context, params *repository.UserFilterParams) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewDependencyError("list users", err)
	}
	return pagination.NewPaginatedResult(users, params.Pagination, total), nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewDependencyError("load user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserInput carries the fields to change. Nil fields are left as they are.
type UpdateUserInput struct {
	UserID          uuid.UUID
	Name            *string
	Role            *enum.UserRole
	Status          *enum.UserStatus
	CommissionType  *enum.CommissionType
	CommissionValue *decimal.Decimal
}

// UpdateUser updates an account's profile, role, status or commission policy
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	var fields []apperror.FieldError
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			fields = append(fields, apperror.FieldError{Field: "name", Message: "must not be blank"})
		}
		user.Name = name
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			fields = append(fields, apperror.FieldError{Field: "role", Message: "must be one of [owner staff]"})
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			fields = append(fields, apperror.FieldError{Field: "status", Message: "must be one of [active inactive]"})
		}
		user.Status = *input.Status
	}
	if input.CommissionType != nil {
		user.CommissionType = *input.CommissionType
	}
	if input.CommissionValue != nil {
		user.CommissionValue = *input.CommissionValue
	}
	if input.CommissionType != nil || input.CommissionValue != nil {
		fields = append(fields, validateCommission(user.CommissionType, user.CommissionValue)...)
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewDependencyError("update user", err)
	}
	return user, nil
}

// ResetPassword sets a new password for an account
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return apperror.NewFieldError("password", "must be at least 8 characters")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperror.NewDependencyError("hash password", err)
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.NewDependencyError("update password", err)
	}
	return nil
}
