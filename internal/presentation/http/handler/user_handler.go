package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// UserHandler handles staff account HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing users with pagination
// @Summary List Users
// @Tags users
// @Produce json
// @Param search query string false "Name or username"
// @Param role query string false "owner or staff"
// @Param status query string false "active or inactive"
// @Success 200 {object} response.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	params := &repository.UserFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}
	if v := c.Query("role"); v != "" {
		role := enum.UserRole(v)
		if !role.IsValid() {
			response.Error(c, apperror.NewFieldError("role", "must be one of [owner staff]"))
			return
		}
		params.Role = &role
	}
	if v := c.Query("status"); v != "" {
		status := enum.UserStatus(v)
		if !status.IsValid() {
			response.Error(c, apperror.NewFieldError("status", "must be one of [active inactive]"))
			return
		}
		params.Status = &status
	}

	result, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Users retrieved successfully", result)
}

// Create handles creating a staff account
// @Summary Create User
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.CreateUserRequest true "Account"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		Name:            req.Name,
		Username:        req.Username,
		Password:        req.Password,
		Role:            enum.UserRole(req.Role),
		CommissionType:  enum.CommissionType(req.CommissionType),
		CommissionValue: req.CommissionValue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", user)
}

// Get handles getting a single user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", user)
}

// Update handles changing an account's profile, status or commission policy
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.UpdateUserInput{
		UserID:          id,
		Name:            req.Name,
		CommissionValue: req.CommissionValue,
	}
	if req.Role != nil {
		role := enum.UserRole(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := enum.UserStatus(*req.Status)
		input.Status = &status
	}
	if req.CommissionType != nil {
		ct := enum.CommissionType(*req.CommissionType)
		input.CommissionType = &ct
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User updated successfully", user)
}

// ResetPassword sets a new password on an account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	var req request.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successfully", nil)
}
