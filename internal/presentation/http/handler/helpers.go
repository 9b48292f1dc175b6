package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// currentUser writes a 401 and returns false when no user is authenticated
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// pathID parses the :id route parameter, writing a 400 on failure
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.ParseParams(c.Query("page"), c.Query("per_page"))
}

// queryDay parses a YYYY-MM-DD query value as midnight in loc
func queryDay(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return nil, apperror.NewFieldError(key, "must be a date formatted YYYY-MM-DD")
	}
	return &t, nil
}

// queryRange reads from/to day filters as a half-open range. The to day is
// included in full.
func queryRange(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, error) {
	from, err := queryDay(c, "from", loc)
	if err != nil {
		return nil, nil, err
	}
	to, err := queryDay(c, "to", loc)
	if err != nil {
		return nil, nil, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, apperror.NewFieldError("to", "must not be before from")
	}
	return from, to, nil
}

// queryUUID parses an optional UUID query value
func queryUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperror.NewFieldError(key, "must be a valid UUID")
	}
	return &id, nil
}

// monthYear reads month and year, defaulting to the current month in loc
func monthYear(c *gin.Context, loc *time.Location) (int, int, error) {
	now := time.Now().In(loc)
	month, year := int(now.Month()), now.Year()

	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperror.NewFieldError("month", "must be a number between 1 and 12")
		}
		month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperror.NewFieldError("year", "must be a number")
		}
		year = y
	}
	return month, year, nil
}

// bindJSON binds the body and writes the translated error on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.FromBindingError(err))
		return false
	}
	return true
}
