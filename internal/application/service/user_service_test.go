package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommission(t *testing.T) {
	tests := []struct {
		name  string
		ct    enum.CommissionType
		value string
		field string
	}{
		{"percentage zero", enum.CommissionPercentage, "0", ""},
		{"percentage hundred", enum.CommissionPercentage, "100", ""},
		{"percentage fraction", enum.CommissionPercentage, "37.5", ""},
		{"percentage over", enum.CommissionPercentage, "100.01", "commission_value"},
		{"percentage negative", enum.CommissionPercentage, "-1", "commission_value"},
		{"flat", enum.CommissionFlat, "15000", ""},
		{"flat negative", enum.CommissionFlat, "-5", "commission_value"},
		{"unknown type", "hourly", "10", "commission_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validateCommission(tt.ct, decimal.RequireFromString(tt.value))
			if tt.field == "" {
				assert.Empty(t, fields)
				return
			}
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.userSvc.CreateUser(context.Background(), &CreateUserInput{
		Name:            " Rudi ",
		Username:        "Rudi",
		Password:        "secret123",
		CommissionValue: decimal.NewFromInt(35),
	})
	require.NoError(t, err)

	assert.Equal(t, "Rudi", user.Name)
	assert.Equal(t, "rudi", user.Username)
	assert.Equal(t, enum.UserRoleStaff, user.Role)
	assert.Equal(t, enum.UserStatusActive, user.Status)
	assert.Equal(t, enum.CommissionPercentage, user.CommissionType)
	assert.True(t, utils.CheckPassword(user.Password, "secret123"))
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.userSvc.CreateUser(context.Background(), &CreateUserInput{
		Password:        "short",
		Role:            "admin",
		CommissionType:  enum.CommissionPercentage,
		CommissionValue: decimal.NewFromInt(150),
	})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"name", "username", "password", "role", "commission_value"}, fieldNames(appErr))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	input := func() *CreateUserInput {
		return &CreateUserInput{Name: "Rudi", Username: "rudi", Password: "secret123"}
	}

	_, err := f.userSvc.CreateUser(context.Background(), input())
	require.NoError(t, err)

	dup := input()
	dup.Username = "RUDI"
	_, err = f.userSvc.CreateUser(context.Background(), dup)
	requireAppError(t, err, http.StatusConflict)
}

func TestUpdateUserCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	flat := enum.CommissionFlat
	value := decimal.NewFromInt(20000)
	user, err := f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: f.barber.ID, CommissionType: &flat, CommissionValue: &value})
	require.NoError(t, err)
	assert.Equal(t, enum.CommissionFlat, user.CommissionType)
	assert.True(t, value.Equal(user.CommissionValue))

	// switching back to percentage with the flat amount left in place is invalid
	pct := enum.CommissionPercentage
	_, err = f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: f.barber.ID, CommissionType: &pct})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"commission_value"}, fieldNames(appErr))

	stored, err := f.userSvc.GetUser(ctx, f.barber.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CommissionFlat, stored.CommissionType)

	_, err = f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: uuid.New()})
	requireAppError(t, err, http.StatusNotFound)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.userSvc.ResetPassword(ctx, f.barber.ID, "short")
	requireAppError(t, err, http.StatusUnprocessableEntity)

	require.NoError(t, f.userSvc.ResetPassword(ctx, f.barber.ID, "new-secret"))
	stored, err := f.userSvc.GetUser(ctx, f.barber.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(stored.Password, "new-secret"))
}

func newAuthFixture(t *testing.T) (*fixture, *AuthService) {
	t.Helper()
	f := newFixture(t)
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	return f, NewAuthService(f.users, jwtManager)
}

func TestLogin(t *testing.T) {
	f, auth := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.userSvc.CreateUser(ctx, &CreateUserInput{Name: "Rudi", Username: "rudi", Password: "secret123"})
	require.NoError(t, err)

	out, err := auth.Login(ctx, &LoginInput{Username: " Rudi ", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.EqualValues(t, 900, out.ExpiresIn)
	assert.Equal(t, "rudi", out.User.Username)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)

	_, err = auth.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestLoginFailures(t *testing.T) {
	f, auth := newAuthFixture(t)
	ctx := context.Background()
	user, err := f.userSvc.CreateUser(ctx, &CreateUserInput{Name: "Rudi", Username: "rudi", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Username: "rudi", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	inactive := enum.UserStatusInactive
	_, err = f.userSvc.UpdateUser(ctx, &UpdateUserInput{UserID: user.ID, Status: &inactive})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Username: "rudi", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	f, auth := newAuthFixture(t)
	ctx := context.Background()
	user, err := f.userSvc.CreateUser(ctx, &CreateUserInput{Name: "Rudi", Username: "rudi", Password: "secret123"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "nope", NewPassword: "another123"})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"current_password"}, fieldNames(appErr))

	require.NoError(t, auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "secret123", NewPassword: "another123"}))

	_, err = auth.Login(ctx, &LoginInput{Username: "rudi", Password: "another123"})
	assert.NoError(t, err)
}
