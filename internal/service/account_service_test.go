package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repair-shop-service/internal/config"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/service"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

func newAccountService(store *fakeStore) *service.AccountService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4
	return service.NewAccountService(cfg, &fakeAccountRepo{store: store})
}

func TestProvisionEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the account and the workload record", func(t *testing.T) {
		store := newFakeStore()
		accounts := newAccountService(store)

		account, employee, err := accounts.ProvisionEmployee(ctx, "Asha", "asha@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployee, account.Role)
		assert.Equal(t, account.ID, employee.ID)
		assert.Equal(t, domain.EmployeeStatusActive, employee.Status)
		assert.Zero(t, employee.TotalAssigned)

		logged, _, _, err := accounts.Login(ctx, "asha@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, account.ID, logged.ID)
	})

	t.Run("should refuse an email already in use", func(t *testing.T) {
		store := newFakeStore()
		accounts := newAccountService(store)
		_, _, _, err := accounts.Register(ctx, "Priya", "taken@example.com", "s3cret")
		require.NoError(t, err)

		_, _, err = accounts.ProvisionEmployee(ctx, "Asha", "taken@example.com", "s3cret")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	})

	t.Run("should require every field", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())

		_, _, err := accounts.ProvisionEmployee(ctx, "", "asha@example.com", "s3cret")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("should leave nothing behind when the insert fails", func(t *testing.T) {
		store := newFakeStore()
		accounts := newAccountService(store)
		store.failEmployeeInsert = errors.New("employees insert failed")

		_, _, err := accounts.ProvisionEmployee(ctx, "Asha", "asha@example.com", "s3cret")
		require.Error(t, err)

		// No orphaned account: retrying the same email succeeds.
		store.failEmployeeInsert = nil
		account, employee, err := accounts.ProvisionEmployee(ctx, "Asha", "asha@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, account.ID, employee.ID)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a customer account and issue a token", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())

		account, token, exp, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, account.Role)
		assert.False(t, account.ProfileComplete)
		assert.NotEmpty(t, token)
		assert.False(t, exp.IsZero())

		claims, err := accounts.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, claims.SubjectID)
		assert.Equal(t, domain.RoleCustomer, claims.Role)
	})

	t.Run("should normalize the email", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())

		account, _, _, err := accounts.Register(ctx, "Priya", "  Priya@Example.COM ", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, "priya@example.com", account.Email)
	})

	t.Run("should refuse duplicate emails", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())
		_, _, _, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")
		require.NoError(t, err)

		_, _, _, err = accounts.Register(ctx, "Other", "priya@example.com", "different")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	})

	t.Run("should require email and password", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())

		_, _, _, err := accounts.Register(ctx, "Priya", "", "s3cret")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("should authenticate a registered account", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())
		registered, _, _, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")
		require.NoError(t, err)

		account, token, _, err := accounts.Login(ctx, "priya@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, account.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("should not distinguish bad password from unknown email", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())
		_, _, _, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")
		require.NoError(t, err)

		_, _, _, badPassword := accounts.Login(ctx, "priya@example.com", "wrong")
		_, _, _, unknownEmail := accounts.Login(ctx, "nobody@example.com", "s3cret")

		require.Error(t, badPassword)
		require.Error(t, unknownEmail)
		assert.True(t, apperrors.HasCode(badPassword, apperrors.CodeUnauthenticated))
		assert.True(t, apperrors.HasCode(unknownEmail, apperrors.CodeUnauthenticated))
		assert.Equal(t, badPassword.Error(), unknownEmail.Error())
	})
}

func TestCompleteProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("should mark the profile complete", func(t *testing.T) {
		store := newFakeStore()
		accounts := newAccountService(store)
		registered, _, _, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")
		require.NoError(t, err)

		account, err := accounts.CompleteProfile(ctx, registered.ID, service.ProfileInput{
			Name:    "Priya S",
			Phone:   "9876543210",
			Address: "12 MG Road",
			City:    "Pune",
			Pincode: "411001",
		})

		require.NoError(t, err)
		assert.True(t, account.ProfileComplete)
		require.NotNil(t, account.City)
		assert.Equal(t, "Pune", *account.City)
	})

	t.Run("should list every missing field", func(t *testing.T) {
		store := newFakeStore()
		accounts := newAccountService(store)
		registered, _, _, err := accounts.Register(ctx, "Priya", "priya@example.com", "s3cret")
		require.NoError(t, err)

		_, err = accounts.CompleteProfile(ctx, registered.ID, service.ProfileInput{Name: "Priya"})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
		domainErr := apperrors.ToDomainError(err)
		fields, ok := domainErr.Details["fields"].([]string)
		require.True(t, ok)
		assert.Len(t, fields, 4)
	})

	t.Run("should report not found for unknown accounts", func(t *testing.T) {
		accounts := newAccountService(newFakeStore())

		_, err := accounts.CompleteProfile(ctx, "acct-missing", service.ProfileInput{
			Name: "A", Phone: "B", Address: "C", City: "D", Pincode: "E",
		})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
