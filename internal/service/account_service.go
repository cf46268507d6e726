package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/config"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// AccountService coordinates registration, login, profile completion and
// employee provisioning.
type AccountService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// ProfileInput carries the fields captured by the profile setup step.
type ProfileInput struct {
	Name    string
	Phone   string
	Address string
	City    string
	Pincode string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, accounts repository.AccountRepository) *AccountService {
	return &AccountService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a customer account. Admin and employee accounts are
// provisioned out of band; self-registration never yields either role.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password required", nil)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// ProvisionEmployee creates an employee account plus its workload record.
// New employees start active with zero counters and log in like any account.
func (s *AccountService) ProvisionEmployee(ctx context.Context, name, email, password string) (*domain.Account, *domain.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("name, email and password required", nil)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}
	employee := &domain.Employee{
		Name:   name,
		Email:  email,
		Status: domain.EmployeeStatusActive,
	}
	if err := s.accounts.CreateEmployeeAccount(ctx, account, employee); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return account, employee, nil
}

// Login authenticates any role and returns a role-bearing token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// CompleteProfile stores the profile fields and marks the account complete,
// unlocking the guard's requireProfile checks.
func (s *AccountService) CompleteProfile(ctx context.Context, accountID string, input ProfileInput) (*domain.Account, error) {
	missing := []string{}
	required := map[string]string{
		"name":    input.Name,
		"phone":   input.Phone,
		"address": input.Address,
		"city":    input.City,
		"pincode": input.Pincode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": accountID})
		}
		return nil, apperrors.MapError(err)
	}

	account.Name = strings.TrimSpace(input.Name)
	account.Phone = trimmedPtr(input.Phone)
	account.Address = trimmedPtr(input.Address)
	account.City = trimmedPtr(input.City)
	account.Pincode = trimmedPtr(input.Pincode)
	account.ProfileComplete = true

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

func trimmedPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	return &trimmed
}
