package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/persistence"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

const assignableCacheKey = "workload:assignable"

// WorkloadService is the employee assignment tracker. Counter values live in
// the employees table and are moved only by lifecycle transitions; this
// service reads them, ranks assignable employees, and keeps the redis-backed
// list cache coherent via the hooks the lifecycle engine calls.
type WorkloadService struct {
	employees repository.EmployeeRepository
	cache     *persistence.Redis
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewWorkloadService creates the service. A nil cache disables caching.
func NewWorkloadService(employees repository.EmployeeRepository, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *WorkloadService {
	return &WorkloadService{
		employees: employees,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// WorkloadOf returns the current workload snapshot for one employee.
func (s *WorkloadService) WorkloadOf(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// ListAssignable returns active employees ordered by ascending in-progress
// count, then name. Served from cache when fresh.
func (s *WorkloadService) ListAssignable(ctx context.Context) ([]domain.Employee, error) {
	if cached, ok := s.cachedAssignable(ctx); ok {
		return cached, nil
	}

	employees, err := s.employees.ListAssignable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.storeAssignable(ctx, employees)
	return employees, nil
}

// ListEmployees returns the employee directory for the admin view.
func (s *WorkloadService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// SetActivityStatus toggles whether an employee may receive assignments.
func (s *WorkloadService) SetActivityStatus(ctx context.Context, employeeID string, status domain.EmployeeStatus) (*domain.Employee, error) {
	if status != domain.EmployeeStatusActive && status != domain.EmployeeStatusInactive {
		return nil, apperrors.NewValidationError("invalid employee status", map[string]any{"status": status})
	}
	if err := s.employees.SetStatus(ctx, employeeID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)
	return s.WorkloadOf(ctx, employeeID)
}

// OrderAssigned is the tracker hook for an accept transition. The counters
// themselves moved inside the transition's transaction; here only the cached
// ranking goes stale.
func (s *WorkloadService) OrderAssigned(ctx context.Context, employeeID string) {
	s.logger.Debug("workload assigned", zap.String("employee_id", employeeID))
	s.invalidate(ctx)
}

// OrderCompleted is the tracker hook for a complete transition.
func (s *WorkloadService) OrderCompleted(ctx context.Context, employeeID string) {
	s.logger.Debug("workload completed", zap.String("employee_id", employeeID))
	s.invalidate(ctx)
}

func (s *WorkloadService) cachedAssignable(ctx context.Context) ([]domain.Employee, bool) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Client.Get(ctx, assignableCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var employees []domain.Employee
	if err := json.Unmarshal(raw, &employees); err != nil {
		s.invalidate(ctx)
		return nil, false
	}
	return employees, true
}

func (s *WorkloadService) storeAssignable(ctx context.Context, employees []domain.Employee) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(employees)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, assignableCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("assignable cache write failed", zap.Error(err))
	}
}

func (s *WorkloadService) invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, assignableCacheKey).Err(); err != nil {
		s.logger.Warn("assignable cache invalidation failed", zap.Error(err))
	}
}
