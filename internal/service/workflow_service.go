package service

import (
	"context"

	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// TriageDecision is the admin's verdict on a pending order.
type TriageDecision string

const (
	TriageAccept TriageDecision = "accept"
	TriageReject TriageDecision = "reject"
)

// AdvanceAction is an assigned employee's progress step.
type AdvanceAction string

const (
	AdvanceStart    AdvanceAction = "start"
	AdvanceComplete AdvanceAction = "complete"
)

// WorkflowService coordinates the role-specific use cases: it runs the guard
// first, then delegates to the lifecycle engine or workload tracker, and
// propagates the first failure with no side effects committed.
type WorkflowService struct {
	lifecycle *LifecycleService
	workload  *WorkloadService
	accounts  *AccountService
	orders    repository.OrderRepository
}

// WorkflowDependencies bundles requirements for the coordinator.
type WorkflowDependencies struct {
	Lifecycle *LifecycleService
	Workload  *WorkloadService
	Accounts  *AccountService
	OrderRepo repository.OrderRepository
}

// NewWorkflowService constructs the coordinator.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		lifecycle: deps.Lifecycle,
		workload:  deps.Workload,
		accounts:  deps.Accounts,
		orders:    deps.OrderRepo,
	}
}

// SubmitOrder creates a repair request for a customer with a complete profile.
func (s *WorkflowService) SubmitOrder(ctx context.Context, principal *auth.Principal, input OrderCreateInput) (*domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleCustomer, true); err != nil {
		return nil, err
	}
	return s.lifecycle.Create(ctx, principal.Account.ID, input)
}

// ListOrdersForCustomer returns the caller's own orders.
func (s *WorkflowService) ListOrdersForCustomer(ctx context.Context, principal *auth.Principal, statuses []domain.OrderStatus) ([]domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleCustomer, true); err != nil {
		return nil, err
	}
	customerID := principal.Account.ID
	orders, err := s.orders.ListWithFilter(ctx, repository.OrderFilter{
		CustomerID: &customerID,
		Statuses:   statuses,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// ListAllOrders returns every order, optionally filtered by status, for the
// admin dashboard buckets.
func (s *WorkflowService) ListAllOrders(ctx context.Context, principal *auth.Principal, statuses []domain.OrderStatus) ([]domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListWithFilter(ctx, repository.OrderFilter{Statuses: statuses})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// TriageOrder applies the admin's accept or reject verdict to a pending
// order. Accepting requires the target employee.
func (s *WorkflowService) TriageOrder(ctx context.Context, principal *auth.Principal, orderID string, decision TriageDecision, employeeID string) (*domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	switch decision {
	case TriageAccept:
		if employeeID == "" {
			return nil, apperrors.NewValidationError("employee_id required to accept", nil)
		}
		return s.lifecycle.Accept(ctx, principal.Account, orderID, employeeID)
	case TriageReject:
		return s.lifecycle.Reject(ctx, principal.Account, orderID)
	default:
		return nil, apperrors.NewValidationError("unknown triage decision", map[string]any{"decision": decision})
	}
}

// AssignableEmployees lists active employees ranked by current load.
func (s *WorkflowService) AssignableEmployees(ctx context.Context, principal *auth.Principal) ([]domain.Employee, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	return s.workload.ListAssignable(ctx)
}

// ListEmployees returns the employee directory with workload counters.
func (s *WorkflowService) ListEmployees(ctx context.Context, principal *auth.Principal, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	return s.workload.ListEmployees(ctx, filter)
}

// ProvisionEmployee creates an employee account on behalf of the admin.
func (s *WorkflowService) ProvisionEmployee(ctx context.Context, principal *auth.Principal, name, email, password string) (*domain.Employee, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	_, employee, err := s.accounts.ProvisionEmployee(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// SetEmployeeStatus toggles an employee's eligibility for new assignments.
func (s *WorkflowService) SetEmployeeStatus(ctx context.Context, principal *auth.Principal, employeeID string, status domain.EmployeeStatus) (*domain.Employee, error) {
	if err := auth.CheckAccess(principal, domain.RoleAdmin, false); err != nil {
		return nil, err
	}
	return s.workload.SetActivityStatus(ctx, employeeID, status)
}

// ListOrdersForEmployee returns orders assigned to the calling employee.
func (s *WorkflowService) ListOrdersForEmployee(ctx context.Context, principal *auth.Principal, statuses []domain.OrderStatus) ([]domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleEmployee, true); err != nil {
		return nil, err
	}
	employeeID := principal.Account.ID
	orders, err := s.orders.ListWithFilter(ctx, repository.OrderFilter{
		AssignedEmployeeID: &employeeID,
		Statuses:           statuses,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// AdvanceWork moves an assigned order forward one step.
func (s *WorkflowService) AdvanceWork(ctx context.Context, principal *auth.Principal, orderID string, action AdvanceAction) (*domain.Order, error) {
	if err := auth.CheckAccess(principal, domain.RoleEmployee, true); err != nil {
		return nil, err
	}
	switch action {
	case AdvanceStart:
		return s.lifecycle.Start(ctx, principal.Account, orderID)
	case AdvanceComplete:
		return s.lifecycle.Complete(ctx, principal.Account, orderID)
	default:
		return nil, apperrors.NewValidationError("unknown advance action", map[string]any{"action": action})
	}
}
