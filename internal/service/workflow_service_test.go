package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	"github.com/spec-kit/repair-shop-service/internal/service"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

func newWorkflow(store *fakeStore) *service.WorkflowService {
	lifecycle, workload := newTestServices(store)
	return service.NewWorkflowService(service.WorkflowDependencies{
		Lifecycle: lifecycle,
		Workload:  workload,
		Accounts:  newAccountService(store),
		OrderRepo: &fakeOrderRepo{store: store},
	})
}

func principalOf(account *domain.Account) *auth.Principal {
	return &auth.Principal{Account: account}
}

func TestWorkflowGuard(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	workflow := newWorkflow(store)

	t.Run("should reject anonymous callers before anything else", func(t *testing.T) {
		_, err := workflow.AdvanceWork(ctx, nil, "any-order", service.AdvanceStart)

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
	})

	t.Run("should report incomplete profile before role mismatch", func(t *testing.T) {
		caller := &domain.Account{ID: "cust-1", Role: domain.RoleCustomer, ProfileComplete: false}

		_, err := workflow.SubmitOrder(ctx, principalOf(caller), validInput())

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeProfileIncomplete))
	})

	t.Run("should deny customers the admin surface", func(t *testing.T) {
		caller := &domain.Account{ID: "cust-1", Role: domain.RoleCustomer, ProfileComplete: true}

		_, err := workflow.ListAllOrders(ctx, principalOf(caller), nil)

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	t.Run("should deny employees customer submission", func(t *testing.T) {
		_, err := workflow.SubmitOrder(ctx, principalOf(employeeAccount("emp-1")), validInput())

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})
}

func TestWorkflowTriage(t *testing.T) {
	ctx := context.Background()

	t.Run("should require an employee when accepting", func(t *testing.T) {
		store := newFakeStore()
		workflow := newWorkflow(store)

		_, err := workflow.TriageOrder(ctx, principalOf(adminAccount()), "order-1", service.TriageAccept, "")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("should reject unknown decisions", func(t *testing.T) {
		store := newFakeStore()
		workflow := newWorkflow(store)

		_, err := workflow.TriageOrder(ctx, principalOf(adminAccount()), "order-1", "escalate", "emp-1")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("should reject unknown advance actions", func(t *testing.T) {
		store := newFakeStore()
		workflow := newWorkflow(store)

		_, err := workflow.AdvanceWork(ctx, principalOf(employeeAccount("emp-1")), "order-1", "pause")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})
}

func TestWorkflowEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addEmployee("emp-1", "Asha", domain.EmployeeStatusActive)
	workflow := newWorkflow(store)

	customer := &domain.Account{ID: "cust-1", Role: domain.RoleCustomer, ProfileComplete: true}
	admin := adminAccount()
	employee := employeeAccount("emp-1")

	order, err := workflow.SubmitOrder(ctx, principalOf(customer), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	pending, err := workflow.ListAllOrders(ctx, principalOf(admin), []domain.OrderStatus{domain.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	assignable, err := workflow.AssignableEmployees(ctx, principalOf(admin))
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, "emp-1", assignable[0].ID)

	accepted, err := workflow.TriageOrder(ctx, principalOf(admin), order.ID, service.TriageAccept, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAccepted, accepted.Status)

	mine, err := workflow.ListOrdersForEmployee(ctx, principalOf(employee), nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	started, err := workflow.AdvanceWork(ctx, principalOf(employee), order.ID, service.AdvanceStart)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, started.Status)

	completed, err := workflow.AdvanceWork(ctx, principalOf(employee), order.ID, service.AdvanceComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)

	own, err := workflow.ListOrdersForCustomer(ctx, principalOf(customer), []domain.OrderStatus{domain.OrderStatusCompleted})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, order.ID, own[0].ID)

	directory, err := workflow.ListEmployees(ctx, principalOf(admin), repository.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, directory, 1)
	assert.Equal(t, 1, directory[0].TotalAssigned)
	assert.Equal(t, 1, directory[0].CompletedOrders)
	assert.Equal(t, 0, directory[0].InProgressOrders)
}

func TestWorkflowEmployeeActivity(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addEmployee("emp-1", "Asha", domain.EmployeeStatusActive)
	store.addEmployee("emp-2", "Ravi", domain.EmployeeStatusActive)
	workflow := newWorkflow(store)
	admin := principalOf(adminAccount())

	updated, err := workflow.SetEmployeeStatus(ctx, admin, "emp-2", domain.EmployeeStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusInactive, updated.Status)

	assignable, err := workflow.AssignableEmployees(ctx, admin)
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, "emp-1", assignable[0].ID)

	_, err = workflow.SetEmployeeStatus(ctx, admin, "emp-missing", domain.EmployeeStatusActive)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestWorkflowProvisionEmployee(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	workflow := newWorkflow(store)
	admin := principalOf(adminAccount())

	t.Run("should add the employee to the assignable pool", func(t *testing.T) {
		employee, err := workflow.ProvisionEmployee(ctx, admin, "Asha", "asha@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, domain.EmployeeStatusActive, employee.Status)

		assignable, err := workflow.AssignableEmployees(ctx, admin)
		require.NoError(t, err)
		require.Len(t, assignable, 1)
		assert.Equal(t, employee.ID, assignable[0].ID)
	})

	t.Run("should deny non-admin callers", func(t *testing.T) {
		_, err := workflow.ProvisionEmployee(ctx, principalOf(employeeAccount("emp-1")), "X", "x@example.com", "pw")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})
}
