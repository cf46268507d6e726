package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/events"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// LifecycleService owns the order state machine. It is the only writer of
// order status and of employee workload counters; every transition is a
// compare-and-swap on the current status, so concurrent attempts produce
// exactly one winner.
type LifecycleService struct {
	orders     repository.OrderRepository
	employees  repository.EmployeeRepository
	tracker    *WorkloadService
	dispatcher events.Dispatcher
}

// LifecycleDependencies bundles requirements for the lifecycle engine.
type LifecycleDependencies struct {
	OrderRepo    repository.OrderRepository
	EmployeeRepo repository.EmployeeRepository
	Tracker      *WorkloadService
	Dispatcher   events.Dispatcher
}

// OrderCreateInput describes an order submission payload.
type OrderCreateInput struct {
	DeviceType       string
	DeviceModel      string
	ModelNumber      string
	Problem          string
	ExpectedTimeline string
	Quotation        *float64
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		orders:     deps.OrderRepo,
		employees:  deps.EmployeeRepo,
		tracker:    deps.Tracker,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates the submission and stores a new pending order.
func (s *LifecycleService) Create(ctx context.Context, customerID string, input OrderCreateInput) (*domain.Order, error) {
	missing := []string{}
	required := map[string]string{
		"device_type":       input.DeviceType,
		"device_model":      input.DeviceModel,
		"model_number":      input.ModelNumber,
		"problem":           input.Problem,
		"expected_timeline": input.ExpectedTimeline,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if input.Quotation != nil && *input.Quotation < 0 {
		return nil, apperrors.NewValidationError("quotation must not be negative", nil)
	}

	order := &domain.Order{
		CustomerID:       customerID,
		DeviceType:       strings.TrimSpace(input.DeviceType),
		DeviceModel:      strings.TrimSpace(input.DeviceModel),
		ModelNumber:      strings.TrimSpace(input.ModelNumber),
		Problem:          strings.TrimSpace(input.Problem),
		ExpectedTimeline: strings.TrimSpace(input.ExpectedTimeline),
		Quotation:        input.Quotation,
		Status:           domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCreated,
		OrderID: order.ID,
		Actor:   events.Actor{AccountID: customerID, Role: domain.RoleCustomer},
		Payload: events.OrderCreatedPayload{
			CustomerID: order.CustomerID,
			DeviceType: order.DeviceType,
			Problem:    order.Problem,
			Quotation:  order.Quotation,
		},
	})
	return order, nil
}

// Accept moves a pending order to accepted and assigns it to an employee.
// The employee's total_assigned and in_progress counters move in the same
// transaction as the status swap.
func (s *LifecycleService) Accept(ctx context.Context, actor *domain.Account, orderID, employeeID string) (*domain.Order, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if employee.Status != domain.EmployeeStatusActive {
		return nil, apperrors.NewConflict("employee inactive", map[string]any{"employee_id": employeeID})
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(order, domain.OrderStatusAccepted); err != nil {
		return nil, err
	}

	updated, err := s.orders.Transition(ctx, repository.TransitionParams{
		OrderID:          orderID,
		From:             domain.OrderStatusPending,
		To:               domain.OrderStatusAccepted,
		AssignEmployeeID: &employee.ID,
		Counters: &repository.CounterDelta{
			EmployeeID:       employee.ID,
			TotalAssigned:    1,
			InProgressOrders: 1,
		},
	})
	if err != nil {
		return nil, err
	}

	s.tracker.OrderAssigned(ctx, employee.ID)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderAssigned,
		OrderID: updated.ID,
		Actor:   actorOf(actor),
		Payload: events.OrderAssignedPayload{EmployeeID: employee.ID},
	})
	s.publishStatusChange(ctx, actor, updated, domain.OrderStatusPending)
	return updated, nil
}

// Reject moves a pending order to rejected. The order was never assigned, so
// no counters change.
func (s *LifecycleService) Reject(ctx context.Context, actor *domain.Account, orderID string) (*domain.Order, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(order, domain.OrderStatusRejected); err != nil {
		return nil, err
	}

	updated, err := s.orders.Transition(ctx, repository.TransitionParams{
		OrderID: orderID,
		From:    domain.OrderStatusPending,
		To:      domain.OrderStatusRejected,
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, actor, updated, domain.OrderStatusPending)
	return updated, nil
}

// Start moves an accepted order to in_progress. Only the assigned employee
// may start work.
func (s *LifecycleService) Start(ctx context.Context, actor *domain.Account, orderID string) (*domain.Order, error) {
	order, err := s.authorizeAssignee(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(order, domain.OrderStatusInProgress); err != nil {
		return nil, err
	}

	updated, err := s.orders.Transition(ctx, repository.TransitionParams{
		OrderID: orderID,
		From:    domain.OrderStatusAccepted,
		To:      domain.OrderStatusInProgress,
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, actor, updated, domain.OrderStatusAccepted)
	return updated, nil
}

// Complete moves an in_progress order to completed and settles the assigned
// employee's counters, atomically with the status swap.
func (s *LifecycleService) Complete(ctx context.Context, actor *domain.Account, orderID string) (*domain.Order, error) {
	order, err := s.authorizeAssignee(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(order, domain.OrderStatusCompleted); err != nil {
		return nil, err
	}

	updated, err := s.orders.Transition(ctx, repository.TransitionParams{
		OrderID: orderID,
		From:    domain.OrderStatusInProgress,
		To:      domain.OrderStatusCompleted,
		Counters: &repository.CounterDelta{
			EmployeeID:       actor.ID,
			InProgressOrders: -1,
			CompletedOrders:  1,
		},
	})
	if err != nil {
		return nil, err
	}

	s.tracker.OrderCompleted(ctx, actor.ID)
	s.publishStatusChange(ctx, actor, updated, domain.OrderStatusInProgress)
	return updated, nil
}

func (s *LifecycleService) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// authorizeAssignee ensures the actor is the employee the order is assigned
// to. Authorization is decided before any status check so an unrelated
// employee never learns the order's state.
func (s *LifecycleService) authorizeAssignee(ctx context.Context, actor *domain.Account, orderID string) (*domain.Order, error) {
	if err := requireRole(actor, domain.RoleEmployee); err != nil {
		return nil, err
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AssignedEmployeeID == nil || *order.AssignedEmployeeID != actor.ID {
		return nil, apperrors.NewForbidden("order not assigned to caller")
	}
	return order, nil
}

func requireRole(actor *domain.Account, role domain.Role) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("actor required")
	}
	if actor.Role != role {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

func requireTransition(order *domain.Order, next domain.OrderStatus) error {
	if !domain.CanTransition(order.Status, next) {
		return apperrors.NewStateConflict("transition not allowed", map[string]any{
			"order_id":       order.ID,
			"current_status": order.Status,
			"target_status":  next,
		})
	}
	return nil
}

func (s *LifecycleService) publishStatusChange(ctx context.Context, actor *domain.Account, order *domain.Order, oldStatus domain.OrderStatus) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: order.ID,
		Actor:   actorOf(actor),
		Payload: events.OrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: order.Status,
		},
	})
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(account *domain.Account) events.Actor {
	if account == nil {
		return events.Actor{}
	}
	return events.Actor{AccountID: account.ID, Role: account.Role}
}
