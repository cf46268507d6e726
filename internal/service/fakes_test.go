package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// fakeStore backs the in-memory repositories. Orders and employees share one
// mutex so a transition and its counter deltas apply atomically, matching the
// transactional coupling of the Postgres implementation.
type fakeStore struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	employees map[string]*domain.Employee
	accounts  map[string]*domain.Account

	// failEmployeeInsert makes the next joint account+employee insert fail
	// after the account would have been written, to exercise atomicity.
	failEmployeeInsert error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:    make(map[string]*domain.Order),
		employees: make(map[string]*domain.Employee),
		accounts:  make(map[string]*domain.Account),
	}
}

func (s *fakeStore) addEmployee(id, name string, status domain.EmployeeStatus) *domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee := &domain.Employee{
		ID:        id,
		Name:      name,
		Email:     name + "@example.com",
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.employees[id] = employee
	return employee
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order.ID = uuid.NewString()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	clone := *order
	r.store.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) ListWithFilter(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Order
	for _, order := range r.store.orders {
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.AssignedEmployeeID != nil {
			if order.AssignedEmployeeID == nil || *order.AssignedEmployeeID != *filter.AssignedEmployeeID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, order.Status) {
			continue
		}
		result = append(result, *order)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *fakeOrderRepo) Transition(_ context.Context, params repository.TransitionParams) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[params.OrderID]
	if !ok {
		return nil, apperrors.NewNotFound("order", map[string]any{"order_id": params.OrderID})
	}
	if order.Status != params.From {
		return nil, apperrors.NewStateConflict("order status already advanced", map[string]any{
			"order_id":        params.OrderID,
			"expected_status": params.From,
			"current_status":  order.Status,
		})
	}

	order.Status = params.To
	if params.AssignEmployeeID != nil {
		id := *params.AssignEmployeeID
		order.AssignedEmployeeID = &id
	}
	order.UpdatedAt = time.Now()

	if params.Counters != nil {
		employee, ok := r.store.employees[params.Counters.EmployeeID]
		if !ok {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": params.Counters.EmployeeID})
		}
		employee.TotalAssigned += params.Counters.TotalAssigned
		employee.InProgressOrders += params.Counters.InProgressOrders
		employee.CompletedOrders += params.Counters.CompletedOrders
		employee.UpdatedAt = time.Now()
	}

	clone := *order
	return &clone, nil
}

type fakeEmployeeRepo struct {
	store *fakeStore
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	employee, ok := r.store.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *employee
	return &clone, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Employee
	for _, employee := range r.store.employees {
		if filter.Status != nil && employee.Status != *filter.Status {
			continue
		}
		result = append(result, *employee)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *fakeEmployeeRepo) ListAssignable(_ context.Context) ([]domain.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Employee
	for _, employee := range r.store.employees {
		if employee.Status != domain.EmployeeStatusActive {
			continue
		}
		result = append(result, *employee)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].InProgressOrders != result[j].InProgressOrders {
			return result[i].InProgressOrders < result[j].InProgressOrders
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *fakeEmployeeRepo) SetStatus(_ context.Context, id string, status domain.EmployeeStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	employee, ok := r.store.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	employee.Status = status
	employee.UpdatedAt = time.Now()
	return nil
}

type fakeAccountRepo struct {
	store *fakeStore
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account.ID = uuid.NewString()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	clone := *account
	r.store.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) CreateEmployeeAccount(_ context.Context, account *domain.Account, employee *domain.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failEmployeeInsert; err != nil {
		return err
	}
	account.ID = uuid.NewString()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	employee.ID = account.ID
	employee.CreatedAt = now
	employee.UpdatedAt = now
	accountClone := *account
	employeeClone := *employee
	r.store.accounts[account.ID] = &accountClone
	r.store.employees[employee.ID] = &employeeClone
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, account := range r.store.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) UpdateProfile(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	clone := *account
	clone.UpdatedAt = time.Now()
	*stored = clone
	return nil
}

func containsStatus(statuses []domain.OrderStatus, status domain.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
