package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// EmployeeFilter defines query params for employee listing.
type EmployeeFilter struct {
	Status *domain.EmployeeStatus
	Limit  int
	Offset int
}

// EmployeeRepository handles persistence for employee workload records. Rows
// are inserted through AccountRepository.CreateEmployeeAccount and counter
// columns are written only through OrderRepository.Transition; this
// repository reads them and manages activity status.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	ListAssignable(ctx context.Context) ([]domain.Employee, error)
	SetStatus(ctx context.Context, id string, status domain.EmployeeStatus) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, status, total_assigned, completed_orders, in_progress_orders,
               created_at, updated_at
        FROM employees WHERE id=$1`

	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.Status,
		&employee.TotalAssigned,
		&employee.CompletedOrders,
		&employee.InProgressOrders,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	base := `SELECT id, name, email, status, total_assigned, completed_orders, in_progress_orders,
                    created_at, updated_at
             FROM employees`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

// ListAssignable returns active employees ordered by current load so the
// admin can pick the least busy one first; name breaks ties for determinism.
func (r *employeeRepository) ListAssignable(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, name, email, status, total_assigned, completed_orders, in_progress_orders,
               created_at, updated_at
        FROM employees
        WHERE status='active'
        ORDER BY in_progress_orders ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (r *employeeRepository) SetStatus(ctx context.Context, id string, status domain.EmployeeStatus) error {
	const query = `UPDATE employees SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Email,
			&employee.Status,
			&employee.TotalAssigned,
			&employee.CompletedOrders,
			&employee.InProgressOrders,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
