package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-shop-service/internal/domain"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// OrderFilter captures listing parameters.
type OrderFilter struct {
	CustomerID         *string
	AssignedEmployeeID *string
	Statuses           []domain.OrderStatus
	Limit              int
	Offset             int
}

// CounterDelta describes the employee counter adjustments that must land in
// the same transaction as a status transition.
type CounterDelta struct {
	EmployeeID       string
	TotalAssigned    int
	InProgressOrders int
	CompletedOrders  int
}

// TransitionParams drives a compare-and-swap status change. The update only
// applies while the order still holds From; a concurrent transition makes the
// swap miss and the caller observes a state conflict.
type TransitionParams struct {
	OrderID          string
	From             domain.OrderStatus
	To               domain.OrderStatus
	AssignEmployeeID *string
	Counters         *CounterDelta
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Transition(ctx context.Context, params TransitionParams) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, customer_id, device_type, device_model, model_number, problem,
               expected_timeline, quotation, status, assigned_employee_id, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (customer_id, device_type, device_model, model_number, problem,
                            expected_timeline, quotation, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.CustomerID,
		order.DeviceType,
		order.DeviceModel,
		order.ModelNumber,
		order.Problem,
		order.ExpectedTimeline,
		order.Quotation,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id=$1`, orderColumns)

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(orderFields(&order)...); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	base := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssignedEmployeeID != nil {
		args = append(args, *filter.AssignedEmployeeID)
		clauses = append(clauses, fmt.Sprintf("assigned_employee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// Transition applies the compare-and-swap status change and, when counters
// are given, the employee workload deltas, atomically in one transaction.
func (r *orderRepository) Transition(ctx context.Context, params TransitionParams) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var order domain.Order
	var query string
	args := []any{params.To, params.OrderID, params.From}
	if params.AssignEmployeeID != nil {
		query = fmt.Sprintf(`
            UPDATE orders SET status=$1, assigned_employee_id=$4, updated_at=NOW()
            WHERE id=$2 AND status=$3
            RETURNING %s`, orderColumns)
		args = append(args, *params.AssignEmployeeID)
	} else {
		query = fmt.Sprintf(`
            UPDATE orders SET status=$1, updated_at=NOW()
            WHERE id=$2 AND status=$3
            RETURNING %s`, orderColumns)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(orderFields(&order)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.swapMissed(ctx, params)
		}
		return nil, apperrors.MapError(err)
	}

	if params.Counters != nil {
		const counterQuery = `
            UPDATE employees
            SET total_assigned = total_assigned + $1,
                in_progress_orders = in_progress_orders + $2,
                completed_orders = completed_orders + $3,
                updated_at = NOW()
            WHERE id=$4`
		cmd, err := tx.Exec(ctx, counterQuery,
			params.Counters.TotalAssigned,
			params.Counters.InProgressOrders,
			params.Counters.CompletedOrders,
			params.Counters.EmployeeID,
		)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if cmd.RowsAffected() == 0 {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": params.Counters.EmployeeID})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &order, nil
}

// swapMissed distinguishes a vanished order from one whose status moved on
// before the swap landed.
func (r *orderRepository) swapMissed(ctx context.Context, params TransitionParams) error {
	current, err := r.GetByID(ctx, params.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("order", map[string]any{"order_id": params.OrderID})
		}
		return apperrors.MapError(err)
	}
	if current.Status != params.From {
		return apperrors.NewStateConflict("order status already advanced", map[string]any{
			"order_id":        params.OrderID,
			"expected_status": params.From,
			"current_status":  current.Status,
		})
	}
	return apperrors.NewConflict("concurrent update lost, reload and retry", map[string]any{
		"order_id": params.OrderID,
	})
}

func orderFields(order *domain.Order) []any {
	return []any{
		&order.ID,
		&order.CustomerID,
		&order.DeviceType,
		&order.DeviceModel,
		&order.ModelNumber,
		&order.Problem,
		&order.ExpectedTimeline,
		&order.Quotation,
		&order.Status,
		&order.AssignedEmployeeID,
		&order.CreatedAt,
		&order.UpdatedAt,
	}
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(orderFields(&order)...); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
