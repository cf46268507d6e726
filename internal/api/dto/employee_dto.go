package dto

import (
	"time"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// ProvisionEmployeeRequest creates an employee account.
type ProvisionEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateEmployeeStatusRequest toggles assignment eligibility.
type UpdateEmployeeStatusRequest struct {
	Status string `json:"status"`
}

// EmployeeResponse is the wire shape of an employee workload record.
type EmployeeResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Status           domain.EmployeeStatus `json:"status"`
	TotalAssigned    int                   `json:"total_assigned"`
	CompletedOrders  int                   `json:"completed_orders"`
	InProgressOrders int                   `json:"in_progress_orders"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}
