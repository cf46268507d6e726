package domain

import "time"

// EmployeeStatus marks whether an employee may receive new assignments.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// Employee is the workload record for a repair employee. The counters are
// stored columns maintained in the same transaction as each order status
// transition, so they stay consistent with the order set at every step.
type Employee struct {
	ID               string
	Name             string
	Email            string
	Status           EmployeeStatus
	TotalAssigned    int
	CompletedOrders  int
	InProgressOrders int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
