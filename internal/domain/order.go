package domain

import "time"

// OrderStatus enumerates lifecycle states for repair orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusRejected   OrderStatus = "rejected"
)

// Order is the aggregate for a single device repair request.
type Order struct {
	ID                 string
	CustomerID         string
	DeviceType         string
	DeviceModel        string
	ModelNumber        string
	Problem            string
	ExpectedTimeline   string
	Quotation          *float64
	Status             OrderStatus
	AssignedEmployeeID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusAccepted, OrderStatusRejected},
	OrderStatusAccepted:   {OrderStatusInProgress},
	OrderStatusInProgress: {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusRejected:   {},
}

// CanTransition reports whether the state machine permits moving from
// current to next.
func CanTransition(current, next OrderStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave the status.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && (s == OrderStatusCompleted || s == OrderStatusRejected)
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusInProgress, OrderStatusCompleted, OrderStatusRejected:
		return true
	}
	return false
}

// RequiresAssignee reports whether the status implies an assigned employee.
// Orders carry an assignee iff accepted, in progress, or completed.
func (s OrderStatus) RequiresAssignee() bool {
	switch s {
	case OrderStatusAccepted, OrderStatusInProgress, OrderStatusCompleted:
		return true
	}
	return false
}
