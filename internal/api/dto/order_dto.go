package dto

import (
	"time"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// CreateOrderRequest is the customer submission payload.
type CreateOrderRequest struct {
	DeviceType       string   `json:"device_type"`
	DeviceModel      string   `json:"device_model"`
	ModelNumber      string   `json:"model_number"`
	Problem          string   `json:"problem"`
	ExpectedTimeline string   `json:"expected_timeline"`
	Quotation        *float64 `json:"quotation,omitempty"`
}

// TriageOrderRequest carries the admin decision for a pending order.
type TriageOrderRequest struct {
	Decision   string `json:"decision"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// AdvanceOrderRequest carries the employee's progress action.
type AdvanceOrderRequest struct {
	Action string `json:"action"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customer_id"`
	DeviceType         string             `json:"device_type"`
	DeviceModel        string             `json:"device_model"`
	ModelNumber        string             `json:"model_number"`
	Problem            string             `json:"problem"`
	ExpectedTimeline   string             `json:"expected_timeline"`
	Quotation          *float64           `json:"quotation,omitempty"`
	Status             domain.OrderStatus `json:"status"`
	AssignedEmployeeID *string            `json:"assigned_employee_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
