package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-shop-service/internal/api/dto"
	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/service"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// OrdersHandler manages customer order endpoints.
type OrdersHandler struct {
	workflow *service.WorkflowService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(workflow *service.WorkflowService) *OrdersHandler {
	return &OrdersHandler{workflow: workflow}
}

// SubmitOrder POST /orders.
func (h *OrdersHandler) SubmitOrder(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.workflow.SubmitOrder(c.UserContext(), principal, service.OrderCreateInput{
		DeviceType:       req.DeviceType,
		DeviceModel:      req.DeviceModel,
		ModelNumber:      req.ModelNumber,
		Problem:          req.Problem,
		ExpectedTimeline: req.ExpectedTimeline,
		Quotation:        req.Quotation,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// ListOrders GET /orders.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	orders, err := h.workflow.ListOrdersForCustomer(c.UserContext(), principal, parseStatusQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

func parseStatusQuery(c *fiber.Ctx) []domain.OrderStatus {
	statusStr := c.Query("status")
	if statusStr == "" {
		return nil
	}
	var statuses []domain.OrderStatus
	for _, part := range strings.Split(statusStr, ",") {
		statuses = append(statuses, domain.OrderStatus(strings.TrimSpace(part)))
	}
	return statuses
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		DeviceType:         order.DeviceType,
		DeviceModel:        order.DeviceModel,
		ModelNumber:        order.ModelNumber,
		Problem:            order.Problem,
		ExpectedTimeline:   order.ExpectedTimeline,
		Quotation:          order.Quotation,
		Status:             order.Status,
		AssignedEmployeeID: order.AssignedEmployeeID,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

func orderResponses(orders []domain.Order) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return items
}
