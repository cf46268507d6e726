package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-shop-service/internal/api/dto"
	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/service"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// EmployeeHandler manages assigned-work endpoints.
type EmployeeHandler struct {
	workflow *service.WorkflowService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(workflow *service.WorkflowService) *EmployeeHandler {
	return &EmployeeHandler{workflow: workflow}
}

// ListOrders GET /employee/orders.
func (h *EmployeeHandler) ListOrders(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	orders, err := h.workflow.ListOrdersForEmployee(c.UserContext(), principal, parseStatusQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// AdvanceOrder POST /employee/orders/:id/advance.
func (h *EmployeeHandler) AdvanceOrder(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AdvanceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.workflow.AdvanceWork(c.UserContext(), principal, c.Params("id"),
		service.AdvanceAction(req.Action))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}
