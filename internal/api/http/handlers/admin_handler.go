package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-shop-service/internal/api/dto"
	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/domain"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	"github.com/spec-kit/repair-shop-service/internal/service"
	apperrors "github.com/spec-kit/repair-shop-service/pkg/util/errorutil"
)

// AdminHandler manages triage and employee oversight endpoints.
type AdminHandler struct {
	workflow *service.WorkflowService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(workflow *service.WorkflowService) *AdminHandler {
	return &AdminHandler{workflow: workflow}
}

// ListOrders GET /admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	orders, err := h.workflow.ListAllOrders(c.UserContext(), principal, parseStatusQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// TriageOrder POST /admin/orders/:id/triage.
func (h *AdminHandler) TriageOrder(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.TriageOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.workflow.TriageOrder(c.UserContext(), principal, c.Params("id"),
		service.TriageDecision(req.Decision), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// ListEmployees GET /admin/employees.
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	filter := repository.EmployeeFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.EmployeeStatus(statusStr)
		filter.Status = &status
	}
	employees, err := h.workflow.ListEmployees(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponses(employees)})
}

// ListAssignable GET /admin/employees/assignable.
func (h *AdminHandler) ListAssignable(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	employees, err := h.workflow.AssignableEmployees(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponses(employees)})
}

// ProvisionEmployee POST /admin/employees.
func (h *AdminHandler) ProvisionEmployee(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ProvisionEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.workflow.ProvisionEmployee(c.UserContext(), principal, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeResponse(employee)})
}

// UpdateEmployeeStatus PATCH /admin/employees/:id/status.
func (h *AdminHandler) UpdateEmployeeStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateEmployeeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.workflow.SetEmployeeStatus(c.UserContext(), principal, c.Params("id"),
		domain.EmployeeStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee)})
}

func employeeResponse(employee *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:               employee.ID,
		Name:             employee.Name,
		Email:            employee.Email,
		Status:           employee.Status,
		TotalAssigned:    employee.TotalAssigned,
		CompletedOrders:  employee.CompletedOrders,
		InProgressOrders: employee.InProgressOrders,
		CreatedAt:        employee.CreatedAt,
		UpdatedAt:        employee.UpdatedAt,
	}
}

func employeeResponses(employees []domain.Employee) []dto.EmployeeResponse {
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, employeeResponse(&employees[i]))
	}
	return items
}
