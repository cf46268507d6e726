package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-shop-service/internal/api/http/handlers"
	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Orders         *handlers.OrdersHandler
	Admin          *handlers.AdminHandler
	Employee       *handlers.EmployeeHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The role middlewares run the guard per
// group; the workflow services run it again so the rules hold regardless of
// transport.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	profile := app.Group("/profile", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	profile.Get("", cfg.Accounts.Me)
	profile.Put("", cfg.Accounts.CompleteProfile)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCustomer, true))
	orders.Post("", cfg.Orders.SubmitOrder)
	orders.Get("", cfg.Orders.ListOrders)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, false))
	admin.Get("/orders", cfg.Admin.ListOrders)
	admin.Post("/orders/:id/triage", cfg.Admin.TriageOrder)
	admin.Get("/employees", cfg.Admin.ListEmployees)
	admin.Post("/employees", cfg.Admin.ProvisionEmployee)
	admin.Get("/employees/assignable", cfg.Admin.ListAssignable)
	admin.Patch("/employees/:id/status", cfg.Admin.UpdateEmployeeStatus)

	employee := app.Group("/employee", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee, true))
	employee.Get("/orders", cfg.Employee.ListOrders)
	employee.Post("/orders/:id/advance", cfg.Employee.AdvanceOrder)
}
