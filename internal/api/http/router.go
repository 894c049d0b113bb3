package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eyadahmed25/customer-management/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Customers *handlers.CustomersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	customers := app.Group("/api/customers")
	customers.Get("/", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Post("/", cfg.Customers.Create)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)
}
