package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eyadahmed25/customer-management/internal/api/dto"
	"github.com/eyadahmed25/customer-management/internal/service"
	apperrors "github.com/eyadahmed25/customer-management/pkg/util"
)

// CustomersHandler exposes customer CRUD endpoints.
type CustomersHandler struct {
	service service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// List GET /api/customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("onlyActive", true)
	customers, err := h.service.GetAll(c.UserContext(), onlyActive)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, dto.NewCustomerResponse(customer))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	customer, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.NewNotFound("customer", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// Create POST /api/customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return apperrors.NewValidationError("first_name, last_name, email required", nil)
	}

	customer, err := h.service.Create(c.UserContext(), dto.ToCustomerInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// Update PUT /api/customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return apperrors.NewValidationError("first_name, last_name, email required", nil)
	}

	id := c.Params("id")
	customer, err := h.service.Update(c.UserContext(), id, dto.ToCustomerInput(req))
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.NewNotFound("customer", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// Delete DELETE /api/customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	removed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewNotFound("customer", map[string]any{"id": id})
	}
	return c.SendStatus(http.StatusNoContent)
}
