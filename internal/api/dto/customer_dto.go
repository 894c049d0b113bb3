package dto

import (
	"time"

	"github.com/eyadahmed25/customer-management/internal/domain"
	"github.com/eyadahmed25/customer-management/internal/service"
)

// CreateCustomerRequest payload. The same shape serves create and update;
// id, is_active and created_at are server-assigned and deliberately absent.
type CreateCustomerRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Nationality string     `json:"nationality"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	BloodGroup  *string    `json:"blood_group"`
	Salary      *float64   `json:"salary"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Nationality string     `json:"nationality"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	BloodGroup  *string    `json:"blood_group,omitempty"`
	Salary      *float64   `json:"salary,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToCustomerInput maps the request onto the service input.
func ToCustomerInput(req CreateCustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nationality: req.Nationality,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		BloodGroup:  req.BloodGroup,
		Salary:      req.Salary,
	}
}

// NewCustomerResponse maps the domain record onto the response.
func NewCustomerResponse(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Nationality: c.Nationality,
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: c.DateOfBirth,
		BloodGroup:  c.BloodGroup,
		Salary:      c.Salary,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}
