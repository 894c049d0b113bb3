package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eyadahmed25/customer-management/internal/clients"
	"github.com/eyadahmed25/customer-management/internal/domain"
	"github.com/eyadahmed25/customer-management/internal/events"
	"github.com/eyadahmed25/customer-management/internal/repository"
	apperrors "github.com/eyadahmed25/customer-management/pkg/util"
)

// CustomerService coordinates customer workflows: validation, persistence
// and the welcome notification.
type CustomerService interface {
	GetAll(ctx context.Context, onlyActive bool) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CustomerInput describes customer creation/update payload.
type CustomerInput struct {
	FirstName   string
	LastName    string
	Nationality string
	Email       string
	Phone       *string
	DateOfBirth *time.Time
	BloodGroup  *string
	Salary      *float64
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo   repository.CustomerRepository
	PhoneValidator clients.PhoneValidator
	Dispatcher     events.Dispatcher
}

type customerService struct {
	customers  repository.CustomerRepository
	phones     clients.PhoneValidator
	dispatcher events.Dispatcher
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) CustomerService {
	return &customerService{
		customers:  deps.CustomerRepo,
		phones:     deps.PhoneValidator,
		dispatcher: deps.Dispatcher,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// GetAll returns customers, optionally filtered to active ones.
func (s *customerService) GetAll(ctx context.Context, onlyActive bool) ([]domain.Customer, error) {
	return s.customers.GetAll(ctx, onlyActive)
}

// GetByID returns the customer or (nil, nil) when absent.
func (s *customerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// Create validates the input, persists a new customer and schedules the
// welcome email. Each validation step is a hard precondition; nothing is
// persisted when one fails.
func (s *customerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if err := s.validate(ctx, input, ""); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:          uuid.NewString(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Nationality: input.Nationality,
		Email:       input.Email,
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
		BloodGroup:  input.BloodGroup,
		Salary:      input.Salary,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCustomerCreated,
		CustomerID: created.ID,
		Payload: events.CustomerCreatedPayload{
			Email:     created.Email,
			FirstName: created.FirstName,
		},
	})
	return created, nil
}

// Update re-validates the input and overlays it onto the existing record.
// Returns (nil, nil) when the id does not exist. No notification is sent.
func (s *customerService) Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if err := s.validate(ctx, input, id); err != nil {
		return nil, err
	}

	// ID, IsActive and CreatedAt are preserved from the existing record.
	updated := *existing
	updated.FirstName = input.FirstName
	updated.LastName = input.LastName
	updated.Nationality = input.Nationality
	updated.Email = input.Email
	updated.Phone = input.Phone
	updated.DateOfBirth = input.DateOfBirth
	updated.BloodGroup = input.BloodGroup
	updated.Salary = input.Salary

	return s.customers.Update(ctx, &updated)
}

// Delete removes the customer, reporting whether a record was removed.
func (s *customerService) Delete(ctx context.Context, id string) (bool, error) {
	return s.customers.Delete(ctx, id)
}

// validate runs the creation precondition pipeline in order. excludeID
// exempts a record from the uniqueness scan so a customer may keep its own
// email on update.
func (s *customerService) validate(ctx context.Context, input CustomerInput, excludeID string) error {
	if !isValidEmail(input.Email) {
		return apperrors.NewValidationError("Invalid email format", nil)
	}

	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		validation := s.phones.Validate(ctx, *input.Phone)
		if !validation.IsValid {
			reason := validation.ErrorMessage
			if reason == "" {
				reason = "Phone number validation failed"
			}
			return apperrors.NewValidationError("Invalid phone number: "+reason, nil)
		}
	}

	customers, err := s.customers.GetAll(ctx, false)
	if err != nil {
		return err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Email, input.Email) && c.ID != excludeID {
			return apperrors.NewConflict("Email already exists", nil)
		}
	}

	if input.DateOfBirth != nil {
		if ageAt(*input.DateOfBirth, time.Now()) < 18 {
			return apperrors.NewConflict("Customer must be at least 18 years old", nil)
		}
	}

	if strings.TrimSpace(input.Nationality) == "" {
		return apperrors.NewValidationError("Nationality is required", nil)
	}
	return nil
}

func isValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// ageAt computes full years between dob and now, decrementing when the
// birthday has not yet occurred this year.
func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(now) {
		age--
	}
	return age
}

func (s *customerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
