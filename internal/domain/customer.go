package domain

import "time"

// Customer is the persisted customer record.
type Customer struct {
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
