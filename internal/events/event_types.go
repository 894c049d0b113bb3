package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated EventType = "customer_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CustomerID string      `json:"customer_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}
