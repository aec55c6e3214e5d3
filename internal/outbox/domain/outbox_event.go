// Package domain defines the core outbox domain entities and types.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types emitted by this service.
const (
	EventTypeVerificationRequested = "email.verification.requested"
	EventTypeUserCreated           = "user.created"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VerificationRequestedPayload is the payload of an
// email.verification.requested event. Token carries the signed verification
// token to embed in the e-mail link.
type VerificationRequestedPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// NewVerificationRequestedEvent builds a pending outbox event carrying a
// verification e-mail request.
func NewVerificationRequestedEvent(payload VerificationRequestedPayload) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: EventTypeVerificationRequested,
		Payload:   string(data),
		Status:    OutboxEventStatusPending,
	}, nil
}

// NewUserCreatedEvent builds a pending outbox event announcing a new account.
func NewUserCreatedEvent(userID int64, name, email string) (*OutboxEvent, error) {
	data, err := json.Marshal(map[string]any{
		"user_id": userID,
		"name":    name,
		"email":   email,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: EventTypeUserCreated,
		Payload:   string(data),
		Status:    OutboxEventStatusPending,
	}, nil
}
