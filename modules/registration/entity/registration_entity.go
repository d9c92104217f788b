package entity

import (
	"github.com/google/uuid"

	"volops/core/entity"
)

// RegistrationStatus represents the state of a registration
type RegistrationStatus string

const (
	RegistrationStatusActive    RegistrationStatus = "active"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// Registration represents a user's attendance on an event. Rows are never
// hard-deleted; cancellation is a status transition and re-registration
// revives the existing row.
type Registration struct {
	EventID uuid.UUID          `db:"event_id" json:"event_id"`
	UserID  uuid.UUID          `db:"user_id" json:"user_id"`
	Name    string             `db:"name" json:"name"`
	Email   string             `db:"email" json:"email"`
	Phone   *string            `db:"phone" json:"phone,omitempty"`
	Status  RegistrationStatus `db:"status" json:"status"`
	entity.BaseEntity
}

// ContactInfo is the registrant snapshot captured at registration time. It is
// not re-synced from the user profile later.
type ContactInfo struct {
	Name  string
	Email string
	Phone *string
}
