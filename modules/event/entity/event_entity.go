package entity

import (
	"time"

	"github.com/google/uuid"

	"volops/core/entity"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event represents a volunteer opportunity
type Event struct {
	OrganizerID     uuid.UUID   `db:"organizer_id" json:"organizer_id"`
	Title           string      `db:"title" json:"title"`
	Slug            string      `db:"slug" json:"slug"`
	Organization    string      `db:"organization" json:"organization"`
	Description     *string     `db:"description" json:"description,omitempty"`
	Category        string      `db:"category" json:"category"`
	Location        string      `db:"location" json:"location"`
	Image           *string     `db:"image" json:"image,omitempty"`
	StartAt         time.Time   `db:"start_at" json:"start_at"`
	MaxParticipants int         `db:"max_participants" json:"max_participants"`
	Status          EventStatus `db:"status" json:"status"`

	// Derived from registration rows, never stored
	ParticipantCount int `db:"participant_count" json:"participant_count"`

	entity.BaseEntity
}

// IsOpen reports whether the event still accepts registrations.
func (e *Event) IsOpen(now time.Time) bool {
	return e.Status == EventStatusActive && e.StartAt.After(now)
}
