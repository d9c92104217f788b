package dto

import (
	"time"

	"volops/core/entity"
	eventEntity "volops/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating a new event
type CreateEventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Organization    string    `json:"organization" validate:"required"`
	Description     string    `json:"description"`
	Category        string    `json:"category" validate:"required"`
	Location        string    `json:"location" validate:"required"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	MaxParticipants int       `json:"max_participants" validate:"required,min=1"`
}

// UpdateEventRequest for editing event details. Pointer fields distinguish
// "not provided" from zero values.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Organization    *string    `json:"organization"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Location        *string    `json:"location"`
	StartAt         *time.Time `json:"start_at"`
	MaxParticipants *int       `json:"max_participants"`
	Status          *string    `json:"status"`
}

// ===================== Response DTOs =====================

// EventResponse for event details
type EventResponse struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizer_id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Organization     string    `json:"organization"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	Image            string    `json:"image,omitempty"`
	StartAt          time.Time `json:"start_at"`
	MaxParticipants  int       `json:"max_participants"`
	ParticipantCount int       `json:"participant_count"`
	Status           string    `json:"status"`
	IsOpen           bool      `json:"is_open"`
	CreatedAt        time.Time `json:"created_at"`
}

// PaginatedEventResponse is a page of events
type PaginatedEventResponse = entity.Pagination[EventResponse]

// ToEventResponse maps an event entity to its API view
func ToEventResponse(e *eventEntity.Event) EventResponse {
	resp := EventResponse{
		ID:               e.ID.String(),
		OrganizerID:      e.OrganizerID.String(),
		Title:            e.Title,
		Slug:             e.Slug,
		Organization:     e.Organization,
		Category:         e.Category,
		Location:         e.Location,
		StartAt:          e.StartAt,
		MaxParticipants:  e.MaxParticipants,
		ParticipantCount: e.ParticipantCount,
		Status:           string(e.Status),
		IsOpen:           e.IsOpen(time.Now()),
		CreatedAt:        e.CreatedAt,
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	if e.Image != nil {
		resp.Image = *e.Image
	}
	return resp
}

// ToEventResponses maps a slice of events
func ToEventResponses(events []eventEntity.Event) []EventResponse {
	result := make([]EventResponse, 0, len(events))
	for i := range events {
		result = append(result, ToEventResponse(&events[i]))
	}
	return result
}
