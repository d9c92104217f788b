package dto

import (
	"time"

	"volops/modules/registration/entity"
)

// ===================== Request DTOs =====================

// RegisterRequest carries the contact snapshot captured at registration time
type RegisterRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// ===================== Response DTOs =====================

// RegistrationResponse for a single registration row
type RegistrationResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggleResponse reports the state a toggle call ended in
type ToggleResponse struct {
	Status       string               `json:"status"`
	Registration RegistrationResponse `json:"registration"`
}

// ToRegistrationResponse maps a registration entity to its API view
func ToRegistrationResponse(r *entity.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:        r.ID.String(),
		EventID:   r.EventID.String(),
		UserID:    r.UserID.String(),
		Name:      r.Name,
		Email:     r.Email,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Phone != nil {
		resp.Phone = *r.Phone
	}
	return resp
}

// ToRegistrationResponses maps a roster
func ToRegistrationResponses(regs []entity.Registration) []RegistrationResponse {
	result := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		result = append(result, ToRegistrationResponse(&regs[i]))
	}
	return result
}
