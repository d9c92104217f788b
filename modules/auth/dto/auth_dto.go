package dto

import (
	"time"

	"volops/modules/auth/entity"
)

// ===================== Request DTOs =====================

// SignUpRequest for creating a new account
type SignUpRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required"`
	Organization string `json:"organization"`
	IsOrganizer  bool   `json:"is_organizer"`
}

// LoginRequest for password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest for profile edits
type UpdateProfileRequest struct {
	FullName     string `json:"full_name"`
	Organization string `json:"organization"`
}

// ===================== Response DTOs =====================

// TokenResponse carries the issued JWT and its owner's profile
type TokenResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// ProfileResponse is the public view of a user
type ProfileResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Organization string    `json:"organization,omitempty"`
	IsOrganizer  bool      `json:"is_organizer"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToProfileResponse maps a user entity to its public view
func ToProfileResponse(user *entity.User) ProfileResponse {
	resp := ProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		IsOrganizer: user.IsOrganizer,
		CreatedAt:   user.CreatedAt,
	}
	if user.Organization != nil {
		resp.Organization = *user.Organization
	}
	return resp
}
