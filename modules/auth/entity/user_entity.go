package entity

import (
	"volops/core/entity"
)

// User represents an account, either a volunteer or an organizer
type User struct {
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	FullName     string  `db:"full_name" json:"full_name"`
	Organization *string `db:"organization" json:"organization,omitempty"`
	IsOrganizer  bool    `db:"is_organizer" json:"is_organizer"`
	entity.BaseEntity
}
