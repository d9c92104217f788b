package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"volops/core/database"
	"volops/core/logger"
	"volops/modules/auth/entity"
)

// AuthRepository handles user persistence
type AuthRepository struct {
	DB database.Database
}

// NewAuthRepository creates a new repository instance
func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract
type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, organization, is_organizer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, password_hash, full_name, organization, is_organizer, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.PasswordHash, user.FullName, user.Organization, user.IsOrganizer)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, organization, is_organizer, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, organization, is_organizer, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = $2, organization = $3, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, user.ID, user.FullName, user.Organization)
	if err != nil {
		logger.Error("AuthRepository:UpdateProfile", err)
		return err
	}
	return nil
}
