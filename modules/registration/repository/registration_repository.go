package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"volops/core/database"
	"volops/core/logger"
	"volops/modules/registration/entity"
)

// Domain outcomes detected inside the write transaction. The service layer
// translates these into API error codes.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventClosed       = errors.New("event is cancelled or has already started")
	ErrEventFull         = errors.New("event has reached its capacity")
	ErrAlreadyRegistered = errors.New("an active registration already exists")
	ErrNotRegistered     = errors.New("no active registration exists")
)

// EventInfo is the event snapshot taken while the row is locked, used by the
// service for authorization checks and notification payloads.
type EventInfo struct {
	ID          uuid.UUID `db:"id"`
	OrganizerID uuid.UUID `db:"organizer_id"`
	Title       string    `db:"title"`
}

// RegistrationRepository owns all writes to registration state. Every write
// runs its read-check-write sequence in a single transaction holding a row
// lock on the event, so concurrent requests for the same event serialize and
// the capacity invariant cannot be violated.
type RegistrationRepository struct {
	DB database.Database
}

// NewRegistrationRepository creates a new repository instance
func NewRegistrationRepository(db database.Database) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

// RegistrationRepositoryInterface defines the repository contract
type RegistrationRepositoryInterface interface {
	Register(ctx context.Context, eventID, userID uuid.UUID, contact entity.ContactInfo) (*entity.Registration, *EventInfo, error)
	Deregister(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, *EventInfo, error)
	Toggle(ctx context.Context, eventID, userID uuid.UUID, contact entity.ContactInfo) (*entity.Registration, *EventInfo, error)
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error)
	ListActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Registration, error)
	GetEventInfo(ctx context.Context, eventID uuid.UUID) (*EventInfo, error)
}

const registrationColumns = `id, event_id, user_id, name, email, phone, status, created_at, updated_at`

// lockedEvent is the event state read under FOR UPDATE.
type lockedEvent struct {
	ID              uuid.UUID `db:"id"`
	OrganizerID     uuid.UUID `db:"organizer_id"`
	Title           string    `db:"title"`
	StartAt         time.Time `db:"start_at"`
	MaxParticipants int       `db:"max_participants"`
	Status          string    `db:"status"`
}

// lockEvent locks the event row for the duration of the transaction. All
// capacity decisions for one event serialize behind this lock.
func lockEvent(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) (*lockedEvent, error) {
	query := `
		SELECT id, organizer_id, title, start_at, max_participants, status
		FROM events WHERE id = $1
		FOR UPDATE
	`

	var event lockedEvent
	if err := tx.GetContext(ctx, &event, query, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// activateRegistration performs the capacity-checked register inside the
// transaction: it re-counts active rows under the event lock, then revives
// the caller's cancelled row or inserts a fresh one.
func activateRegistration(ctx context.Context, tx *sqlx.Tx, event *lockedEvent, userID uuid.UUID, contact entity.ContactInfo, existing *entity.Registration) (*entity.Registration, error) {
	if event.Status != "active" || !event.StartAt.After(time.Now()) {
		return nil, ErrEventClosed
	}

	var activeCount int
	countQuery := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'active'`
	if err := tx.GetContext(ctx, &activeCount, countQuery, event.ID); err != nil {
		return nil, err
	}
	if activeCount >= event.MaxParticipants {
		return nil, ErrEventFull
	}

	var reg entity.Registration
	if existing != nil {
		// Revive the cancelled row, overwriting the contact snapshot.
		query := `
			UPDATE registrations
			SET status = 'active', name = $2, email = $3, phone = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + registrationColumns
		if err := tx.GetContext(ctx, &reg, query, existing.ID, contact.Name, contact.Email, contact.Phone); err != nil {
			return nil, err
		}
		return &reg, nil
	}

	query := `
		INSERT INTO registrations (event_id, user_id, name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING ` + registrationColumns
	if err := tx.GetContext(ctx, &reg, query, event.ID, userID, contact.Name, contact.Email, contact.Phone); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return &reg, nil
}

func getForUpdate(ctx context.Context, tx *sqlx.Tx, eventID, userID uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations WHERE event_id = $1 AND user_id = $2
		FOR UPDATE
	`

	var reg entity.Registration
	if err := tx.GetContext(ctx, &reg, query, eventID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func cancelRegistration(ctx context.Context, tx *sqlx.Tx, reg *entity.Registration) (*entity.Registration, error) {
	query := `
		UPDATE registrations
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + registrationColumns

	var cancelled entity.Registration
	if err := tx.GetContext(ctx, &cancelled, query, reg.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &cancelled, nil
}

// Register creates or revives an active registration, failing with
// ErrEventFull when no seat is left and ErrAlreadyRegistered when an active
// row already exists for the pair.
func (r *RegistrationRepository) Register(ctx context.Context, eventID, userID uuid.UUID, contact entity.ContactInfo) (*entity.Registration, *EventInfo, error) {
	var reg *entity.Registration
	var info *EventInfo

	err := r.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		event, err := lockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		info = &EventInfo{ID: event.ID, OrganizerID: event.OrganizerID, Title: event.Title}

		existing, err := getForUpdate(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == entity.RegistrationStatusActive {
			return ErrAlreadyRegistered
		}

		reg, err = activateRegistration(ctx, tx, event, userID, contact, existing)
		return err
	})
	if err != nil {
		return nil, info, err
	}
	return reg, info, nil
}

// Deregister transitions the caller's active registration to cancelled.
// A second call for the same pair fails with ErrNotRegistered.
func (r *RegistrationRepository) Deregister(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, *EventInfo, error) {
	var reg *entity.Registration
	var info *EventInfo

	err := r.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		event, err := lockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		info = &EventInfo{ID: event.ID, OrganizerID: event.OrganizerID, Title: event.Title}

		existing, err := getForUpdate(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if existing == nil || existing.Status != entity.RegistrationStatusActive {
			return ErrNotRegistered
		}

		reg, err = cancelRegistration(ctx, tx, existing)
		return err
	})
	if err != nil {
		return nil, info, err
	}
	return reg, info, nil
}

// Toggle registers when no active registration exists and deregisters
// otherwise. The register path goes through the same capacity check as
// Register; phrasing the operation as a toggle does not bypass the invariant.
func (r *RegistrationRepository) Toggle(ctx context.Context, eventID, userID uuid.UUID, contact entity.ContactInfo) (*entity.Registration, *EventInfo, error) {
	var reg *entity.Registration
	var info *EventInfo

	err := r.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		event, err := lockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		info = &EventInfo{ID: event.ID, OrganizerID: event.OrganizerID, Title: event.Title}

		existing, err := getForUpdate(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}

		if existing != nil && existing.Status == entity.RegistrationStatusActive {
			reg, err = cancelRegistration(ctx, tx, existing)
			return err
		}

		reg, err = activateRegistration(ctx, tx, event, userID, contact, existing)
		return err
	})
	if err != nil {
		return nil, info, err
	}
	return reg, info, nil
}

func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND user_id = $2`

	var reg entity.Registration
	if err := r.DB.GetContext(ctx, &reg, query, eventID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RegistrationRepository:GetByEventAndUser", err)
		return nil, err
	}
	return &reg, nil
}

// ListActiveByEventID returns the event roster in registration order.
func (r *RegistrationRepository) ListActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND status = 'active'
		ORDER BY created_at ASC
	`

	var regs []entity.Registration
	if err := r.DB.SelectContext(ctx, &regs, query, eventID); err != nil {
		logger.Error("RegistrationRepository:ListActiveByEventID", err)
		return nil, err
	}
	return regs, nil
}

func (r *RegistrationRepository) GetEventInfo(ctx context.Context, eventID uuid.UUID) (*EventInfo, error) {
	query := `SELECT id, organizer_id, title FROM events WHERE id = $1`

	var info EventInfo
	if err := r.DB.GetContext(ctx, &info, query, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RegistrationRepository:GetEventInfo", err)
		return nil, err
	}
	return &info, nil
}
