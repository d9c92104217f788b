package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"volops/core/database"
	"volops/core/logger"
	"volops/core/params"
	"volops/modules/event/entity"
)

// ErrCapacityBelowActive is returned by Update when the new max_participants
// would fall below the number of active registrations.
var ErrCapacityBelowActive = errors.New("max_participants below the active registration count")

// EventRepository handles event database operations
type EventRepository struct {
	DB database.Database
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	SetImage(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActiveRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	ListUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]entity.Event, error)
}

// participantCount is the derived active-registration count, always computed
// from registration rows.
const participantCount = `(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id AND r.status = 'active')`

const eventColumns = `e.id, e.organizer_id, e.title, e.slug, e.organization, e.description, e.category,
       e.location, e.image, e.start_at, e.max_participants, e.status, e.created_at, e.updated_at,
       ` + participantCount + ` AS participant_count`

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (organizer_id, title, slug, organization, description, category,
		                    location, start_at, max_participants, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, organizer_id, title, slug, organization, description, category,
		          location, image, start_at, max_participants, status, created_at, updated_at,
		          0 AS participant_count
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.OrganizerID, event.Title, event.Slug, event.Organization, event.Description,
		event.Category, event.Location, event.StartAt, event.MaxParticipants, event.Status)
	if err != nil {
		logger.Error("EventRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}

	return &event, nil
}

// List returns active events ordered by start time, optionally filtered by
// category and restricted to upcoming ones.
func (r *EventRepository) List(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error) {
	where := `WHERE e.status = 'active'`
	args := []any{}
	if p.Category != "" {
		args = append(args, p.Category)
		where += fmt.Sprintf(" AND e.category = $%d", len(args))
	}
	if p.Upcoming {
		where += " AND e.start_at > NOW()"
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM events e `+where, args...); err != nil {
		logger.Error("EventRepository:List:Count", err)
		return nil, 0, err
	}

	offset := (p.PageNumber - 1) * p.PageSize
	args = append(args, p.PageSize, offset)
	query := fmt.Sprintf(`SELECT %s FROM events e %s ORDER BY e.start_at ASC LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args))

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Error("EventRepository:List:Select", err)
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.organizer_id = $1 ORDER BY e.start_at ASC`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, organizerID); err != nil {
		logger.Error("EventRepository:ListByOrganizer", err)
		return nil, err
	}
	return events, nil
}

// Update writes the new event state inside a transaction holding the event
// row lock, so the capacity check counts against a frozen registration set.
// Registration writers take the same lock, which keeps max_participants from
// dropping below the active count through any interleaving.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	err := r.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		var lockedID uuid.UUID
		if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, event.ID); err != nil {
			return err
		}

		var active int
		countQuery := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'active'`
		if err := tx.GetContext(ctx, &active, countQuery, event.ID); err != nil {
			return err
		}
		if event.MaxParticipants < active {
			return ErrCapacityBelowActive
		}

		query := `
			UPDATE events
			SET title = $2, slug = $3, organization = $4, description = $5, category = $6,
			    location = $7, start_at = $8, max_participants = $9, status = $10, updated_at = NOW()
			WHERE id = $1
		`
		_, err := tx.ExecContext(ctx, query,
			event.ID, event.Title, event.Slug, event.Organization, event.Description,
			event.Category, event.Location, event.StartAt, event.MaxParticipants, event.Status)
		return err
	})
	if err != nil && err != ErrCapacityBelowActive {
		logger.Error("EventRepository:Update", err)
	}
	return err
}

func (r *EventRepository) SetImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE events SET image = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, imageURL); err != nil {
		logger.Error("EventRepository:SetImage", err)
		return err
	}
	return nil
}

// Delete removes the event; registrations cascade via the foreign key.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:Delete", err)
		return err
	}
	return nil
}

func (r *EventRepository) ListActiveRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT user_id FROM registrations WHERE event_id = $1 AND status = 'active'`
	if err := r.DB.SelectContext(ctx, &ids, query, eventID); err != nil {
		logger.Error("EventRepository:ListActiveRegistrantIDs", err)
		return nil, err
	}
	return ids, nil
}

// ListUpcomingForUser returns future events the user is actively registered for.
func (r *EventRepository) ListUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN registrations reg ON reg.event_id = e.id
		WHERE reg.user_id = $1 AND reg.status = 'active' AND e.start_at > NOW()
		ORDER BY e.start_at ASC
	`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:ListUpcomingForUser", err)
		return nil, err
	}
	return events, nil
}

// ListStartingBetween returns active events starting inside the window.
// Used by the reminder worker.
func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.status = 'active' AND e.start_at > $1 AND e.start_at <= $2
		ORDER BY e.start_at ASC
	`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, from, to); err != nil {
		logger.Error("EventRepository:ListStartingBetween", err)
		return nil, err
	}
	return events, nil
}
