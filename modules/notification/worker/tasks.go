package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"volops/core/constants"
	"volops/core/logger"
)

// RegistrationPayload describes a registration state change
type RegistrationPayload struct {
	EventID     uuid.UUID `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
}

// EventCancelledPayload carries the registrants to notify about a cancellation
type EventCancelledPayload struct {
	EventID    uuid.UUID   `json:"event_id"`
	EventTitle string      `json:"event_title"`
	UserIDs    []uuid.UUID `json:"user_ids"`
}

// Enqueuer submits background notification tasks. Enqueueing is best-effort:
// registration state is already committed when tasks are produced.
type Enqueuer interface {
	EnqueueRegistrationConfirmed(ctx context.Context, p RegistrationPayload) error
	EnqueueRegistrationCancelled(ctx context.Context, p RegistrationPayload) error
	EnqueueEventCancelled(ctx context.Context, eventID uuid.UUID, eventTitle string, userIDs []uuid.UUID) error
}

type asynqEnqueuer struct {
	client *asynq.Client
}

// NewEnqueuer wraps an asynq client as a task producer
func NewEnqueuer(client *asynq.Client) Enqueuer {
	return &asynqEnqueuer{client: client}
}

func (e *asynqEnqueuer) EnqueueRegistrationConfirmed(ctx context.Context, p RegistrationPayload) error {
	return e.enqueue(ctx, constants.TaskRegistrationConfirmed, p)
}

func (e *asynqEnqueuer) EnqueueRegistrationCancelled(ctx context.Context, p RegistrationPayload) error {
	return e.enqueue(ctx, constants.TaskRegistrationCancelled, p)
}

func (e *asynqEnqueuer) EnqueueEventCancelled(ctx context.Context, eventID uuid.UUID, eventTitle string, userIDs []uuid.UUID) error {
	return e.enqueue(ctx, constants.TaskEventCancelled, EventCancelledPayload{
		EventID:    eventID,
		EventTitle: eventTitle,
		UserIDs:    userIDs,
	})
}

func (e *asynqEnqueuer) enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), asynq.MaxRetry(3))
	if err != nil {
		return err
	}

	logger.Debug("Worker:Enqueue", "type", taskType, "task_id", info.ID)
	return nil
}
