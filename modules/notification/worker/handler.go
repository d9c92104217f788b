package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"volops/core/constants"
	"volops/core/logger"
	eventrepo "volops/modules/event/repository"
	"volops/modules/notification/service"
)

// Handler processes notification tasks from the asynq queue
type Handler struct {
	notifications *service.NotificationService
	events        eventrepo.EventRepositoryInterface
}

func NewHandler(notifications *service.NotificationService, events eventrepo.EventRepositoryInterface) *Handler {
	return &Handler{
		notifications: notifications,
		events:        events,
	}
}

// Register attaches all task handlers to the mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskRegistrationConfirmed, h.HandleRegistrationConfirmed)
	mux.HandleFunc(constants.TaskRegistrationCancelled, h.HandleRegistrationCancelled)
	mux.HandleFunc(constants.TaskEventCancelled, h.HandleEventCancelled)
	mux.HandleFunc(constants.TaskEventReminder, h.HandleEventReminder)
}

// HandleRegistrationConfirmed notifies the organizer about a new registrant
func (h *Handler) HandleRegistrationConfirmed(ctx context.Context, t *asynq.Task) error {
	var p RegistrationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	msg := fmt.Sprintf("%s registered for %q", p.UserName, p.EventTitle)
	return h.notifications.Notify(ctx, p.OrganizerID, constants.TaskRegistrationConfirmed,
		"New registration", msg, map[string]interface{}{
			"event_id": p.EventID.String(),
			"user_id":  p.UserID.String(),
		})
}

// HandleRegistrationCancelled notifies the organizer about a deregistration
func (h *Handler) HandleRegistrationCancelled(ctx context.Context, t *asynq.Task) error {
	var p RegistrationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	msg := fmt.Sprintf("%s cancelled their registration for %q", p.UserName, p.EventTitle)
	return h.notifications.Notify(ctx, p.OrganizerID, constants.TaskRegistrationCancelled,
		"Registration cancelled", msg, map[string]interface{}{
			"event_id": p.EventID.String(),
			"user_id":  p.UserID.String(),
		})
}

// HandleEventCancelled notifies every active registrant of a cancelled event
func (h *Handler) HandleEventCancelled(ctx context.Context, t *asynq.Task) error {
	var p EventCancelledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	msg := fmt.Sprintf("The event %q has been cancelled by the organizer", p.EventTitle)
	for _, userID := range p.UserIDs {
		if err := h.notifications.Notify(ctx, userID, constants.TaskEventCancelled,
			"Event cancelled", msg, map[string]interface{}{
				"event_id": p.EventID.String(),
			}); err != nil {
			logger.Error("Worker:HandleEventCancelled:Notify", err)
		}
	}
	return nil
}

// HandleEventReminder runs on the daily schedule and reminds active
// registrants of events starting within the next 24 hours.
func (h *Handler) HandleEventReminder(ctx context.Context, _ *asynq.Task) error {
	now := time.Now()
	events, err := h.events.ListStartingBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("list upcoming events: %w", err)
	}

	for i := range events {
		event := &events[i]
		userIDs, err := h.events.ListActiveRegistrantIDs(ctx, event.ID)
		if err != nil {
			logger.Error("Worker:HandleEventReminder:ListRegistrants", err)
			continue
		}

		msg := fmt.Sprintf("%q starts at %s", event.Title, event.StartAt.Format(time.RFC1123))
		for _, userID := range userIDs {
			if err := h.notifications.Notify(ctx, userID, constants.TaskEventReminder,
				"Upcoming event", msg, map[string]interface{}{
					"event_id": event.ID.String(),
				}); err != nil {
				logger.Error("Worker:HandleEventReminder:Notify", err)
			}
		}
	}
	return nil
}
