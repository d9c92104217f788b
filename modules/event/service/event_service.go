package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"volops/core/cache"
	"volops/core/constants"
	"volops/core/errors"
	"volops/core/logger"
	"volops/core/params"
	"volops/core/storage"
	"volops/core/utils"
	authservice "volops/modules/auth/service"
	"volops/modules/event/dto"
	"volops/modules/event/entity"
	"volops/modules/event/repository"
	"volops/modules/notification/worker"
)

const listCacheTTL = time.Minute

// EventService handles event business logic
type EventService struct {
	repo        repository.EventRepositoryInterface
	authService authservice.AuthServiceInterface
	cache       cache.Cache
	storage     storage.Storage
	enqueuer    worker.Enqueuer
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	Create(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	List(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	ListMine(ctx context.Context, organizerID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	Update(ctx context.Context, eventID, organizerID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	Delete(ctx context.Context, eventID, organizerID uuid.UUID) *errors.AppError
	UploadImage(ctx context.Context, eventID, organizerID uuid.UUID, filename, contentType string, body io.Reader, size int64) (*dto.EventResponse, *errors.AppError)
	ListUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
}

// NewEventService creates a new event service
func NewEventService(
	repo repository.EventRepositoryInterface,
	authService authservice.AuthServiceInterface,
	c cache.Cache,
	st storage.Storage,
	enqueuer worker.Enqueuer,
) EventServiceInterface {
	return &EventService{
		repo:        repo,
		authService: authService,
		cache:       c,
		storage:     st,
		enqueuer:    enqueuer,
	}
}

// Create creates a new event owned by the calling organizer
func (s *EventService) Create(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if appErr := s.requireOrganizer(ctx, organizerID); appErr != nil {
		return nil, appErr
	}

	if req.MaxParticipants < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "max_participants must be at least 1", nil)
	}
	if !req.StartAt.After(time.Now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_at must be in the future", nil)
	}

	event := &entity.Event{
		OrganizerID:     organizerID,
		Title:           req.Title,
		Slug:            slug.Make(req.Title) + "-" + utils.GenerateID(),
		Organization:    req.Organization,
		Category:        req.Category,
		Location:        req.Location,
		StartAt:         req.StartAt,
		MaxParticipants: req.MaxParticipants,
		Status:          entity.EventStatusActive,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	s.invalidateListCache(ctx)

	resp := dto.ToEventResponse(created)
	return &resp, nil
}

// GetByID retrieves an event with its derived participant count
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	resp := dto.ToEventResponse(event)
	return &resp, nil
}

// List returns the public event listing, served from cache when possible
func (s *EventService) List(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	key := fmt.Sprintf("%sp%d:s%d:c%s:u%t",
		constants.RedisKeyEventList, p.PageNumber, p.PageSize, p.Category, p.Upcoming)

	var cached dto.PaginatedEventResponse
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Warn("EventService:List:CacheGet", "error", err)
	} else if hit {
		return &cached, nil
	}

	events, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	result := &dto.PaginatedEventResponse{
		Items:      dto.ToEventResponses(events),
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}

	if err := s.cache.SetJSON(ctx, key, result, listCacheTTL); err != nil {
		logger.Warn("EventService:List:CacheSet", "error", err)
	}

	return result, nil
}

// ListMine returns every event owned by the calling organizer
func (s *EventService) ListMine(ctx context.Context, organizerID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	return dto.ToEventResponses(events), nil
}

// Update edits event fields. Only the owning organizer may update, capacity
// cannot drop below the current active registration count, and cancelling
// notifies active registrants.
func (s *EventService) Update(ctx context.Context, eventID, organizerID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, eventID, organizerID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		event.Title = *req.Title
		event.Slug = slug.Make(*req.Title) + "-" + utils.GenerateID()
	}
	if req.Organization != nil {
		event.Organization = *req.Organization
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartAt != nil {
		event.StartAt = *req.StartAt
	}

	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "max_participants must be at least 1", nil)
		}
		event.MaxParticipants = *req.MaxParticipants
	}

	cancelling := false
	if req.Status != nil {
		switch entity.EventStatus(*req.Status) {
		case entity.EventStatusActive:
			event.Status = entity.EventStatusActive
		case entity.EventStatusCancelled:
			cancelling = event.Status != entity.EventStatusCancelled
			event.Status = entity.EventStatusCancelled
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "status must be active or cancelled", nil)
		}
	}

	// The capacity check runs inside the update transaction, under the same
	// event row lock the registration writers take.
	if err := s.repo.Update(ctx, event); err != nil {
		if err == repository.ErrCapacityBelowActive {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				"max_participants cannot be lower than the current active registration count", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	s.invalidateListCache(ctx)

	if cancelling {
		s.notifyCancellation(ctx, event)
	}

	resp := dto.ToEventResponse(event)
	return &resp, nil
}

// Delete removes an event and cascades its registrations
func (s *EventService) Delete(ctx context.Context, eventID, organizerID uuid.UUID) *errors.AppError {
	if _, appErr := s.getOwnedEvent(ctx, eventID, organizerID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	s.invalidateListCache(ctx)
	return nil
}

// UploadImage stores an event image in object storage and records its URL
func (s *EventService) UploadImage(ctx context.Context, eventID, organizerID uuid.UUID, filename, contentType string, body io.Reader, size int64) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, eventID, organizerID)
	if appErr != nil {
		return nil, appErr
	}

	if size > constants.MaxImageSizeBytes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Image exceeds the maximum allowed size", nil)
	}

	ext := filepath.Ext(filename)
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	key := fmt.Sprintf("events/%s/%s%s", event.ID, utils.GenerateID(), ext)
	url, err := s.storage.UploadImage(ctx, key, contentType, body, size)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "Failed to upload image", err)
	}

	if err := s.repo.SetImage(ctx, eventID, url); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save image URL", err)
	}

	s.invalidateListCache(ctx)

	event.Image = &url
	resp := dto.ToEventResponse(event)
	return &resp, nil
}

// ListUpcomingForUser returns the caller's upcoming registered events
func (s *EventService) ListUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListUpcomingForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list upcoming events", err)
	}
	return dto.ToEventResponses(events), nil
}

func (s *EventService) requireOrganizer(ctx context.Context, userID uuid.UUID) *errors.AppError {
	user, appErr := s.authService.GetUserByID(ctx, userID)
	if appErr != nil {
		return appErr
	}
	if !user.IsOrganizer {
		return errors.NewAppError(errors.ErrForbidden, "Only organizers can manage events", nil)
	}
	return nil
}

func (s *EventService) getOwnedEvent(ctx context.Context, eventID, organizerID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}
	if event.OrganizerID != organizerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the event organizer can perform this action", nil)
	}
	return event, nil
}

func (s *EventService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeleteByPrefix(ctx, constants.RedisKeyEventList); err != nil {
		logger.Warn("EventService:InvalidateListCache", "error", err)
	}
}

func (s *EventService) notifyCancellation(ctx context.Context, event *entity.Event) {
	userIDs, err := s.repo.ListActiveRegistrantIDs(ctx, event.ID)
	if err != nil {
		logger.Error("EventService:NotifyCancellation:ListRegistrants", err)
		return
	}
	if err := s.enqueuer.EnqueueEventCancelled(ctx, event.ID, event.Title, userIDs); err != nil {
		logger.Error("EventService:NotifyCancellation:Enqueue", err)
	}
}
