package service

import (
	"context"

	"github.com/google/uuid"

	"volops/core/errors"
	"volops/core/logger"
	"volops/modules/notification/worker"
	"volops/modules/registration/dto"
	"volops/modules/registration/entity"
	"volops/modules/registration/repository"
)

// RegistrationService mediates all changes to registration state so the
// capacity and uniqueness invariants hold even under concurrent requests.
type RegistrationService struct {
	repo     repository.RegistrationRepositoryInterface
	enqueuer worker.Enqueuer
}

// RegistrationServiceInterface defines the service contract
type RegistrationServiceInterface interface {
	Register(ctx context.Context, eventID, userID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, *errors.AppError)
	Deregister(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError)
	Toggle(ctx context.Context, eventID, userID uuid.UUID, req *dto.RegisterRequest) (*dto.ToggleResponse, *errors.AppError)
	ListActiveRegistrations(ctx context.Context, eventID, callerID uuid.UUID) ([]dto.RegistrationResponse, *errors.AppError)
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(repo repository.RegistrationRepositoryInterface, enqueuer worker.Enqueuer) RegistrationServiceInterface {
	return &RegistrationService{repo: repo, enqueuer: enqueuer}
}

// Register creates (or revives) an active registration with the supplied
// contact snapshot.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, *errors.AppError) {
	contact := contactFromRequest(req)

	reg, info, err := s.repo.Register(ctx, eventID, userID, contact)
	if err != nil {
		return nil, translateWriteError(err)
	}

	s.notifyConfirmed(ctx, reg, info)

	resp := dto.ToRegistrationResponse(reg)
	return &resp, nil
}

// Deregister cancels the caller's active registration. A repeated call is an
// explicit NotRegistered error, never a silent no-op.
func (s *RegistrationService) Deregister(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError) {
	reg, info, err := s.repo.Deregister(ctx, eventID, userID)
	if err != nil {
		return nil, translateWriteError(err)
	}

	s.notifyCancelled(ctx, reg, info)

	resp := dto.ToRegistrationResponse(reg)
	return &resp, nil
}

// Toggle registers when the caller has no active registration and
// deregisters otherwise. The register path runs the same capacity check as
// Register.
func (s *RegistrationService) Toggle(ctx context.Context, eventID, userID uuid.UUID, req *dto.RegisterRequest) (*dto.ToggleResponse, *errors.AppError) {
	contact := contactFromRequest(req)

	reg, info, err := s.repo.Toggle(ctx, eventID, userID, contact)
	if err != nil {
		return nil, translateWriteError(err)
	}

	if reg.Status == entity.RegistrationStatusActive {
		s.notifyConfirmed(ctx, reg, info)
	} else {
		s.notifyCancelled(ctx, reg, info)
	}

	return &dto.ToggleResponse{
		Status:       string(reg.Status),
		Registration: dto.ToRegistrationResponse(reg),
	}, nil
}

// ListActiveRegistrations returns the event roster, restricted to the
// owning organizer, in registration order.
func (s *RegistrationService) ListActiveRegistrations(ctx context.Context, eventID, callerID uuid.UUID) ([]dto.RegistrationResponse, *errors.AppError) {
	info, err := s.repo.GetEventInfo(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if info == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}
	if info.OrganizerID != callerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the event organizer can view the roster", nil)
	}

	regs, err := s.repo.ListActiveByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list registrations", err)
	}

	return dto.ToRegistrationResponses(regs), nil
}

func contactFromRequest(req *dto.RegisterRequest) entity.ContactInfo {
	contact := entity.ContactInfo{
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Phone != "" {
		contact.Phone = &req.Phone
	}
	return contact
}

// translateWriteError maps repository outcomes onto the error taxonomy.
// Unknown datastore faults surface as retryable Unavailable errors; they are
// safe to retry because register and deregister are idempotent with respect
// to final state.
func translateWriteError(err error) *errors.AppError {
	switch err {
	case repository.ErrEventNotFound:
		return errors.NewAppError(errors.ErrEventNotFound, "Event not found", err)
	case repository.ErrEventClosed:
		return errors.NewAppError(errors.ErrEventClosed, "Event is cancelled or has already started", err)
	case repository.ErrEventFull:
		return errors.NewAppError(errors.ErrEventFull, "Event is full", err)
	case repository.ErrAlreadyRegistered:
		return errors.NewAppError(errors.ErrAlreadyRegistered, "Already registered for this event", err)
	case repository.ErrNotRegistered:
		return errors.NewAppError(errors.ErrNotRegistered, "No active registration for this event", err)
	default:
		return errors.NewAppError(errors.ErrServiceUnavailable, "Temporarily unable to process the request", err)
	}
}

func (s *RegistrationService) notifyConfirmed(ctx context.Context, reg *entity.Registration, info *repository.EventInfo) {
	if err := s.enqueuer.EnqueueRegistrationConfirmed(ctx, worker.RegistrationPayload{
		EventID:     info.ID,
		EventTitle:  info.Title,
		OrganizerID: info.OrganizerID,
		UserID:      reg.UserID,
		UserName:    reg.Name,
	}); err != nil {
		logger.Error("RegistrationService:NotifyConfirmed:Enqueue", err)
	}
}

func (s *RegistrationService) notifyCancelled(ctx context.Context, reg *entity.Registration, info *repository.EventInfo) {
	if err := s.enqueuer.EnqueueRegistrationCancelled(ctx, worker.RegistrationPayload{
		EventID:     info.ID,
		EventTitle:  info.Title,
		OrganizerID: info.OrganizerID,
		UserID:      reg.UserID,
		UserName:    reg.Name,
	}); err != nil {
		logger.Error("RegistrationService:NotifyCancelled:Enqueue", err)
	}
}
