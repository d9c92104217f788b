package service

import (
	"context"

	"github.com/google/uuid"

	"volops/core/params"
	"volops/modules/notification/entity"
	"volops/modules/notification/repository"
)

// NotificationService handles notification reads and writes
type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify records an in-app notification for a user. Called by the background
// worker, never directly from request handlers.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]interface{}) error {
	notif := &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Data:    entity.JSONB(data),
		IsRead:  false,
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, p)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
