package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// NotifyGrower fans a notification out to every active user of a grower
// organization. Failures are logged, never propagated; notifications are
// best-effort and must not fail the operation that triggered them.
func (s *NotificationService) NotifyGrower(ctx context.Context, growerID domain.GrowerID, notifType domain.NotificationType, title, message string, entityID *uuid.UUID, entityType string) {
	users, err := s.userRepo.ListByGrower(ctx, growerID)
	if err != nil {
		s.logger.Warn("notification fan-out failed to list users",
			zap.String("grower_id", string(growerID)),
			zap.Error(err),
		)
		return
	}

	for _, user := range users {
		if entityID != nil {
			exists, err := s.notificationRepo.ExistsForEntity(ctx, user.ID, notifType, *entityID)
			if err == nil && exists {
				continue
			}
		}

		notification := &domain.Notification{
			UserID:     user.ID,
			Type:       string(notifType),
			Title:      title,
			Message:    message,
			EntityID:   entityID,
			EntityType: entityType,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create notification",
				zap.String("user_id", user.ID),
				zap.String("type", string(notifType)),
				zap.Error(err),
			)
		}
	}
}

func (s *NotificationService) List(ctx context.Context, page, pageSize int, unreadOnly bool) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userCtx.UserID.String(), page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &domain.PaginatedResponse{
		Results:    notifications,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	return s.notificationRepo.MarkRead(ctx, id, userCtx.UserID.String())
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	return s.notificationRepo.MarkAllRead(ctx, userCtx.UserID.String())
}

func (s *NotificationService) CountUnread(ctx context.Context) (int, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUnauthorized
	}
	return s.notificationRepo.CountUnread(ctx, userCtx.UserID.String())
}
