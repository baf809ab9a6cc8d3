package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
)

// NotificationStore описывает зависимости NotificationService от слоя хранилища.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
}

// NotificationService отвечает за журнал уведомлений пользователей.
type NotificationService struct {
	repo NotificationStore
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListByUser возвращает уведомления пользователя.
func (s *NotificationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SaveDelivered журналирует доставленное WebSocket-оповещение.
// Реализует интерфейс сохранения уведомлений для ws.Hub.
func (s *NotificationService) SaveDelivered(ctx context.Context, userID uuid.UUID, reportID int64) error {
	return s.repo.Create(ctx, &models.Notification{
		UserID:   userID,
		ReportID: reportID,
		Type:     models.NotificationTypeWebSocket,
		Status:   models.NotificationStatusSent,
	})
}
