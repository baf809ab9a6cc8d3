package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/satraksha/hazard-backend/internal/models"
)

// NotificationRepository отвечает за журнал уведомлений и записи о
// пересылке отчётов в экстренные службы.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository создаёт экземпляр репозитория.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create записывает уведомление в журнал.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, report_id, type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		notification.UserID, notification.ReportID,
		notification.Type, notification.Status,
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		return fmt.Errorf("notification repository: create %w", err)
	}
	return nil
}

// ListByUser возвращает уведомления пользователя, начиная с последних.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
		SELECT id, user_id, report_id, type, status, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("notification repository: list by user %w", err)
	}
	return notifications, nil
}

// CreateForwarded фиксирует факт пересылки отчёта в экстренную службу.
func (r *NotificationRepository) CreateForwarded(ctx context.Context, forwarded *models.ForwardedReport) error {
	query := `
		INSERT INTO forwarded_reports (report_id, authority)
		VALUES ($1, $2)
		RETURNING id, forwarded_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, forwarded.ReportID, forwarded.Authority,
	).Scan(&forwarded.ID, &forwarded.ForwardedAt); err != nil {
		return fmt.Errorf("notification repository: create forwarded %w", err)
	}
	return nil
}
