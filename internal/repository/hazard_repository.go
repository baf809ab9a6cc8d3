package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/satraksha/hazard-backend/internal/models"
)

// ErrHazardNotFound возвращается, когда отчёт об опасности не найден.
var ErrHazardNotFound = errors.New("hazard not found")

// HazardRepository отвечает за работу с таблицей hazards.
type HazardRepository struct {
	db *sqlx.DB
}

// NewHazardRepository создаёт экземпляр репозитория.
func NewHazardRepository(db *sqlx.DB) *HazardRepository {
	return &HazardRepository{db: db}
}

// Create создаёт новый отчёт об опасности и заполняет id и временные метки.
func (r *HazardRepository) Create(ctx context.Context, hazard *models.Hazard) error {
	query := `
		INSERT INTO hazards (lat, lng, hazard_type, description, photo_key, status, source, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		hazard.Lat, hazard.Lng, hazard.HazardType, hazard.Description,
		hazard.PhotoKey, hazard.Status, hazard.Source, hazard.ReportedBy,
	).Scan(&hazard.ID, &hazard.CreatedAt, &hazard.UpdatedAt); err != nil {
		return fmt.Errorf("hazard repository: create %w", err)
	}

	return nil
}

// GetByID возвращает отчёт по идентификатору.
func (r *HazardRepository) GetByID(ctx context.Context, id int64) (*models.Hazard, error) {
	var hazard models.Hazard
	query := `
		SELECT id, lat, lng, hazard_type, description, photo_key, status, source,
		       reported_by, created_at, updated_at
		FROM hazards
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &hazard, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHazardNotFound
		}
		return nil, fmt.Errorf("hazard repository: get by id %w", err)
	}

	return &hazard, nil
}

// ListAll возвращает все отчёты, начиная с последних.
func (r *HazardRepository) ListAll(ctx context.Context) ([]models.Hazard, error) {
	var hazards []models.Hazard
	query := `
		SELECT id, lat, lng, hazard_type, description, photo_key, status, source,
		       reported_by, created_at, updated_at
		FROM hazards
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &hazards, query); err != nil {
		return nil, fmt.Errorf("hazard repository: list all %w", err)
	}
	return hazards, nil
}

// ListByReporter возвращает отчёты конкретного пользователя, начиная с последних.
func (r *HazardRepository) ListByReporter(ctx context.Context, userID uuid.UUID) ([]models.Hazard, error) {
	var hazards []models.Hazard
	query := `
		SELECT id, lat, lng, hazard_type, description, photo_key, status, source,
		       reported_by, created_at, updated_at
		FROM hazards
		WHERE reported_by = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &hazards, query, userID); err != nil {
		return nil, fmt.Errorf("hazard repository: list by reporter %w", err)
	}
	return hazards, nil
}

// UpdateStatus меняет статус отчёта и обновляет updated_at.
func (r *HazardRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Hazard, error) {
	var hazard models.Hazard
	query := `
		UPDATE hazards SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, lat, lng, hazard_type, description, photo_key, status, source,
		          reported_by, created_at, updated_at
	`
	if err := r.db.GetContext(ctx, &hazard, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHazardNotFound
		}
		return nil, fmt.Errorf("hazard repository: update status %w", err)
	}
	return &hazard, nil
}

// Delete удаляет отчёт. Голоса, комментарии и уведомления удаляются каскадно.
func (r *HazardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hazards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hazard repository: delete %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrHazardNotFound
	}
	return nil
}
