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

// ErrLocationNotFound возвращается, когда у пользователя нет текущей позиции.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository отвечает за текущие позиции пользователей и журнал перемещений.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository создаёт экземпляр репозитория.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Upsert заменяет текущую позицию пользователя и дописывает строку в журнал.
// Обе записи выполняются в одной транзакции: журнал не может разойтись
// с текущей позицией.
func (r *LocationRepository) Upsert(ctx context.Context, loc *models.CurrentLocation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("location repository: begin tx %w", err)
	}
	defer tx.Rollback()

	upsertQuery := `
		INSERT INTO user_current_location (user_id, lat, lng, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = NOW()
		RETURNING updated_at
	`
	if err := tx.QueryRowxContext(
		ctx, upsertQuery, loc.UserID, loc.Lat, loc.Lng,
	).Scan(&loc.UpdatedAt); err != nil {
		return fmt.Errorf("location repository: upsert %w", err)
	}

	historyQuery := `
		INSERT INTO user_location_history (user_id, lat, lng, recorded_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := tx.ExecContext(ctx, historyQuery, loc.UserID, loc.Lat, loc.Lng); err != nil {
		return fmt.Errorf("location repository: insert history %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("location repository: commit %w", err)
	}
	return nil
}

// Get возвращает текущую позицию пользователя.
func (r *LocationRepository) Get(ctx context.Context, userID uuid.UUID) (*models.CurrentLocation, error) {
	var loc models.CurrentLocation
	query := `
		SELECT user_id, lat, lng, updated_at
		FROM user_current_location
		WHERE user_id = $1
	`
	if err := r.db.GetContext(ctx, &loc, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("location repository: get %w", err)
	}
	return &loc, nil
}

// ListAll возвращает текущие позиции всех пользователей.
func (r *LocationRepository) ListAll(ctx context.Context) ([]models.CurrentLocation, error) {
	var locations []models.CurrentLocation
	query := `
		SELECT user_id, lat, lng, updated_at
		FROM user_current_location
	`
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("location repository: list all %w", err)
	}
	return locations, nil
}

// ListHistory возвращает журнал перемещений пользователя, начиная с последних записей.
func (r *LocationRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.LocationHistory, error) {
	var history []models.LocationHistory
	query := `
		SELECT id, user_id, lat, lng, recorded_at
		FROM user_location_history
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &history, query, userID, limit); err != nil {
		return nil, fmt.Errorf("location repository: list history %w", err)
	}
	return history, nil
}
