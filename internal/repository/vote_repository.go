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

// ErrVoteNotFound возвращается, когда голос не найден.
var ErrVoteNotFound = errors.New("vote not found")

// VoteRepository отвечает за работу с таблицей votes.
type VoteRepository struct {
	db *sqlx.DB
}

// NewVoteRepository создаёт экземпляр репозитория.
func NewVoteRepository(db *sqlx.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// GetByUserAndReport возвращает голос пользователя по конкретному отчёту.
func (r *VoteRepository) GetByUserAndReport(ctx context.Context, userID uuid.UUID, reportID int64) (*models.Vote, error) {
	var vote models.Vote
	query := `
		SELECT id, user_id, report_id, vote_type, created_at
		FROM votes
		WHERE user_id = $1 AND report_id = $2
	`
	if err := r.db.GetContext(ctx, &vote, query, userID, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVoteNotFound
		}
		return nil, fmt.Errorf("vote repository: get by user and report %w", err)
	}
	return &vote, nil
}

// Create создаёт голос. UNIQUE (user_id, report_id) гарантирует не более
// одного голоса на пару пользователь-отчёт.
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (user_id, report_id, vote_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, vote.UserID, vote.ReportID, vote.VoteType,
	).Scan(&vote.ID, &vote.CreatedAt); err != nil {
		return fmt.Errorf("vote repository: create %w", err)
	}
	return nil
}

// UpdateType меняет тип существующего голоса.
func (r *VoteRepository) UpdateType(ctx context.Context, id int64, voteType string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE votes SET vote_type = $2 WHERE id = $1`, id, voteType)
	if err != nil {
		return fmt.Errorf("vote repository: update type %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// Delete удаляет голос.
func (r *VoteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vote repository: delete %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// CountByReport возвращает количество голосов за и против по отчёту.
func (r *VoteRepository) CountByReport(ctx context.Context, reportID int64) (upvotes, downvotes int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE vote_type = $2) AS upvotes,
			COUNT(*) FILTER (WHERE vote_type = $3) AS downvotes
		FROM votes
		WHERE report_id = $1
	`
	if err := r.db.QueryRowxContext(
		ctx, query, reportID, models.VoteTypeUp, models.VoteTypeDown,
	).Scan(&upvotes, &downvotes); err != nil {
		return 0, 0, fmt.Errorf("vote repository: count by report %w", err)
	}
	return upvotes, downvotes, nil
}
