package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/satraksha/hazard-backend/internal/models"
)

// CommentRepository отвечает за работу с таблицей comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository создаёт экземпляр репозитория.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create создаёт комментарий к отчёту.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (report_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, comment.ReportID, comment.UserID, comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("comment repository: create %w", err)
	}
	return nil
}

// ListByReport возвращает комментарии отчёта вместе с именами авторов,
// в хронологическом порядке.
func (r *CommentRepository) ListByReport(ctx context.Context, reportID int64) ([]models.CommentWithAuthor, error) {
	var comments []models.CommentWithAuthor
	query := `
		SELECT c.id, c.report_id, c.user_id, c.text, c.created_at,
		       u.name AS author_name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.report_id = $1
		ORDER BY c.created_at ASC
	`
	if err := r.db.SelectContext(ctx, &comments, query, reportID); err != nil {
		return nil, fmt.Errorf("comment repository: list by report %w", err)
	}
	return comments, nil
}
