package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/validation"
)

// CommentStore описывает зависимости CommentService от слоя хранилища.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByReport(ctx context.Context, reportID int64) ([]models.CommentWithAuthor, error)
}

// CommentService отвечает за комментарии к отчётам об опасности.
type CommentService struct {
	repo    CommentStore
	hazards VoteChecker
}

// NewCommentService создаёт сервис комментариев.
func NewCommentService(repo CommentStore, hazards VoteChecker) *CommentService {
	return &CommentService{
		repo:    repo,
		hazards: hazards,
	}
}

// Add добавляет комментарий к отчёту.
func (s *CommentService) Add(ctx context.Context, userID uuid.UUID, reportID int64, text string) (*models.Comment, error) {
	if err := validation.ValidateCommentText(text); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.hazards.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReportID: reportID,
		UserID:   userID,
		Text:     strings.TrimSpace(text),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List возвращает комментарии отчёта с именами авторов.
func (s *CommentService) List(ctx context.Context, reportID int64) ([]models.CommentWithAuthor, error) {
	if _, err := s.hazards.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListByReport(ctx, reportID)
}
