package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/repository"
)

// VoteStore описывает зависимости VoteService от слоя хранилища.
type VoteStore interface {
	GetByUserAndReport(ctx context.Context, userID uuid.UUID, reportID int64) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	UpdateType(ctx context.Context, id int64, voteType string) error
	Delete(ctx context.Context, id int64) error
	CountByReport(ctx context.Context, reportID int64) (upvotes, downvotes int, err error)
}

// VoteChecker проверяет существование отчёта перед голосованием.
type VoteChecker interface {
	GetByID(ctx context.Context, id int64) (*models.Hazard, error)
}

// VoteResult — итог голосования с актуальными счётчиками.
type VoteResult struct {
	Action    string `json:"action"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

// VoteService реализует голосование-переключатель: повторный голос того же
// типа снимает голос, голос другого типа заменяет предыдущий.
type VoteService struct {
	repo    VoteStore
	hazards VoteChecker
}

// NewVoteService создаёт сервис голосования.
func NewVoteService(repo VoteStore, hazards VoteChecker) *VoteService {
	return &VoteService{
		repo:    repo,
		hazards: hazards,
	}
}

// Vote обрабатывает голос пользователя по отчёту.
func (s *VoteService) Vote(ctx context.Context, userID uuid.UUID, reportID int64, voteType string) (*VoteResult, error) {
	if _, ok := models.ValidVoteTypes[voteType]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный тип голоса %q", voteType))
	}

	if _, err := s.hazards.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndReport(ctx, userID, reportID)
	action := ""

	switch {
	case errors.Is(err, repository.ErrVoteNotFound):
		vote := &models.Vote{
			UserID:   userID,
			ReportID: reportID,
			VoteType: voteType,
		}
		if err := s.repo.Create(ctx, vote); err != nil {
			return nil, err
		}
		action = "created"
	case err != nil:
		return nil, err
	case existing.VoteType == voteType:
		// Тот же тип — голос снимается.
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		action = "removed"
	default:
		// Другой тип — голос заменяется.
		if err := s.repo.UpdateType(ctx, existing.ID, voteType); err != nil {
			return nil, err
		}
		action = "updated"
	}

	upvotes, downvotes, err := s.repo.CountByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{
		Action:    action,
		Upvotes:   upvotes,
		Downvotes: downvotes,
	}, nil
}

// Counts возвращает счётчики голосов по отчёту.
func (s *VoteService) Counts(ctx context.Context, reportID int64) (*VoteResult, error) {
	if _, err := s.hazards.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	upvotes, downvotes, err := s.repo.CountByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{
		Upvotes:   upvotes,
		Downvotes: downvotes,
	}, nil
}
