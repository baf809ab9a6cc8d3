package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/validation"
)

// UserStore описывает зависимости UserService от слоя хранилища.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService отвечает за профили пользователей и административные операции.
type UserService struct {
	repo UserStore
}

// NewUserService создаёт сервис пользователей.
func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// Get возвращает пользователя по идентификатору.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateName меняет имя пользователя. Email, роль и пароль через профиль
// не меняются.
func (s *UserService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.repo.UpdateName(ctx, id, name)
}

// List возвращает всех пользователей (для администратора).
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// Delete удаляет пользователя (для администратора).
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
