package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123",
	})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}
	if res.User.Role != models.RoleUser {
		t.Fatalf("роль по умолчанию должна быть user")
	}

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "test@example.com",
		Password: "Password123",
	})
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}

	if loginRes.TokenPair.AccessToken == "" {
		t.Fatalf("ожидался access токен")
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	in := RegisterInput{Name: "Test User", Email: "dup@example.com", Password: "Password123"}

	if _, err := service.Register(ctx, in); err != nil {
		t.Fatalf("первая регистрация вернула ошибку: %v", err)
	}
	if _, err := service.Register(ctx, in); err == nil {
		t.Fatalf("повторная регистрация должна быть отклонена")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterInput{
		Name: "Test User", Email: "user@example.com", Password: "Password123",
	}); err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if _, err := service.Login(ctx, LoginInput{Email: "user@example.com", Password: "Wrong1234"}); err == nil {
		t.Fatalf("неверный пароль должен быть отклонён")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Name: "Test User", Email: "refresh@example.com", Password: "Password123",
	})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	newPair, err := service.Refresh(ctx, res.TokenPair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}

	if newPair.AccessToken == "" {
		t.Fatalf("ожидался новый access токен")
	}

	// Токены подписаны разными секретами: access не проходит как refresh.
	if _, err := service.Refresh(ctx, res.TokenPair.AccessToken); err == nil {
		t.Fatalf("access токен не должен приниматься как refresh")
	}
}
