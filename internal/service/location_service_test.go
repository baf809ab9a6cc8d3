package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/repository"
)

// mockLocationRepository реализует LocationRepository для тестов.
type mockLocationRepository struct {
	locations map[uuid.UUID]*models.CurrentLocation
	history   []models.LocationHistory
}

func newMockLocationRepository() *mockLocationRepository {
	return &mockLocationRepository{
		locations: make(map[uuid.UUID]*models.CurrentLocation),
	}
}

func (m *mockLocationRepository) Upsert(ctx context.Context, loc *models.CurrentLocation) error {
	loc.UpdatedAt = time.Now()
	copied := *loc
	m.locations[loc.UserID] = &copied
	m.history = append(m.history, models.LocationHistory{
		ID:         int64(len(m.history) + 1),
		UserID:     loc.UserID,
		Lat:        loc.Lat,
		Lng:        loc.Lng,
		RecordedAt: loc.UpdatedAt,
	})
	return nil
}

func (m *mockLocationRepository) Get(ctx context.Context, userID uuid.UUID) (*models.CurrentLocation, error) {
	if loc, ok := m.locations[userID]; ok {
		return loc, nil
	}
	return nil, repository.ErrLocationNotFound
}

func (m *mockLocationRepository) ListAll(ctx context.Context) ([]models.CurrentLocation, error) {
	out := make([]models.CurrentLocation, 0, len(m.locations))
	for _, loc := range m.locations {
		out = append(out, *loc)
	}
	return out, nil
}

func (m *mockLocationRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.LocationHistory, error) {
	var out []models.LocationHistory
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if m.history[i].UserID == userID {
			out = append(out, m.history[i])
		}
	}
	return out, nil
}

func TestLocationService_UpdateReplacesCurrent(t *testing.T) {
	repo := newMockLocationRepository()
	svc := NewLocationService(repo, 2)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Update(ctx, userID, 12.97, 77.59)
	if err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}
	second, err := svc.Update(ctx, userID, 13.00, 77.60)
	if err != nil {
		t.Fatalf("повторный update вернул ошибку: %v", err)
	}

	// Метка времени отражает более поздний вызов.
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("updated_at второго вызова раньше первого: %v < %v", second.UpdatedAt, first.UpdatedAt)
	}

	// Текущая позиция одна и содержит последние координаты.
	if len(repo.locations) != 1 {
		t.Fatalf("ожидалась одна текущая позиция, получили %d", len(repo.locations))
	}
	loc, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get вернул ошибку: %v", err)
	}
	if loc.Lat != 13.00 || loc.Lng != 77.60 {
		t.Fatalf("текущая позиция не заменена: %+v", loc)
	}

	// Журнал хранит обе записи.
	if len(repo.history) != 2 {
		t.Fatalf("ожидались две записи в журнале, получили %d", len(repo.history))
	}
}

func TestLocationService_UpdateRejectsInvalidCoordinates(t *testing.T) {
	svc := NewLocationService(newMockLocationRepository(), 2)
	ctx := context.Background()

	// Ошибки координат — это ошибки валидации: клиент должен получить 4xx, а не 500.
	_, err := svc.Update(ctx, uuid.New(), 91, 0)
	if err == nil {
		t.Fatalf("широта 91 должна быть отклонена")
	}
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили: %v", err)
	}

	_, err = svc.Update(ctx, uuid.New(), 0, -181)
	if err == nil {
		t.Fatalf("долгота -181 должна быть отклонена")
	}
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили: %v", err)
	}
}

func TestLocationService_NearbyRejectsInvalidCoordinates(t *testing.T) {
	svc := NewLocationService(newMockLocationRepository(), 2)

	_, err := svc.Nearby(context.Background(), 91, 0, 2)
	if err == nil {
		t.Fatalf("широта 91 должна быть отклонена")
	}
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили: %v", err)
	}

	_, err = svc.Nearby(context.Background(), 0, 0, 900)
	if err == nil {
		t.Fatalf("радиус 900 должен быть отклонён")
	}
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили: %v", err)
	}
}

func TestLocationService_NearbyInclusiveBoundary(t *testing.T) {
	repo := newMockLocationRepository()
	svc := NewLocationService(repo, 2)
	ctx := context.Background()

	center := struct{ lat, lng float64 }{12.9716, 77.5946}

	// ~1.57 км от центра: внутри радиуса 2 км.
	inside := uuid.New()
	if _, err := svc.Update(ctx, inside, 12.9857, center.lng); err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}

	// ~5 км от центра: вне радиуса 2 км.
	outside := uuid.New()
	if _, err := svc.Update(ctx, outside, 13.0166, center.lng); err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}

	users, err := svc.Nearby(ctx, center.lat, center.lng, 2)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("ожидался один пользователь поблизости, получили %d", len(users))
	}
	if users[0].UserID != inside {
		t.Fatalf("в выдаче не тот пользователь")
	}
	if users[0].DistanceKM <= 0 || users[0].DistanceKM > 2 {
		t.Fatalf("дистанция должна быть в (0, 2], получили %f", users[0].DistanceKM)
	}
}

func TestLocationService_NearbyUsesDefaultRadius(t *testing.T) {
	repo := newMockLocationRepository()
	svc := NewLocationService(repo, 2)
	ctx := context.Background()

	far := uuid.New()
	// ~5 км от центра.
	if _, err := svc.Update(ctx, far, 13.0166, 77.5946); err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}

	// Радиус не указан: используется дефолтный (2 км), дальняя точка не попадает.
	users, err := svc.Nearby(ctx, 12.9716, 77.5946, 0)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("ожидалась пустая выдача, получили %d", len(users))
	}

	// С радиусом 6 км точка попадает.
	users, err = svc.Nearby(ctx, 12.9716, 77.5946, 6)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("ожидался один пользователь, получили %d", len(users))
	}
}
