package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/geo"
	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/validation"
)

// LocationRepository описывает зависимости LocationService от слоя хранилища.
type LocationRepository interface {
	Upsert(ctx context.Context, loc *models.CurrentLocation) error
	Get(ctx context.Context, userID uuid.UUID) (*models.CurrentLocation, error)
	ListAll(ctx context.Context) ([]models.CurrentLocation, error)
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.LocationHistory, error)
}

// LocationService отвечает за текущие позиции пользователей и запросы близости.
type LocationService struct {
	repo            LocationRepository
	defaultRadiusKM float64
}

// NewLocationService создаёт сервис местоположений.
func NewLocationService(repo LocationRepository, defaultRadiusKM float64) *LocationService {
	return &LocationService{
		repo:            repo,
		defaultRadiusKM: defaultRadiusKM,
	}
}

// Update заменяет текущую позицию пользователя. Повторный вызов с теми же
// координатами безопасен: строка просто перезаписывается.
func (s *LocationService) Update(ctx context.Context, userID uuid.UUID, lat, lng float64) (*models.CurrentLocation, error) {
	if err := validation.ValidateCoordinate(lat, lng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	loc := &models.CurrentLocation{
		UserID: userID,
		Lat:    lat,
		Lng:    lng,
	}
	if err := s.repo.Upsert(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// Get возвращает текущую позицию пользователя.
func (s *LocationService) Get(ctx context.Context, userID uuid.UUID) (*models.CurrentLocation, error) {
	return s.repo.Get(ctx, userID)
}

// History возвращает журнал перемещений пользователя.
func (s *LocationService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.LocationHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListHistory(ctx, userID, limit)
}

// Nearby возвращает пользователей в заданном радиусе от точки.
// Граница включается: дистанция ровно в радиус попадает в выдачу.
func (s *LocationService) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]models.NearbyUser, error) {
	if err := validation.ValidateCoordinate(lat, lng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if radiusKM <= 0 {
		radiusKM = s.defaultRadiusKM
	}
	if err := validation.ValidateRadius(radiusKM); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	locations, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.NearbyUser, 0)
	for _, loc := range locations {
		distance := geo.Distance(lat, lng, loc.Lat, loc.Lng)
		if distance <= radiusKM {
			nearby = append(nearby, models.NearbyUser{
				CurrentLocation: loc,
				DistanceKM:      distance,
			})
		}
	}

	return nearby, nil
}
