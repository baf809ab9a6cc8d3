package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/classifier"
	"github.com/satraksha/hazard-backend/internal/config"
	"github.com/satraksha/hazard-backend/internal/geo"
	"github.com/satraksha/hazard-backend/internal/goroutine"
	"github.com/satraksha/hazard-backend/internal/logger"
	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/storage"
	"github.com/satraksha/hazard-backend/internal/validation"
)

// HazardStore описывает зависимости HazardService от слоя хранилища.
type HazardStore interface {
	Create(ctx context.Context, hazard *models.Hazard) error
	GetByID(ctx context.Context, id int64) (*models.Hazard, error)
	ListAll(ctx context.Context) ([]models.Hazard, error)
	ListByReporter(ctx context.Context, userID uuid.UUID) ([]models.Hazard, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Hazard, error)
	Delete(ctx context.Context, id int64) error
}

// ImageClassifier проверяет, что на фото действительно заявленная опасность.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte, filename, hazardType string) (*classifier.Result, error)
}

// AlertSender отправляет срочные оповещения в экстренные службы.
type AlertSender interface {
	SendHazardAlert(hazard *models.Hazard) error
	Recipient() string
}

// NearbyNotifier рассылает оповещения пользователям поблизости от опасности.
type NearbyNotifier interface {
	NotifyNearby(hazard *models.Hazard, users []models.NearbyUser) error
}

// ForwardingStore фиксирует пересылки отчётов в экстренные службы.
type ForwardingStore interface {
	CreateForwarded(ctx context.Context, forwarded *models.ForwardedReport) error
	Create(ctx context.Context, notification *models.Notification) error
}

// HazardService реализует конвейер приёма отчётов об опасности:
// валидация, проверка фото классификатором, сохранение снимка,
// запись в БД, обновление позиции автора и рассылка оповещений.
type HazardService struct {
	repo      HazardStore
	locations *LocationService
	class     ImageClassifier
	blobs     storage.BlobStorage
	alerts    AlertSender
	nearby    NearbyNotifier
	forwards  ForwardingStore
	cfg       *config.Config
}

// ReportInput содержит данные нового отчёта об опасности.
type ReportInput struct {
	UserID      uuid.UUID
	Lat         float64
	Lng         float64
	HazardType  string
	Description *string
	Photo       []byte
	Filename    string
	ContentType string
}

// NewHazardService создаёт сервис отчётов об опасности.
func NewHazardService(
	repo HazardStore,
	locations *LocationService,
	class ImageClassifier,
	blobs storage.BlobStorage,
	alerts AlertSender,
	nearby NearbyNotifier,
	forwards ForwardingStore,
	cfg *config.Config,
) *HazardService {
	return &HazardService{
		repo:      repo,
		locations: locations,
		class:     class,
		blobs:     blobs,
		alerts:    alerts,
		nearby:    nearby,
		forwards:  forwards,
		cfg:       cfg,
	}
}

// Report принимает новый отчёт об опасности.
// Если категория требует визуальной проверки и классификатор не уверен,
// отчёт отклоняется целиком: ни фото, ни запись в БД не сохраняются.
func (s *HazardService) Report(ctx context.Context, in ReportInput) (*models.HazardRead, error) {
	if err := validation.ValidateCoordinate(in.Lat, in.Lng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateHazardType(in.HazardType); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if len(in.Photo) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "фото обязательно")
	}

	// Проверка классификатором до любых записей.
	if s.cfg.RequiresVerification(in.HazardType) {
		result, err := s.class.Classify(ctx, in.Photo, in.Filename, in.HazardType)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "сервис проверки фото недоступен")
		}
		// Принимаем только строго выше порога.
		if result.Confidence <= s.cfg.ClassifierThreshold {
			return nil, apperror.New(apperror.ErrCodeClassifierRejected,
				fmt.Sprintf("фото не прошло проверку: уверенность %.2f", result.Confidence))
		}
	}

	key, err := s.blobs.Put(ctx, "hazards", in.Filename, in.ContentType, in.Photo)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить фото")
	}

	hazard := &models.Hazard{
		Lat:         in.Lat,
		Lng:         in.Lng,
		HazardType:  in.HazardType,
		Description: in.Description,
		PhotoKey:    key,
		Status:      models.HazardStatusUnresolved,
		Source:      models.HazardSourceUser,
		ReportedBy:  in.UserID,
	}

	if err := s.repo.Create(ctx, hazard); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить отчёт")
	}

	// Автор отчёта находится в точке опасности: обновляем его позицию.
	if _, err := s.locations.Update(ctx, in.UserID, in.Lat, in.Lng); err != nil {
		logger.Log.Errorf("hazard service: не удалось обновить позицию автора: %v", err)
	}

	// Срочные категории уходят в экстренную службу асинхронно:
	// ответ клиенту не ждёт SMTP.
	if s.cfg.RequiresAlert(hazard.HazardType) {
		s.forwardToAuthority(hazard)
	}

	s.notifyNearbyUsers(ctx, hazard)

	url, err := s.blobs.PresignedURL(ctx, hazard.PhotoKey)
	if err != nil {
		logger.Log.Errorf("hazard service: не удалось сгенерировать ссылку на фото: %v", err)
		url = ""
	}

	return &models.HazardRead{Hazard: *hazard, PhotoURL: url}, nil
}

// forwardToAuthority отправляет письмо в экстренную службу и фиксирует факт пересылки.
func (s *HazardService) forwardToAuthority(hazard *models.Hazard) {
	h := *hazard
	goroutine.SafeGo(func() {
		ctx := context.Background()

		if err := s.alerts.SendHazardAlert(&h); err != nil {
			logger.Log.Errorf("hazard service: не удалось отправить оповещение: %v", err)
			return
		}

		forwarded := &models.ForwardedReport{
			ReportID:  h.ID,
			Authority: s.alerts.Recipient(),
		}
		if err := s.forwards.CreateForwarded(ctx, forwarded); err != nil {
			logger.Log.Errorf("hazard service: не удалось записать пересылку: %v", err)
		}

		notification := &models.Notification{
			UserID:   h.ReportedBy,
			ReportID: h.ID,
			Type:     models.NotificationTypeEmail,
			Status:   models.NotificationStatusSent,
		}
		if err := s.forwards.Create(ctx, notification); err != nil {
			logger.Log.Errorf("hazard service: не удалось записать уведомление: %v", err)
		}
	})
}

// notifyNearbyUsers рассылает оповещение пользователям в радиусе рассылки.
func (s *HazardService) notifyNearbyUsers(ctx context.Context, hazard *models.Hazard) {
	users, err := s.locations.Nearby(ctx, hazard.Lat, hazard.Lng, s.cfg.AlertRadiusKM)
	if err != nil {
		logger.Log.Errorf("hazard service: не удалось найти пользователей поблизости: %v", err)
		return
	}
	if len(users) == 0 {
		return
	}
	if err := s.nearby.NotifyNearby(hazard, users); err != nil {
		logger.Log.Errorf("hazard service: не удалось разослать оповещения: %v", err)
	}
}

// GetByID возвращает отчёт со свежей ссылкой на фото.
func (s *HazardService) GetByID(ctx context.Context, id int64) (*models.HazardRead, error) {
	hazard, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURL(ctx, hazard), nil
}

// List возвращает все отчёты со свежими ссылками на фото.
func (s *HazardService) List(ctx context.Context) ([]models.HazardRead, error) {
	hazards, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURLs(ctx, hazards), nil
}

// ListMine возвращает отчёты конкретного пользователя.
func (s *HazardService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.HazardRead, error) {
	hazards, err := s.repo.ListByReporter(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURLs(ctx, hazards), nil
}

// Nearby возвращает отчёты в радиусе от точки, с вычисленной дистанцией.
// Граница включается.
func (s *HazardService) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]models.HazardWithDistance, error) {
	if err := validation.ValidateCoordinate(lat, lng); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if radiusKM <= 0 {
		radiusKM = s.cfg.NearbyRadiusKM
	}
	if err := validation.ValidateRadius(radiusKM); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	hazards, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.HazardWithDistance, 0)
	for i := range hazards {
		distance := geo.Distance(lat, lng, hazards[i].Lat, hazards[i].Lng)
		if distance <= radiusKM {
			result = append(result, models.HazardWithDistance{
				HazardRead: *s.withPhotoURL(ctx, &hazards[i]),
				DistanceKM: distance,
			})
		}
	}

	return result, nil
}

// UpdateStatus меняет статус отчёта. Переходы между статусами не ограничены.
func (s *HazardService) UpdateStatus(ctx context.Context, id int64, status string) (*models.HazardRead, error) {
	if _, ok := models.ValidHazardStatuses[status]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный статус %q", status))
	}

	hazard, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return s.withPhotoURL(ctx, hazard), nil
}

// Delete удаляет отчёт и пытается удалить фото из хранилища.
// Ошибка удаления фото не считается фатальной: запись уже удалена.
func (s *HazardService) Delete(ctx context.Context, id int64) error {
	hazard, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, hazard.PhotoKey); err != nil {
		logger.Log.Errorf("hazard service: не удалось удалить фото %s: %v", hazard.PhotoKey, err)
	}
	return nil
}

// withPhotoURL прикладывает свежую presigned ссылку к записи.
func (s *HazardService) withPhotoURL(ctx context.Context, hazard *models.Hazard) *models.HazardRead {
	url, err := s.blobs.PresignedURL(ctx, hazard.PhotoKey)
	if err != nil {
		logger.Log.Errorf("hazard service: не удалось сгенерировать ссылку на фото %s: %v", hazard.PhotoKey, err)
		url = ""
	}
	return &models.HazardRead{Hazard: *hazard, PhotoURL: url}
}

// withPhotoURLs прикладывает ссылки ко всем записям списка.
func (s *HazardService) withPhotoURLs(ctx context.Context, hazards []models.Hazard) []models.HazardRead {
	out := make([]models.HazardRead, 0, len(hazards))
	for i := range hazards {
		out = append(out, *s.withPhotoURL(ctx, &hazards[i]))
	}
	return out
}
