package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/classifier"
	"github.com/satraksha/hazard-backend/internal/config"
	"github.com/satraksha/hazard-backend/internal/logger"
	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/repository"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// mockHazardStore реализует HazardStore для тестов.
type mockHazardStore struct {
	hazards map[int64]*models.Hazard
	nextID  int64
}

func newMockHazardStore() *mockHazardStore {
	return &mockHazardStore{hazards: make(map[int64]*models.Hazard)}
}

func (m *mockHazardStore) Create(ctx context.Context, hazard *models.Hazard) error {
	m.nextID++
	hazard.ID = m.nextID
	hazard.CreatedAt = time.Now()
	hazard.UpdatedAt = hazard.CreatedAt
	copied := *hazard
	m.hazards[hazard.ID] = &copied
	return nil
}

func (m *mockHazardStore) GetByID(ctx context.Context, id int64) (*models.Hazard, error) {
	if h, ok := m.hazards[id]; ok {
		return h, nil
	}
	return nil, repository.ErrHazardNotFound
}

func (m *mockHazardStore) ListAll(ctx context.Context) ([]models.Hazard, error) {
	out := make([]models.Hazard, 0, len(m.hazards))
	for _, h := range m.hazards {
		out = append(out, *h)
	}
	return out, nil
}

func (m *mockHazardStore) ListByReporter(ctx context.Context, userID uuid.UUID) ([]models.Hazard, error) {
	var out []models.Hazard
	for _, h := range m.hazards {
		if h.ReportedBy == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockHazardStore) UpdateStatus(ctx context.Context, id int64, status string) (*models.Hazard, error) {
	h, ok := m.hazards[id]
	if !ok {
		return nil, repository.ErrHazardNotFound
	}
	h.Status = status
	h.UpdatedAt = time.Now()
	return h, nil
}

func (m *mockHazardStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.hazards[id]; !ok {
		return repository.ErrHazardNotFound
	}
	delete(m.hazards, id)
	return nil
}

// mockClassifier возвращает фиксированную уверенность.
type mockClassifier struct {
	confidence float64
	calls      int
}

func (m *mockClassifier) Classify(ctx context.Context, image []byte, filename, hazardType string) (*classifier.Result, error) {
	m.calls++
	return &classifier.Result{Label: hazardType, Confidence: m.confidence}, nil
}

// mockBlobStorage хранит объекты в памяти и считает выданные ссылки.
type mockBlobStorage struct {
	objects  map[string][]byte
	urlCalls int
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{objects: make(map[string][]byte)}
}

func (m *mockBlobStorage) Put(ctx context.Context, namespace, filename, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s.jpg", namespace, uuid.NewString())
	m.objects[key] = data
	return key, nil
}

func (m *mockBlobStorage) PresignedURL(ctx context.Context, key string) (string, error) {
	m.urlCalls++
	return fmt.Sprintf("https://blob.local/%s?sig=%d", key, m.urlCalls), nil
}

func (m *mockBlobStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

// mockAlertSender фиксирует отправленные оповещения.
type mockAlertSender struct {
	sent chan *models.Hazard
}

func newMockAlertSender() *mockAlertSender {
	return &mockAlertSender{sent: make(chan *models.Hazard, 4)}
}

func (m *mockAlertSender) SendHazardAlert(hazard *models.Hazard) error {
	m.sent <- hazard
	return nil
}

func (m *mockAlertSender) Recipient() string {
	return "authority@example.com"
}

// mockNearbyNotifier фиксирует рассылки поблизости.
type mockNearbyNotifier struct {
	notified [][]models.NearbyUser
}

func (m *mockNearbyNotifier) NotifyNearby(hazard *models.Hazard, users []models.NearbyUser) error {
	m.notified = append(m.notified, users)
	return nil
}

// mockForwardingStore фиксирует записи о пересылках и уведомлениях.
type mockForwardingStore struct {
	forwarded     chan *models.ForwardedReport
	notifications chan *models.Notification
}

func newMockForwardingStore() *mockForwardingStore {
	return &mockForwardingStore{
		forwarded:     make(chan *models.ForwardedReport, 4),
		notifications: make(chan *models.Notification, 4),
	}
}

func (m *mockForwardingStore) CreateForwarded(ctx context.Context, f *models.ForwardedReport) error {
	f.ID = 1
	f.ForwardedAt = time.Now()
	m.forwarded <- f
	return nil
}

func (m *mockForwardingStore) Create(ctx context.Context, n *models.Notification) error {
	n.ID = 1
	n.CreatedAt = time.Now()
	m.notifications <- n
	return nil
}

type hazardFixture struct {
	svc     *HazardService
	repo    *mockHazardStore
	locRepo *mockLocationRepository
	class   *mockClassifier
	blobs   *mockBlobStorage
	alerts  *mockAlertSender
	nearby  *mockNearbyNotifier
	fwd     *mockForwardingStore
}

func newHazardFixture(confidence float64) *hazardFixture {
	cfg := &config.Config{
		ClassifierThreshold: 0.7,
		VerifiedCategories:  []string{"pothole"},
		AlertCategories:     []string{"accident"},
		NearbyRadiusKM:      2,
		AlertRadiusKM:       8,
	}

	f := &hazardFixture{
		repo:    newMockHazardStore(),
		locRepo: newMockLocationRepository(),
		class:   &mockClassifier{confidence: confidence},
		blobs:   newMockBlobStorage(),
		alerts:  newMockAlertSender(),
		nearby:  &mockNearbyNotifier{},
		fwd:     newMockForwardingStore(),
	}
	locations := NewLocationService(f.locRepo, cfg.NearbyRadiusKM)
	f.svc = NewHazardService(f.repo, locations, f.class, f.blobs, f.alerts, f.nearby, f.fwd, cfg)
	return f
}

func validReport(userID uuid.UUID, hazardType string) ReportInput {
	return ReportInput{
		UserID:      userID,
		Lat:         12.9716,
		Lng:         77.5946,
		HazardType:  hazardType,
		Photo:       []byte{0xFF, 0xD8, 0xFF},
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
	}
}

func TestHazardService_ReportRejectedByClassifier(t *testing.T) {
	f := newHazardFixture(0.5)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole"))
	if err == nil {
		t.Fatalf("отчёт должен быть отклонён")
	}
	if !apperror.IsClassifierRejected(err) {
		t.Fatalf("ожидалась ошибка отклонения классификатором, получили %v", err)
	}

	// Отклонение происходит до любых записей.
	if len(f.repo.hazards) != 0 {
		t.Fatalf("отчёт не должен быть сохранён")
	}
	if len(f.blobs.objects) != 0 {
		t.Fatalf("фото не должно быть сохранено")
	}
	if len(f.locRepo.locations) != 0 {
		t.Fatalf("позиция автора не должна быть обновлена")
	}
}

func TestHazardService_ReportRejectedAtThreshold(t *testing.T) {
	// Уверенность ровно на пороге: принимается только строго выше.
	f := newHazardFixture(0.7)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole"))
	if !apperror.IsClassifierRejected(err) {
		t.Fatalf("уверенность на пороге должна отклоняться, получили %v", err)
	}
}

func TestHazardService_ReportAccepted(t *testing.T) {
	f := newHazardFixture(0.93)
	ctx := context.Background()
	userID := uuid.New()

	hazard, err := f.svc.Report(ctx, validReport(userID, "pothole"))
	if err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	if hazard.ID == 0 {
		t.Fatalf("id должен быть установлен")
	}
	if hazard.Status != models.HazardStatusUnresolved {
		t.Fatalf("статус по умолчанию должен быть unresolved, получили %s", hazard.Status)
	}
	if hazard.Source != models.HazardSourceUser {
		t.Fatalf("источник должен быть user, получили %s", hazard.Source)
	}
	if hazard.PhotoURL == "" {
		t.Fatalf("ссылка на фото должна быть сгенерирована")
	}
	if f.class.calls != 1 {
		t.Fatalf("классификатор должен быть вызван ровно один раз")
	}
	if len(f.blobs.objects) != 1 {
		t.Fatalf("фото должно быть сохранено")
	}

	// Позиция автора обновлена координатами отчёта.
	loc, ok := f.locRepo.locations[userID]
	if !ok {
		t.Fatalf("позиция автора должна быть обновлена")
	}
	if loc.Lat != 12.9716 || loc.Lng != 77.5946 {
		t.Fatalf("позиция автора должна совпадать с точкой отчёта: %+v", loc)
	}

	// pothole не входит в категории оповещения экстренных служб.
	select {
	case <-f.alerts.sent:
		t.Fatalf("оповещение экстренной службы не ожидалось")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHazardService_ReportSkipsVerificationForOtherCategories(t *testing.T) {
	// Для категории вне списка проверки классификатор не вызывается,
	// даже если его уверенность была бы нулевой.
	f := newHazardFixture(0)
	ctx := context.Background()

	if _, err := f.svc.Report(ctx, validReport(uuid.New(), "flood")); err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}
	if f.class.calls != 0 {
		t.Fatalf("классификатор не должен вызываться для категории flood")
	}
}

func TestHazardService_ReportForwardsAlertCategory(t *testing.T) {
	f := newHazardFixture(0.99)
	ctx := context.Background()

	hazard, err := f.svc.Report(ctx, validReport(uuid.New(), "accident"))
	if err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	// Оповещение уходит асинхронно.
	select {
	case sent := <-f.alerts.sent:
		if sent.Lat != hazard.Lat || sent.Lng != hazard.Lng {
			t.Fatalf("оповещение должно содержать координаты отчёта")
		}
		if sent.HazardType != "accident" {
			t.Fatalf("оповещение должно содержать категорию")
		}
	case <-time.After(time.Second):
		t.Fatalf("оповещение экстренной службы не отправлено")
	}

	select {
	case forwarded := <-f.fwd.forwarded:
		if forwarded.ReportID != hazard.ID {
			t.Fatalf("запись о пересылке ссылается не на тот отчёт")
		}
		if forwarded.Authority != "authority@example.com" {
			t.Fatalf("запись о пересылке должна хранить адрес службы")
		}
	case <-time.After(time.Second):
		t.Fatalf("пересылка не зафиксирована в журнале")
	}

	// Повторных оповещений нет.
	select {
	case <-f.alerts.sent:
		t.Fatalf("ожидалось ровно одно оповещение")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHazardService_ReportNotifiesNearbyUsers(t *testing.T) {
	f := newHazardFixture(0.9)
	ctx := context.Background()

	// Пользователь в ~1.57 км от точки отчёта: внутри радиуса рассылки 8 км.
	nearbyUser := uuid.New()
	if err := f.locRepo.Upsert(ctx, &models.CurrentLocation{UserID: nearbyUser, Lat: 12.9857, Lng: 77.5946}); err != nil {
		t.Fatalf("upsert вернул ошибку: %v", err)
	}

	// Пользователь в ~110 км: вне радиуса.
	farUser := uuid.New()
	if err := f.locRepo.Upsert(ctx, &models.CurrentLocation{UserID: farUser, Lat: 13.97, Lng: 77.5946}); err != nil {
		t.Fatalf("upsert вернул ошибку: %v", err)
	}

	if _, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole")); err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	if len(f.nearby.notified) != 1 {
		t.Fatalf("ожидалась одна рассылка, получили %d", len(f.nearby.notified))
	}

	users := f.nearby.notified[0]
	found := false
	for _, u := range users {
		if u.UserID == farUser {
			t.Fatalf("дальний пользователь не должен попасть в рассылку")
		}
		if u.UserID == nearbyUser {
			found = true
		}
	}
	if !found {
		t.Fatalf("ближний пользователь должен попасть в рассылку")
	}
}

func TestHazardService_NearbyInclusiveAndFreshURLs(t *testing.T) {
	f := newHazardFixture(0.9)
	ctx := context.Background()

	if _, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole")); err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	urlCallsBefore := f.blobs.urlCalls

	first, err := f.svc.Nearby(ctx, 12.9716, 77.5946, 2)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("ожидался один отчёт поблизости, получили %d", len(first))
	}
	if first[0].DistanceKM != 0 {
		t.Fatalf("дистанция до точки отчёта должна быть 0")
	}

	second, err := f.svc.Nearby(ctx, 12.9716, 77.5946, 2)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}

	// Ссылка генерируется заново на каждый запрос чтения.
	if f.blobs.urlCalls != urlCallsBefore+2 {
		t.Fatalf("ожидались две генерации ссылок, получили %d", f.blobs.urlCalls-urlCallsBefore)
	}
	if first[0].PhotoURL == second[0].PhotoURL {
		t.Fatalf("ссылки должны отличаться между запросами")
	}

	// Вне радиуса — пустая выдача.
	none, err := f.svc.Nearby(ctx, 13.97, 77.5946, 2)
	if err != nil {
		t.Fatalf("nearby вернул ошибку: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ожидалась пустая выдача, получили %d", len(none))
	}
}

func TestHazardService_UpdateStatus(t *testing.T) {
	f := newHazardFixture(0.9)
	ctx := context.Background()

	hazard, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole"))
	if err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, hazard.ID, "unknown"); err == nil {
		t.Fatalf("неизвестный статус должен быть отклонён")
	}

	updated, err := f.svc.UpdateStatus(ctx, hazard.ID, models.HazardStatusResolved)
	if err != nil {
		t.Fatalf("update status вернул ошибку: %v", err)
	}
	if updated.Status != models.HazardStatusResolved {
		t.Fatalf("статус должен быть resolved, получили %s", updated.Status)
	}

	// Переходы не ограничены: resolved можно вернуть в unresolved.
	reopened, err := f.svc.UpdateStatus(ctx, hazard.ID, models.HazardStatusUnresolved)
	if err != nil {
		t.Fatalf("повторная смена статуса вернула ошибку: %v", err)
	}
	if reopened.Status != models.HazardStatusUnresolved {
		t.Fatalf("статус должен быть unresolved, получили %s", reopened.Status)
	}
}

func TestHazardService_DeleteRemovesBlob(t *testing.T) {
	f := newHazardFixture(0.9)
	ctx := context.Background()

	hazard, err := f.svc.Report(ctx, validReport(uuid.New(), "pothole"))
	if err != nil {
		t.Fatalf("report вернул ошибку: %v", err)
	}

	if err := f.svc.Delete(ctx, hazard.ID); err != nil {
		t.Fatalf("delete вернул ошибку: %v", err)
	}

	if len(f.repo.hazards) != 0 {
		t.Fatalf("отчёт должен быть удалён")
	}
	if len(f.blobs.objects) != 0 {
		t.Fatalf("фото должно быть удалено из хранилища")
	}
}
