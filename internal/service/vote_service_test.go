package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/models"
	"github.com/satraksha/hazard-backend/internal/repository"
)

// mockVoteStore реализует VoteStore для тестов.
type mockVoteStore struct {
	votes  map[int64]*models.Vote
	nextID int64
}

func newMockVoteStore() *mockVoteStore {
	return &mockVoteStore{votes: make(map[int64]*models.Vote)}
}

func (m *mockVoteStore) GetByUserAndReport(ctx context.Context, userID uuid.UUID, reportID int64) (*models.Vote, error) {
	for _, v := range m.votes {
		if v.UserID == userID && v.ReportID == reportID {
			return v, nil
		}
	}
	return nil, repository.ErrVoteNotFound
}

func (m *mockVoteStore) Create(ctx context.Context, vote *models.Vote) error {
	m.nextID++
	vote.ID = m.nextID
	vote.CreatedAt = time.Now()
	copied := *vote
	m.votes[vote.ID] = &copied
	return nil
}

func (m *mockVoteStore) UpdateType(ctx context.Context, id int64, voteType string) error {
	v, ok := m.votes[id]
	if !ok {
		return repository.ErrVoteNotFound
	}
	v.VoteType = voteType
	return nil
}

func (m *mockVoteStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.votes[id]; !ok {
		return repository.ErrVoteNotFound
	}
	delete(m.votes, id)
	return nil
}

func (m *mockVoteStore) CountByReport(ctx context.Context, reportID int64) (int, int, error) {
	up, down := 0, 0
	for _, v := range m.votes {
		if v.ReportID != reportID {
			continue
		}
		if v.VoteType == models.VoteTypeUp {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}

func newVoteFixture(t *testing.T) (*VoteService, *mockVoteStore, int64) {
	t.Helper()

	hazards := newMockHazardStore()
	hazard := &models.Hazard{
		Lat: 1, Lng: 1,
		HazardType: "pothole",
		Status:     models.HazardStatusUnresolved,
		Source:     models.HazardSourceUser,
		ReportedBy: uuid.New(),
	}
	if err := hazards.Create(context.Background(), hazard); err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	store := newMockVoteStore()
	return NewVoteService(store, hazards), store, hazard.ID
}

func TestVoteService_Toggle(t *testing.T) {
	svc, store, reportID := newVoteFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	// Первый голос создаётся.
	res, err := svc.Vote(ctx, userID, reportID, models.VoteTypeUp)
	if err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}
	if res.Action != "created" || res.Upvotes != 1 || res.Downvotes != 0 {
		t.Fatalf("неожиданный результат: %+v", res)
	}

	// Тот же тип — голос снимается.
	res, err = svc.Vote(ctx, userID, reportID, models.VoteTypeUp)
	if err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}
	if res.Action != "removed" || res.Upvotes != 0 {
		t.Fatalf("повторный голос должен сниматься: %+v", res)
	}
	if len(store.votes) != 0 {
		t.Fatalf("голос должен быть удалён из хранилища")
	}

	// Другой тип — голос заменяется.
	if _, err := svc.Vote(ctx, userID, reportID, models.VoteTypeUp); err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}
	res, err = svc.Vote(ctx, userID, reportID, models.VoteTypeDown)
	if err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}
	if res.Action != "updated" || res.Upvotes != 0 || res.Downvotes != 1 {
		t.Fatalf("голос должен быть заменён: %+v", res)
	}
	if len(store.votes) != 1 {
		t.Fatalf("в хранилище должен остаться один голос")
	}
}

func TestVoteService_RejectsUnknownType(t *testing.T) {
	svc, _, reportID := newVoteFixture(t)

	if _, err := svc.Vote(context.Background(), uuid.New(), reportID, "like"); err == nil {
		t.Fatalf("неизвестный тип голоса должен быть отклонён")
	}
}

func TestVoteService_RejectsMissingReport(t *testing.T) {
	svc, _, _ := newVoteFixture(t)

	if _, err := svc.Vote(context.Background(), uuid.New(), 999, models.VoteTypeUp); err == nil {
		t.Fatalf("голос по несуществующему отчёту должен быть отклонён")
	}
}

func TestVoteService_IndependentUsers(t *testing.T) {
	svc, _, reportID := newVoteFixture(t)
	ctx := context.Background()

	if _, err := svc.Vote(ctx, uuid.New(), reportID, models.VoteTypeUp); err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}
	res, err := svc.Vote(ctx, uuid.New(), reportID, models.VoteTypeUp)
	if err != nil {
		t.Fatalf("vote вернул ошибку: %v", err)
	}

	if res.Upvotes != 2 {
		t.Fatalf("голоса разных пользователей независимы, ожидали 2, получили %d", res.Upvotes)
	}
}
