package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/goroutine"
	"github.com/satraksha/hazard-backend/internal/logger"
	"github.com/satraksha/hazard-backend/internal/models"
)

// NotificationSaver интерфейс для сохранения уведомлений в БД.
type NotificationSaver interface {
	SaveDelivered(ctx context.Context, userID uuid.UUID, reportID int64) error
}

// Hub управляет всеми WebSocket клиентами и рассылает оповещения
// о новых опасностях пользователям поблизости.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	saver      NotificationSaver
	ctx        context.Context
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		ctx:        ctx,
	}
}

// SetNotificationSaver устанавливает сервис для журналирования уведомлений.
func (h *Hub) SetNotificationSaver(saver NotificationSaver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saver = saver
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// hazardAlert полезная нагрузка оповещения о новой опасности.
type hazardAlert struct {
	ReportID   int64   `json:"report_id"`
	HazardType string  `json:"hazard_type"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKM float64 `json:"distance_km"`
}

// NotifyNearby рассылает оповещение о новой опасности указанным пользователям
// и журналирует каждое уведомление в БД.
func (h *Hub) NotifyNearby(hazard *models.Hazard, users []models.NearbyUser) error {
	for _, user := range users {
		// Автор отчёта и так знает о проблеме.
		if user.UserID == hazard.ReportedBy {
			continue
		}

		payload := map[string]any{
			"type": "hazard_alert",
			"data": hazardAlert{
				ReportID:   hazard.ID,
				HazardType: hazard.HazardType,
				Lat:        hazard.Lat,
				Lng:        hazard.Lng,
				DistanceKM: user.DistanceKM,
			},
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
		}

		h.mu.RLock()
		saver := h.saver
		ctx := h.ctx
		h.mu.RUnlock()

		if saver != nil {
			userID := user.UserID
			// Журналируем асинхронно, чтобы не блокировать рассылку.
			goroutine.SafeGo(func() {
				if err := saver.SaveDelivered(ctx, userID, hazard.ID); err != nil {
					logger.Log.Errorf("ws: не удалось сохранить уведомление: %v", err)
				}
			})
		}

		h.broadcast <- message{userID: user.UserID, payload: raw}
	}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			goroutine.SafeGo(client.Close)
		}
	}
}
