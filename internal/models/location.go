package models

import (
	"time"

	"github.com/google/uuid"
)

// CurrentLocation хранит последнюю известную позицию пользователя.
// Ровно одна строка на пользователя, каждый upsert полностью заменяет координату.
type CurrentLocation struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Lat       float64   `db:"lat" json:"lat"`
	Lng       float64   `db:"lng" json:"lng"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LocationHistory — append-only журнал позиций пользователя.
type LocationHistory struct {
	ID         int64     `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Lat        float64   `db:"lat" json:"lat"`
	Lng        float64   `db:"lng" json:"lng"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// NearbyUser — результат запроса близости с вычисленной дистанцией.
type NearbyUser struct {
	CurrentLocation
	DistanceKM float64 `json:"distance_km"`
}
