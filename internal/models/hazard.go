package models

import (
	"time"

	"github.com/google/uuid"
)

// Hazard описывает пользовательское сообщение об опасности на дороге.
// PhotoKey хранит только непрозрачный ключ объекта в blob-хранилище;
// публичная ссылка генерируется заново при каждом чтении.
type Hazard struct {
	ID          int64     `db:"id" json:"id"`
	Lat         float64   `db:"lat" json:"lat"`
	Lng         float64   `db:"lng" json:"lng"`
	HazardType  string    `db:"hazard_type" json:"hazard_type"`
	Description *string   `db:"description" json:"description,omitempty"`
	PhotoKey    string    `db:"photo_key" json:"-"`
	Status      string    `db:"status" json:"status"`
	Source      string    `db:"source" json:"source"`
	ReportedBy  uuid.UUID `db:"reported_by" json:"reported_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HazardRead — запись опасности для выдачи клиенту со свежей presigned ссылкой.
type HazardRead struct {
	Hazard
	PhotoURL string `json:"photo_url"`
}

// HazardWithDistance дополняет запись вычисленной дистанцией до точки запроса.
type HazardWithDistance struct {
	HazardRead
	DistanceKM float64 `json:"distance_km"`
}
