package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification — запись о доставке оповещения пользователю поблизости от опасности.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ReportID  int64     `db:"report_id" json:"report_id"`
	Type      string    `db:"type" json:"type"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ForwardedReport — запись об отправке сообщения об опасности в экстренную службу.
type ForwardedReport struct {
	ID          int64     `db:"id" json:"id"`
	ReportID    int64     `db:"report_id" json:"report_id"`
	Authority   string    `db:"authority" json:"authority"`
	ForwardedAt time.Time `db:"forwarded_at" json:"forwarded_at"`
}
