package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote — голос пользователя по конкретному сообщению об опасности.
// Уникален по паре (user_id, report_id).
type Vote struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ReportID  int64     `db:"report_id" json:"report_id"`
	VoteType  string    `db:"vote_type" json:"vote_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
