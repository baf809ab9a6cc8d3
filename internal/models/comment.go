package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий пользователя к сообщению об опасности.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	ReportID  int64     `db:"report_id" json:"report_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentWithAuthor дополняет комментарий именем автора для выдачи.
type CommentWithAuthor struct {
	Comment
	AuthorName string `db:"author_name" json:"author_name"`
}
