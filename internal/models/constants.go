package models

// HazardStatus константы статусов опасности
const (
	HazardStatusUnresolved = "unresolved"
	HazardStatusInProgress = "in_progress"
	HazardStatusResolved   = "resolved"
	HazardStatusRejected   = "rejected"
)

// HazardSource константы источников записи
const (
	HazardSourceUser = "user"
)

// VoteType константы типов голосов
const (
	VoteTypeUp   = "upvote"
	VoteTypeDown = "downvote"
)

// Role константы ролей пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NotificationType константы каналов оповещения
const (
	NotificationTypeWebSocket = "websocket"
	NotificationTypeEmail     = "email"
)

// NotificationStatus константы статусов доставки
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
)

// ValidHazardStatuses список валидных статусов опасности.
// Переходы не ограничены: любой статус может смениться на любой другой.
var ValidHazardStatuses = map[string]struct{}{
	HazardStatusUnresolved: {},
	HazardStatusInProgress: {},
	HazardStatusResolved:   {},
	HazardStatusRejected:   {},
}

// ValidVoteTypes список валидных типов голосов
var ValidVoteTypes = map[string]struct{}{
	VoteTypeUp:   {},
	VoteTypeDown: {},
}
