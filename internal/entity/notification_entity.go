package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationLowCredits     = "low_credits"
	NotificationCreditsGranted = "credits_granted"
	NotificationAccountBanned  = "account_banned"
	NotificationWelcome        = "welcome"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TypeCode  string
	Title     string
	Message   string
	Metadata  map[string]any
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
