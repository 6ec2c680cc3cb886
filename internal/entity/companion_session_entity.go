package entity

import (
	"time"

	"github.com/google/uuid"
)

type CompanionSession struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Title          string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

type CompanionMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
