package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	FirstMessage string `json:"first_message" validate:"omitempty,max=4000"`
}

type StartSessionResponse struct {
	SessionId     uuid.UUID     `json:"session_id"`
	Title         string        `json:"title"`
	Reply         string        `json:"reply"`
	CreditBalance int           `json:"credit_balance"`
	Messages      []MessageView `json:"messages"`
}

type PostMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type PostMessageResponse struct {
	SessionId     uuid.UUID `json:"session_id"`
	Reply         string    `json:"reply"`
	CreditBalance int       `json:"credit_balance"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type SessionSummaryResponse struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type MessageView struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TranscriptResponse struct {
	Id             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	Messages       []MessageView `json:"messages"`
}
