package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateJournalRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type UpdateJournalRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type JournalResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type JournalListItemResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type SearchJournalsRequest struct {
	Query string `json:"query" validate:"required,min=2"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

// PublishEmbedJournalMessage is the async embedding job payload.
type PublishEmbedJournalMessage struct {
	JournalId uuid.UUID `json:"journal_id"`
}

type JournalSearchResultResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}
