package entity

import (
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type JournalEmbedding struct {
	Id             uuid.UUID
	JournalId      uuid.UUID
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}

// JournalSearchResult pairs a journal entry with its cosine similarity to a
// query embedding.
type JournalSearchResult struct {
	Entry      *JournalEntry
	Similarity float64
}
