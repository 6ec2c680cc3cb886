package contract

import (
	"context"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type JournalRepository interface {
	Create(ctx context.Context, entry *entity.JournalEntry) error
	Update(ctx context.Context, entry *entity.JournalEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// ScoredJournalEmbedding wraps JournalEmbedding with its similarity score.
type ScoredJournalEmbedding struct {
	Embedding  *entity.JournalEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type JournalEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.JournalEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.JournalEmbedding) error
	DeleteByJournalId(ctx context.Context, journalId uuid.UUID) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*ScoredJournalEmbedding, error)
}
