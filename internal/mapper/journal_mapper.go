package mapper

import (
	"time"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JournalMapper struct{}

func NewJournalMapper() *JournalMapper {
	return &JournalMapper{}
}

func (m *JournalMapper) ToEntity(e *model.JournalEntry) *entity.JournalEntry {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.JournalEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *JournalMapper) ToModel(e *entity.JournalEntry) *model.JournalEntry {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.JournalEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *JournalMapper) ToEntities(entries []*model.JournalEntry) []*entity.JournalEntry {
	entities := make([]*entity.JournalEntry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

// Embedding Mappers

func (m *JournalMapper) EmbeddingToEntity(e *model.JournalEmbedding) *entity.JournalEmbedding {
	if e == nil {
		return nil
	}
	return &entity.JournalEmbedding{
		Id:             e.Id,
		JournalId:      e.JournalId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *JournalMapper) EmbeddingToModel(e *entity.JournalEmbedding) *model.JournalEmbedding {
	if e == nil {
		return nil
	}
	return &model.JournalEmbedding{
		Id:             e.Id,
		JournalId:      e.JournalId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
