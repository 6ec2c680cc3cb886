package implementation

import (
	"context"
	"errors"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/mapper"
	"mindmate-be/internal/model"
	"mindmate-be/internal/repository/contract"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JournalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewJournalRepository(db *gorm.DB) contract.JournalRepository {
	return &JournalRepositoryImpl{
		db:     db,
		mapper: mapper.NewJournalMapper(),
	}
}

func (r *JournalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *JournalRepositoryImpl) Create(ctx context.Context, entry *entity.JournalEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Update(ctx context.Context, entry *entity.JournalEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.JournalEntry{}).Error
}

func (r *JournalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error) {
	var m model.JournalEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *JournalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error) {
	var models []*model.JournalEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *JournalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.JournalEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type JournalEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewJournalEmbeddingRepository(db *gorm.DB) contract.JournalEmbeddingRepository {
	return &JournalEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewJournalMapper(),
	}
}

func (r *JournalEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.JournalEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *JournalEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.JournalEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.JournalEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.EmbeddingToEntity(m)
	}
	return nil
}

func (r *JournalEmbeddingRepositoryImpl) DeleteByJournalId(ctx context.Context, journalId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("journal_id = ?", journalId).Delete(&model.JournalEmbedding{}).Error
}

// SearchSimilar ranks embeddings by pgvector cosine distance. The join with
// journal_entries enforces user ownership and skips soft-deleted rows.
func (r *JournalEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredJournalEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []struct {
		model.JournalEmbedding
		Distance float64 `gorm:"column:distance"`
	}

	vec := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).
		Table("journal_embeddings").
		Select("journal_embeddings.*, journal_embeddings.embedding_value <=> ? AS distance", vec).
		Joins("JOIN journal_entries ON journal_entries.id = journal_embeddings.journal_id").
		Where("journal_entries.user_id = ?", userId).
		Where("journal_embeddings.deleted_at IS NULL").
		Where("journal_entries.deleted_at IS NULL").
		Order(gorm.Expr("journal_embeddings.embedding_value <=> ?", vec)).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var scored []*contract.ScoredJournalEmbedding
	for i := range rows {
		similarity := 1.0 - rows[i].Distance
		if similarity < threshold {
			continue
		}
		scored = append(scored, &contract.ScoredJournalEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&rows[i].JournalEmbedding),
			Similarity: similarity,
		})
	}
	return scored, nil
}
