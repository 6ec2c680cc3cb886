package implementation

import (
	"context"
	"errors"
	"time"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/mapper"
	"mindmate-be/internal/model"
	"mindmate-be/internal/repository/contract"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MoodRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MoodMapper
}

func NewMoodRepository(db *gorm.DB) contract.MoodRepository {
	return &MoodRepositoryImpl{
		db:     db,
		mapper: mapper.NewMoodMapper(),
	}
}

func (r *MoodRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MoodRepositoryImpl) Create(ctx context.Context, entry *entity.MoodEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *MoodRepositoryImpl) Update(ctx context.Context, entry *entity.MoodEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *MoodRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MoodEntry{}).Error
}

func (r *MoodRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MoodEntry, error) {
	var m model.MoodEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *MoodRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MoodEntry, error) {
	var models []*model.MoodEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *MoodRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MoodEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MoodRepositoryImpl) DailyAverages(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.MoodDailyAverage, error) {
	var rows []struct {
		Day          time.Time
		AverageScore float64
		EntryCount   int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT entry_date AS day, AVG(score) AS average_score, COUNT(*) AS entry_count
		FROM mood_entries
		WHERE user_id = ? AND deleted_at IS NULL AND entry_date BETWEEN ? AND ?
		GROUP BY entry_date
		ORDER BY entry_date ASC
	`, userId, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	averages := make([]*entity.MoodDailyAverage, len(rows))
	for i, row := range rows {
		averages[i] = &entity.MoodDailyAverage{
			Day:          row.Day,
			AverageScore: row.AverageScore,
			EntryCount:   row.EntryCount,
		}
	}
	return averages, nil
}
