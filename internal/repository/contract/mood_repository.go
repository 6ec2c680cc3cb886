package contract

import (
	"context"
	"time"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MoodRepository interface {
	Create(ctx context.Context, entry *entity.MoodEntry) error
	Update(ctx context.Context, entry *entity.MoodEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MoodEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MoodEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DailyAverages(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.MoodDailyAverage, error)
}
