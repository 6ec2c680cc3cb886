package contract

import (
	"context"
	"time"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CompanionSessionRepository interface {
	Create(ctx context.Context, session *entity.CompanionSession) error
	Update(ctx context.Context, session *entity.CompanionSession) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CompanionSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompanionSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type CompanionMessageRepository interface {
	Create(ctx context.Context, message *entity.CompanionMessage) error
	CreateBatch(ctx context.Context, messages []*entity.CompanionMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompanionMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
