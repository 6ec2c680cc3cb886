package contract

import (
	"context"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CreditTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumSpentSince(ctx context.Context, userId uuid.UUID, days int) (int, error)
	SumByType(ctx context.Context, txType entity.CreditTransactionType) (int64, error)
}
