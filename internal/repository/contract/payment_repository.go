package contract

import (
	"context"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"
)

type PaymentRepository interface {
	Create(ctx context.Context, record *entity.PaymentRecord) error
	Update(ctx context.Context, record *entity.PaymentRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentRecord, error)
	// MarkPaid flips a pending record to paid exactly once; it reports whether
	// this call performed the transition so webhook retries stay idempotent.
	MarkPaid(ctx context.Context, orderId string) (bool, error)
	MarkStatus(ctx context.Context, orderId string, status entity.PaymentStatus) error
}
