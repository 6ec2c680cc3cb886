package unitofwork

import (
	"context"

	"mindmate-be/internal/repository"
	"mindmate-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CreditTransactionRepository() contract.CreditTransactionRepository

	CompanionSessionRepository() contract.CompanionSessionRepository
	CompanionMessageRepository() contract.CompanionMessageRepository

	MoodRepository() contract.MoodRepository
	JournalRepository() contract.JournalRepository
	JournalEmbeddingRepository() contract.JournalEmbeddingRepository

	NotificationRepository() repository.NotificationRepository
	PaymentRepository() contract.PaymentRepository
}
