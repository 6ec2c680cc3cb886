package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionType string

const (
	CreditTransactionGrant      CreditTransactionType = "grant"
	CreditTransactionPurchase   CreditTransactionType = "purchase"
	CreditTransactionUsage      CreditTransactionType = "usage"
	CreditTransactionAdjustment CreditTransactionType = "admin_adjustment"
)

// CreditTransaction is an append-only ledger row. Amount is positive for
// credits added and negative for credits spent.
type CreditTransaction struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Type         CreditTransactionType
	Amount       int
	BalanceAfter int
	Notes        *string
	RelatedId    *uuid.UUID
	CreatedAt    time.Time
}
