package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// CreditPack is a purchasable bundle of conversation credits.
type CreditPack struct {
	Code        string
	Name        string
	Credits     int
	GrossAmount int64
}

type PaymentRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	OrderId     string
	PackCode    string
	Credits     int
	GrossAmount int64
	Status      PaymentStatus
	SnapToken   *string
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
