package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransaction struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type         string     `gorm:"type:varchar(50);not null"`
	Amount       int        `gorm:"not null"`
	BalanceAfter int        `gorm:"not null"`
	Notes        *string    `gorm:"type:text"`
	RelatedId    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
