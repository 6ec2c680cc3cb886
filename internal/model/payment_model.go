package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRecord struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderId     string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	PackCode    string     `gorm:"type:varchar(50);not null"`
	Credits     int        `gorm:"not null"`
	GrossAmount int64      `gorm:"not null"`
	Status      string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	SnapToken   *string    `gorm:"type:text"`
	PaidAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
