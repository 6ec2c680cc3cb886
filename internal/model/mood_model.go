package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MoodEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_mood_user_date,priority:1"`
	Score     int            `gorm:"not null;check:score >= 1 AND score <= 5"`
	Note      *string        `gorm:"type:text"`
	EntryDate time.Time      `gorm:"type:date;not null;index:idx_mood_user_date,priority:2"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}
